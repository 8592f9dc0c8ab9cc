package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the trade ledger",
	Long: `Print every recorded trade in chronological order.

With --export the ledger is also written to a CSV file:
  papertrade history --export trades.csv`,
	RunE: runHistory,
}

var historyExport string

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyExport, "export", "e", "", "write the ledger to a CSV file")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, st, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	v := eng.View()
	printHistory(v, cfg.Trader.Currency)

	if historyExport == "" {
		return nil
	}

	out, err := journal.NewCSV(historyExport)
	if err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}
	defer out.Close()

	for _, t := range v.Trades {
		rec := journal.TradeRecord{
			TradeID:    t.ID,
			EntryPrice: t.Price,
			ExitPrice:  t.Price,
			Outcome:    string(t.Outcome),
			ClosedAt:   t.Time,
			Reason:     string(t.Side),
		}
		if err := out.RecordTrade(rec); err != nil {
			return fmt.Errorf("export ledger: %w", err)
		}
	}

	fmt.Printf("Exported %d trades to %s\n", len(v.Trades), historyExport)
	return nil
}
