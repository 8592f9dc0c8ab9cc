package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show balance, prices and market state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, st, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	printStatus(eng.View(), cfg.Trader.Currency)
	return nil
}
