package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Request the one-time fund assistance",
	Long: `Grant the one-time balance top-up.

The grant is only available while the balance is below the funding threshold
and has never been used before.`,
	RunE: runFund,
}

func init() {
	rootCmd.AddCommand(fundCmd)
}

func runFund(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, st, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := eng.Fund(); err != nil {
		return err
	}

	v := eng.View()
	fmt.Printf("Balance: %s %s\n", cfg.Trader.Currency, v.Balance.StringFixed(2))
	return nil
}
