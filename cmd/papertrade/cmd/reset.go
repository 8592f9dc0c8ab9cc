package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the session counter, or all stored state",
	Long: `Reset the session trade counter so a fresh set of trades is allowed.

With --all the entire stored state is cleared: balance, ledger, price walk
and the fund-assistance latch. There is no undo.`,
	RunE: runReset,
}

var resetAll bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "clear all stored state, not just the session counter")
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if resetAll {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Clear(); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
		fmt.Println("All stored state cleared.")
		return nil
	}

	eng, st, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	eng.ResetSession()
	fmt.Println("Session trade counter reset.")
	return nil
}
