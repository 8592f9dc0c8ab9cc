package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/notify"
	"github.com/rustyeddy/papertrade/sched"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive trading session",
	Long: `Start an interactive trading session.

The price walk and market clock run in the background while you type
commands:

  buy | b            open a position at the current price
  sell | s           close the open position
  fund | f           request the one-time fund assistance
  withdraw <amount>  withdraw from your balance
  status             show balance, prices and market state
  history            show the trade ledger
  reset              reset the session trade counter
  quit | q           leave the session`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	jrnl, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	notifier := notify.NewTerminal(os.Stdout)

	eng, err := engine.New(engine.Options{
		Config:   cfg,
		Store:    st,
		Journal:  jrnl,
		Notifier: notifier,
		Sounds:   notify.NewLogSound(log),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	if eng.View().UserName == "" {
		var name string
		prompt := &survey.Input{Message: "Trader name:"}
		if err := survey.AskOne(prompt, &name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		if err := eng.SetIdentity(name); err != nil {
			return err
		}
	}

	tick, err := cfg.Market.ParseTickInterval()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sc := sched.New(eng, tick)
	wasOpen := eng.View().MarketOpen
	sc.OnTick(func(t sched.Tick) {
		if t.Status.Open != wasOpen {
			wasOpen = t.Status.Open
			if t.Status.Open {
				notifier.Notify("Market is now open.", notify.Success)
			} else {
				notifier.Notify("Market is now closed.", notify.Failure)
			}
		}
	})
	go sc.Run(ctx)

	printStatus(eng.View(), cfg.Trader.Currency)
	fmt.Println(`Type "buy", "sell", "fund", "status", "history" or "quit".`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "buy", "b":
			if err := eng.Buy(); err != nil {
				notifier.Notify(err.Error(), notify.Failure)
			}
		case "sell", "s":
			if err := eng.Sell(); err != nil {
				notifier.Notify(err.Error(), notify.Failure)
			}
		case "fund", "f":
			if err := eng.Fund(); err != nil {
				notifier.Notify(err.Error(), notify.Failure)
			}
		case "withdraw":
			if len(fields) != 2 {
				notifier.Notify("usage: withdraw <amount>", notify.Info)
				continue
			}
			amount, err := decimal.NewFromString(fields[1])
			if err != nil {
				notifier.Notify("invalid amount: "+fields[1], notify.Failure)
				continue
			}
			if err := eng.Withdraw(amount); err != nil {
				notifier.Notify(err.Error(), notify.Failure)
			}
		case "status", "st":
			printStatus(eng.View(), cfg.Trader.Currency)
		case "history", "h":
			printHistory(eng.View(), cfg.Trader.Currency)
		case "reset":
			eng.ResetSession()
			notifier.Notify("Session trade counter reset.", notify.Info)
		case "quit", "q", "exit":
			return nil
		default:
			notifier.Notify("unknown command: "+fields[0], notify.Info)
		}
	}
}

func printStatus(v engine.View, currency string) {
	status := "Closed"
	boundary := "opens"
	if v.MarketOpen {
		status = "Open"
		boundary = "closes"
	}

	fmt.Printf("Trader: %s\n", v.UserName)
	fmt.Printf("Market: %s (%s at %s)\n", status, boundary, v.NextBoundary.Format("Mon 15:04:05"))
	fmt.Printf("Price:  %s %s (prev %s, trend %s)\n",
		currency, v.CurrentPrice.StringFixed(2), v.PreviousPrice.StringFixed(2), v.Trend)
	fmt.Printf("Balance: %s %s | Est. DTC: %s\n",
		currency, v.Balance.StringFixed(2), v.EstimatedTokens.StringFixed(2))
	fmt.Printf("Session trades: %d/%d (buys %d, sells %d)\n",
		v.SessionTrades, v.MaxTrades, v.BuyCount, v.SellCount)
}

func printHistory(v engine.View, currency string) {
	if len(v.Trades) == 0 {
		fmt.Println("No trades yet.")
		return
	}
	for _, t := range v.Trades {
		fmt.Printf("%s  %-4s at %s %s — %s\n",
			t.Time.Format("2006-01-02 15:04:05"), t.Side, currency, t.Price.StringFixed(2), t.Outcome)
	}
}
