package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/store"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "A single-user paper-trading simulator",
	Long: `Papertrade is a local paper-trading simulator written in Go.

It maintains a synthetic asset price on a bounded random walk, lets you buy
and sell at that price during trading hours, and keeps your balance and
trade history across restarts.

Commands:
  run      - Interactive trading session
  status   - Show balance, prices and market state
  history  - Show the trade ledger
  fund     - Request the one-time fund assistance
  reset    - Reset the session counter, or all stored state`,
}

var cfgPath string

// Execute adds all child commands to the root command and runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
}

// loadConfig reads the --config file when given, falling back to
// PAPERTRADE_CONFIG and then to built-in defaults.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = os.Getenv("PAPERTRADE_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func openStore(cfg *config.Config) (store.Store, error) {
	path := cfg.Store.DBPath
	if env := os.Getenv("PAPERTRADE_DB"); env != "" {
		path = env
	}

	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.Path)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.Path)
	default:
		return journal.Nop{}, nil
	}
}

// newEngine builds an engine with durable storage but no terminal
// collaborators, for the one-shot commands.
func newEngine(cfg *config.Config) (*engine.Engine, store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(engine.Options{
		Config: cfg,
		Store:  st,
		Logger: newLogger(cfg),
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return eng, st, nil
}
