package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/papertrade/market"
)

// Config is the complete simulator configuration.
type Config struct {
	Trader  TraderConfig  `json:"trader" yaml:"trader"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	Limits  LimitsConfig  `json:"limits" yaml:"limits"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// TraderConfig describes the simulated account.
type TraderConfig struct {
	Currency   string  `json:"currency" yaml:"currency"`
	TokenPrice float64 `json:"token_price" yaml:"token_price"` // display rate for the estimated token holding
}

// MarketConfig sets the session schedule and price cadence.
type MarketConfig struct {
	Windows       []market.Window `json:"windows" yaml:"windows"`
	StartPrice    float64         `json:"start_price" yaml:"start_price"`
	PriceInterval string          `json:"price_interval" yaml:"price_interval"` // e.g. "10m"
	TickInterval  string          `json:"tick_interval" yaml:"tick_interval"`   // scheduler cadence, e.g. "1s"
}

// LimitsConfig bounds trading activity and assistance.
type LimitsConfig struct {
	MaxTradesPerSession int     `json:"max_trades_per_session" yaml:"max_trades_per_session"`
	FundAmount          float64 `json:"fund_amount" yaml:"fund_amount"`
	FundThreshold       float64 `json:"fund_threshold" yaml:"fund_threshold"`
	WithdrawMin         float64 `json:"withdraw_min" yaml:"withdraw_min"`
	WithdrawMax         float64 `json:"withdraw_max" yaml:"withdraw_max"`
}

// StoreConfig locates the durable snapshot database.
type StoreConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// JournalConfig selects where resolved trades are recorded.
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// ParsePriceInterval parses the price regeneration cadence.
func (m MarketConfig) ParsePriceInterval() (time.Duration, error) {
	return time.ParseDuration(m.PriceInterval)
}

// ParseTickInterval parses the scheduler cadence.
func (m MarketConfig) ParseTickInterval() (time.Duration, error) {
	return time.ParseDuration(m.TickInterval)
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Trader.Currency == "" {
		return fmt.Errorf("trader.currency is required")
	}
	if c.Trader.TokenPrice <= 0 {
		return fmt.Errorf("trader.token_price must be positive")
	}
	for i, w := range c.Market.Windows {
		if w.Open < 0 || w.Close > 24 || w.Open >= w.Close {
			return fmt.Errorf("market.windows[%d]: open must be before close within [0,24]", i)
		}
		if i > 0 && c.Market.Windows[i-1].Close > w.Open {
			return fmt.Errorf("market.windows[%d]: windows must be ordered and non-overlapping", i)
		}
	}
	if c.Market.StartPrice < 1 {
		return fmt.Errorf("market.start_price must be at least 1")
	}
	if _, err := c.Market.ParsePriceInterval(); err != nil {
		return fmt.Errorf("market.price_interval: %w", err)
	}
	if _, err := c.Market.ParseTickInterval(); err != nil {
		return fmt.Errorf("market.tick_interval: %w", err)
	}
	if c.Limits.MaxTradesPerSession <= 0 {
		return fmt.Errorf("limits.max_trades_per_session must be positive")
	}
	if c.Limits.FundAmount <= 0 {
		return fmt.Errorf("limits.fund_amount must be positive")
	}
	if c.Limits.FundThreshold <= 0 {
		return fmt.Errorf("limits.fund_threshold must be positive")
	}
	if c.Limits.WithdrawMin <= 0 || c.Limits.WithdrawMax < c.Limits.WithdrawMin {
		return fmt.Errorf("limits.withdraw_min..withdraw_max must be a positive range")
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	switch c.Journal.Type {
	case "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for %s journal", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with the stock simulator parameters.
func Default() *Config {
	return &Config{
		Trader: TraderConfig{
			Currency:   "NLE",
			TokenPrice: 20.00,
		},
		Market: MarketConfig{
			Windows:       market.DefaultWindows,
			StartPrice:    20.00,
			PriceInterval: "10m",
			TickInterval:  "1s",
		},
		Limits: LimitsConfig{
			MaxTradesPerSession: 8,
			FundAmount:          25.00,
			FundThreshold:       25.00,
			WithdrawMin:         150.00,
			WithdrawMax:         250.00,
		},
		Store: StoreConfig{
			DBPath: "papertrade.db",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
