package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every knob the bot recognizes. Keys are stable; files written
// by older versions load cleanly because unknown fields are simply absent.
type Config struct {
	// General
	DryRun           bool    `json:"dry_run" yaml:"dry_run"`
	InitialCapital   float64 `json:"initial_capital" yaml:"initial_capital"`
	MinTradeUSD      float64 `json:"min_trade_usd" yaml:"min_trade_usd"`
	MaxPositions     int     `json:"max_positions" yaml:"max_positions"`
	MaxPositionPct   float64 `json:"max_position_pct" yaml:"max_position_pct"`
	CheckIntervalSec int     `json:"check_interval_sec" yaml:"check_interval_sec"`

	// Fees
	MakerFee  float64 `json:"coinbase_maker_fee" yaml:"coinbase_maker_fee"`
	TakerFee  float64 `json:"coinbase_taker_fee" yaml:"coinbase_taker_fee"`
	MaxFeePct float64 `json:"max_fee_pct" yaml:"max_fee_pct"`

	// Risk
	StopLossPct               float64   `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct             float64   `json:"take_profit_pct" yaml:"take_profit_pct"`
	TrailingStopEnabled       bool      `json:"trailing_stop_enabled" yaml:"trailing_stop_enabled"`
	TrailingStopActivationPct float64   `json:"trailing_stop_activation_pct" yaml:"trailing_stop_activation_pct"`
	TrailingStopDistancePct   float64   `json:"trailing_stop_distance_pct" yaml:"trailing_stop_distance_pct"`
	MaxDrawdownPct            float64   `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
	MaxDailyLossPct           float64   `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	PartialProfitEnabled      bool      `json:"partial_profit_enabled" yaml:"partial_profit_enabled"`
	PartialProfitLevels       []float64 `json:"partial_profit_levels" yaml:"partial_profit_levels"`
	PartialProfitAmounts      []float64 `json:"partial_profit_amounts" yaml:"partial_profit_amounts"`

	// Persistence
	PositionsFile string `json:"positions_file" yaml:"positions_file"`

	// Journal
	JournalType   string `json:"journal_type" yaml:"journal_type"` // "csv" or "sqlite"
	TradesFile    string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	CapitalFile   string `json:"capital_file,omitempty" yaml:"capital_file,omitempty"`
	JournalDBPath string `json:"journal_db_path,omitempty" yaml:"journal_db_path,omitempty"`

	// Observability
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format"` // "json" or "text"
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// Default returns the moderate baseline configuration.
func Default() *Config {
	return &Config{
		DryRun:           true,
		InitialCapital:   600.0,
		MinTradeUSD:      150.0,
		MaxPositions:     3,
		MaxPositionPct:   0.25,
		CheckIntervalSec: 3600,

		MakerFee:  0.005,
		TakerFee:  0.02,
		MaxFeePct: 0.01,

		StopLossPct:               0.06,
		TakeProfitPct:             0.10,
		TrailingStopEnabled:       true,
		TrailingStopActivationPct: 0.10,
		TrailingStopDistancePct:   0.05,
		MaxDrawdownPct:            0.20,
		MaxDailyLossPct:           0.05,
		PartialProfitEnabled:      true,
		PartialProfitLevels:       []float64{0.10, 0.20, 0.30},
		PartialProfitAmounts:      []float64{0.33, 0.33, 0.34},

		PositionsFile: "data/positions.json",

		JournalType: "csv",
		TradesFile:  "./trades.csv",
		CapitalFile: "./capital.csv",

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Presets are named overlays applied on top of the current config.
var Presets = map[string]func(*Config){
	"conservative": func(c *Config) {
		c.MaxPositions = 2
		c.MaxPositionPct = 0.20
		c.StopLossPct = 0.07
		c.TakeProfitPct = 0.12
		c.MaxDailyLossPct = 0.03
	},
	"moderate": func(c *Config) {
		c.MaxPositions = 3
		c.MaxPositionPct = 0.25
		c.StopLossPct = 0.06
		c.TakeProfitPct = 0.10
		c.MaxDailyLossPct = 0.05
	},
	"aggressive": func(c *Config) {
		c.MaxPositions = 4
		c.MaxPositionPct = 0.25
		c.StopLossPct = 0.05
		c.TakeProfitPct = 0.08
		c.MaxDailyLossPct = 0.07
	},
}

// ApplyPreset overlays a named preset onto c.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %s", name)
	}
	p(c)
	return nil
}

// LoadFromFile loads configuration from a file (YAML or JSON).
// Missing keys keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive")
	}
	if c.MinTradeUSD > c.InitialCapital {
		return fmt.Errorf("min_trade_usd cannot exceed initial_capital")
	}
	if c.MaxPositions < 1 {
		return fmt.Errorf("max_positions must be at least 1")
	}
	if c.MaxPositionPct <= 0 || c.MaxPositionPct > 1 {
		return fmt.Errorf("max_position_pct must be in (0, 1]")
	}
	if c.StopLossPct <= 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("stop_loss_pct must be in (0, 1)")
	}
	if c.MaxDrawdownPct <= 0 || c.MaxDrawdownPct >= 1 {
		return fmt.Errorf("max_drawdown_pct must be in (0, 1)")
	}
	if c.MakerFee < 0 || c.TakerFee < 0 {
		return fmt.Errorf("fees must be non-negative")
	}
	if c.PartialProfitEnabled {
		if len(c.PartialProfitLevels) != len(c.PartialProfitAmounts) {
			return fmt.Errorf("partial_profit_levels and amounts must be same length")
		}
		var sum float64
		for _, a := range c.PartialProfitAmounts {
			sum += a
		}
		if math.Abs(sum-1.0) > 0.01 {
			return fmt.Errorf("partial_profit_amounts must sum to 1.0")
		}
		for i := 1; i < len(c.PartialProfitLevels); i++ {
			if c.PartialProfitLevels[i] <= c.PartialProfitLevels[i-1] {
				return fmt.Errorf("partial_profit_levels must be ascending")
			}
		}
	}
	if c.JournalType != "csv" && c.JournalType != "sqlite" {
		return fmt.Errorf("journal_type must be 'csv' or 'sqlite'")
	}
	if c.JournalType == "csv" && (c.TradesFile == "" || c.CapitalFile == "") {
		return fmt.Errorf("trades_file and capital_file required for CSV journal")
	}
	if c.JournalType == "sqlite" && c.JournalDBPath == "" {
		return fmt.Errorf("journal_db_path required for SQLite journal")
	}
	return nil
}
