// Package config loads and validates the core's runtime configuration,
// grounded on the teacher's LoadFromFile/SaveToFile/Validate/Default
// pattern, generalized to the decision engine's own field set and
// extended with evdnx-gots/config's exhaustive bounds-checking idiom.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/risk"
)

// Config is the full runtime configuration the controller consumes.
// Credentials are deliberately absent: they are loaded separately via
// Credentials/LoadCredentialsFromEnv and never serialized here.
type Config struct {
	Symbol                string     `json:"symbol" yaml:"symbol"`
	Period                string     `json:"period" yaml:"period"`
	RiskPercent           float64    `json:"risk_percent" yaml:"risk_percent"`
	AtrMultiplierStop     float64    `json:"atr_multiplier_stop" yaml:"atr_multiplier_stop"`
	RRRatios              [3]float64 `json:"rr_ratios" yaml:"rr_ratios"`
	MomentumFilterEnabled bool       `json:"momentum_filter_enabled" yaml:"momentum_filter_enabled"`
	MomentumAtrThreshold  float64    `json:"momentum_atr_threshold" yaml:"momentum_atr_threshold"`
	CooldownHours         float64    `json:"cooldown_hours" yaml:"cooldown_hours"`
	TickSeconds           int        `json:"tick_seconds" yaml:"tick_seconds"`
	UIRefreshSeconds      int        `json:"ui_refresh_seconds" yaml:"ui_refresh_seconds"`
	BarsToFetch           int        `json:"bars_to_fetch" yaml:"bars_to_fetch"`
	MinBarsRequired       int        `json:"min_bars_required" yaml:"min_bars_required"`
	QualityGateThreshold  float64    `json:"quality_gate_threshold" yaml:"quality_gate_threshold"`
	TrailingOffsets       [2]float64 `json:"trailing_offsets" yaml:"trailing_offsets"`

	// RiskPolicy bounds the exposure and circuit-breaker gate entry.Evaluate
	// runs on the sized order, via risk.Evaluate.
	MaxRiskPct       float64 `json:"max_risk_pct" yaml:"max_risk_pct"`
	MaxDailyLossPct  float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	MaxWeeklyLossPct float64 `json:"max_weekly_loss_pct" yaml:"max_weekly_loss_pct"`
	MaxOpenTrades    int     `json:"max_open_trades" yaml:"max_open_trades"`
	MaxMarginPct     float64 `json:"max_margin_pct" yaml:"max_margin_pct"`
	MinRR            float64 `json:"min_rr" yaml:"min_rr"`
}

// RiskPolicy builds the risk.Policy the entry gate evaluates the sized order
// against, from this config's bounds and RiskPercent default.
func (c *Config) RiskPolicy() risk.Policy {
	return risk.Policy{
		AccountBaseCurrency: "USD",
		DefaultRiskPct:      c.RiskPercent,
		MaxRiskPct:          c.MaxRiskPct,
		MaxDailyLossPct:     c.MaxDailyLossPct,
		MaxWeeklyLossPct:    c.MaxWeeklyLossPct,
		MaxOpenTrades:       c.MaxOpenTrades,
		MaxMarginPct:        c.MaxMarginPct,
		MinRR:               c.MinRR,
	}
}

// PeriodDuration parses Period ("1h", "15m", …) into a time.Duration.
func (c *Config) PeriodDuration() (time.Duration, error) {
	return time.ParseDuration(c.Period)
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration back out, format chosen by extension.
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
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate applies the exhaustive bounds checks the spec names.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if _, ok := market.Instruments[c.Symbol]; !ok {
		return fmt.Errorf("unknown instrument: %s", c.Symbol)
	}
	if _, err := c.PeriodDuration(); err != nil {
		return fmt.Errorf("period: %w", err)
	}
	if c.RiskPercent <= 0 || c.RiskPercent > 1 {
		return fmt.Errorf("risk_percent must be in (0, 1]")
	}
	if c.AtrMultiplierStop <= 0 {
		return fmt.Errorf("atr_multiplier_stop must be positive")
	}
	if !(c.RRRatios[0] < c.RRRatios[1] && c.RRRatios[1] < c.RRRatios[2]) {
		return fmt.Errorf("rr_ratios must be strictly increasing")
	}
	if c.RRRatios[0] <= 0 {
		return fmt.Errorf("rr_ratios[0] must be positive")
	}
	if c.MomentumAtrThreshold < 0 {
		return fmt.Errorf("momentum_atr_threshold must be non-negative")
	}
	if c.CooldownHours < 0 {
		return fmt.Errorf("cooldown_hours must be non-negative")
	}
	if c.TickSeconds <= 0 {
		return fmt.Errorf("tick_seconds must be positive")
	}
	if c.UIRefreshSeconds <= 0 {
		return fmt.Errorf("ui_refresh_seconds must be positive")
	}
	if c.BarsToFetch <= 0 {
		return fmt.Errorf("bars_to_fetch must be positive")
	}
	if c.MinBarsRequired <= 0 || c.MinBarsRequired > c.BarsToFetch {
		return fmt.Errorf("min_bars_required must be positive and <= bars_to_fetch")
	}
	if c.QualityGateThreshold <= 0 || c.QualityGateThreshold > 10 {
		return fmt.Errorf("quality_gate_threshold must be in (0, 10]")
	}
	if c.TrailingOffsets[0] <= 0 || c.TrailingOffsets[1] <= 0 {
		return fmt.Errorf("trailing_offsets must both be positive")
	}
	if c.MaxRiskPct <= 0 || c.MaxRiskPct > 1 {
		return fmt.Errorf("max_risk_pct must be in (0, 1]")
	}
	if c.MaxDailyLossPct <= 0 || c.MaxDailyLossPct > 1 {
		return fmt.Errorf("max_daily_loss_pct must be in (0, 1]")
	}
	if c.MaxWeeklyLossPct <= 0 || c.MaxWeeklyLossPct > 1 {
		return fmt.Errorf("max_weekly_loss_pct must be in (0, 1]")
	}
	if c.MaxOpenTrades <= 0 {
		return fmt.Errorf("max_open_trades must be positive")
	}
	if c.MaxMarginPct <= 0 || c.MaxMarginPct > 1 {
		return fmt.Errorf("max_margin_pct must be in (0, 1]")
	}
	if c.MinRR <= 0 {
		return fmt.Errorf("min_rr must be positive")
	}
	return nil
}

// Default returns the spec-named default configuration for XAU_USD.
func Default() *Config {
	return &Config{
		Symbol:                "XAU_USD",
		Period:                "1h",
		RiskPercent:           0.01,
		AtrMultiplierStop:     1.5,
		RRRatios:              [3]float64{1.4, 1.9, 2.5},
		MomentumFilterEnabled: false,
		MomentumAtrThreshold:  0.3,
		CooldownHours:         24,
		TickSeconds:           10,
		UIRefreshSeconds:      5,
		BarsToFetch:           500,
		MinBarsRequired:       220,
		QualityGateThreshold:  6.5,
		TrailingOffsets:       [2]float64{0.3, 0.1},
		MaxRiskPct:            0.01,
		MaxDailyLossPct:       0.03,
		MaxWeeklyLossPct:      0.06,
		MaxOpenTrades:         1,
		MaxMarginPct:          0.5,
		MinRR:                 1.4,
	}
}
