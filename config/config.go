package config

import (
	"fmt"
	"slices"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ReportConfig holds the fixed inputs of one report run. Everything has a
// default except the Alpha Vantage key.
type ReportConfig struct {
	Tickers       []string `envconfig:"REPORT_TICKERS" default:"TM,HMC,F,GM"`
	Benchmark     string   `envconfig:"REPORT_BENCHMARK" default:"SPY"`
	LookbackDays  int      `envconfig:"REPORT_LOOKBACK_DAYS" default:"365"`
	RiskFreeRate  float64  `envconfig:"REPORT_RISK_FREE_RATE" default:"0.01"`
	VaRConfidence float64  `envconfig:"REPORT_VAR_CONFIDENCE" default:"0.95"`
	RollingWindow int      `envconfig:"REPORT_ROLLING_WINDOW" default:"7"`
	Output        string   `envconfig:"REPORT_OUTPUT" default:"report.md"`

	ApiKey string `envconfig:"ALPHAVANTAGE_API_KEY" required:"true"`
}

// Load reads the configuration from the environment, seeding it from a .env
// file when one exists. A missing .env is not an error.
func Load() (*ReportConfig, error) {
	_ = godotenv.Load()

	var cfg ReportConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *ReportConfig) Validate() error {
	if len(cfg.Tickers) == 0 {
		return fmt.Errorf("at least one ticker is required")
	}
	if cfg.Benchmark == "" {
		return fmt.Errorf("a benchmark symbol is required")
	}
	if slices.Contains(cfg.Tickers, cfg.Benchmark) {
		return fmt.Errorf("benchmark %s cannot also be a company ticker", cfg.Benchmark)
	}
	if cfg.LookbackDays < 2 {
		return fmt.Errorf("lookback window must cover at least 2 days, got %d", cfg.LookbackDays)
	}
	if cfg.VaRConfidence <= 0 || cfg.VaRConfidence >= 1 {
		return fmt.Errorf("VaR confidence must be in (0, 1), got %v", cfg.VaRConfidence)
	}
	if cfg.RollingWindow < 1 {
		return fmt.Errorf("rolling window must be at least 1, got %d", cfg.RollingWindow)
	}
	return nil
}
