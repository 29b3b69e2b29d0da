package config

import (
	"testing"

	ex "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/extensions"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("error loading configuration: %v", err)
	}

	ex.AssertAreEqual(t, "tickers", 4, len(cfg.Tickers))
	ex.AssertAreEqual(t, "first ticker", "TM", cfg.Tickers[0])
	ex.AssertAreEqual(t, "benchmark", "SPY", cfg.Benchmark)
	ex.AssertAreEqual(t, "lookback", 365, cfg.LookbackDays)
	ex.AssertAreEqual(t, "risk free rate", 0.01, cfg.RiskFreeRate)
	ex.AssertAreEqual(t, "var confidence", 0.95, cfg.VaRConfidence)
	ex.AssertAreEqual(t, "rolling window", 7, cfg.RollingWindow)
	ex.AssertAreEqual(t, "output", "report.md", cfg.Output)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "test-key")
	t.Setenv("REPORT_TICKERS", "VWAGY,STLA")
	t.Setenv("REPORT_BENCHMARK", "VOO")
	t.Setenv("REPORT_LOOKBACK_DAYS", "180")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("error loading configuration: %v", err)
	}

	ex.AssertAreEqual(t, "tickers", 2, len(cfg.Tickers))
	ex.AssertAreEqual(t, "benchmark", "VOO", cfg.Benchmark)
	ex.AssertAreEqual(t, "lookback", 180, cfg.LookbackDays)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() ReportConfig {
		return ReportConfig{
			Tickers:       []string{"TM"},
			Benchmark:     "SPY",
			LookbackDays:  365,
			RiskFreeRate:  0.01,
			VaRConfidence: 0.95,
			RollingWindow: 7,
			ApiKey:        "k",
		}
	}

	cases := []struct {
		name   string
		mutate func(*ReportConfig)
	}{
		{"no tickers", func(c *ReportConfig) { c.Tickers = nil }},
		{"no benchmark", func(c *ReportConfig) { c.Benchmark = "" }},
		{"benchmark among tickers", func(c *ReportConfig) { c.Tickers = []string{"SPY"} }},
		{"short lookback", func(c *ReportConfig) { c.LookbackDays = 1 }},
		{"confidence too high", func(c *ReportConfig) { c.VaRConfidence = 1 }},
		{"confidence too low", func(c *ReportConfig) { c.VaRConfidence = 0 }},
		{"zero window", func(c *ReportConfig) { c.RollingWindow = 0 }},
	}

	for _, tc := range cases {
		cfg := base()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}

	good := base()
	if err := good.Validate(); err != nil {
		t.Errorf("valid configuration rejected: %v", err)
	}
}
