package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Kde29/FinancialAnalysis-AutomobileCompanies/config"
	m "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/models"
)

// MarketData is the consumed slice of the provider boundary: one symbol and
// date range in, one date-indexed adjusted-close series out.
type MarketData interface {
	DailyAdjusted(ctx context.Context, ticker string, from, to time.Time) (m.PriceSeries, error)
}

type ReportContext struct {
	Context context.Context
	Client  MarketData
	Config  *config.ReportConfig
}

// BuildReport runs the whole pipeline once: fetch every symbol, derive and
// align the log returns, compute per-company statistics against the
// benchmark, and smooth each series for display. Any fetch or derivation
// failure aborts the run; there is no partial report.
func (rc *ReportContext) BuildReport() (*m.Report, error) {
	start := time.Now()
	cfg := rc.Config

	to := time.Now()
	from := to.AddDate(0, 0, -cfg.LookbackDays)

	symbols := append([]string{cfg.Benchmark}, cfg.Tickers...)

	log.Printf("Fetching %d symbols from %s to %s", len(symbols), from.Format(time.DateOnly), to.Format(time.DateOnly))
	prices, err := rc.fetchAll(symbols, from, to)
	if err != nil {
		return nil, err
	}

	log.Printf("Deriving log returns (time: %v)", time.Since(start))
	returns := make([]m.ReturnSeries, len(symbols))
	for i, ps := range prices {
		returns[i], err = CalculateLogReturns(ps)
		if err != nil {
			return nil, err
		}
	}

	log.Printf("Aligning return series on shared dates (time: %v)", time.Since(start))
	table, err := AlignReturns(returns)
	if err != nil {
		return nil, err
	}
	log.Printf("Aligned table has %d trading days across %d symbols", table.Rows(), len(table.Symbols))

	benchmark, ok := table.Column(cfg.Benchmark)
	if !ok {
		return nil, fmt.Errorf("benchmark column %s missing from aligned table", cfg.Benchmark)
	}

	log.Printf("Computing company statistics (time: %v)", time.Since(start))
	companies := make([]m.CompanyStatistics, len(cfg.Tickers))
	for i, ticker := range cfg.Tickers {
		col, ok := table.Column(ticker)
		if !ok {
			return nil, fmt.Errorf("column %s missing from aligned table", ticker)
		}
		companies[i] = GetCompanyStatistics(ticker, col, benchmark, cfg.RiskFreeRate, cfg.VaRConfidence)
	}

	// smoothing branches off for display only, statistics above used the
	// unsmoothed returns
	smoothed := make([]m.SmoothedSeries, 0, len(symbols))
	for _, symbol := range table.Symbols {
		col, _ := table.Column(symbol)
		smoothed = append(smoothed, m.SmoothedSeries{
			Symbol: symbol,
			Window: cfg.RollingWindow,
			Values: RollingMean(col, cfg.RollingWindow),
		})
	}

	log.Printf("Report complete (time: %v)", time.Since(start))
	return &m.Report{
		GeneratedAt:   time.Now(),
		From:          from,
		To:            to,
		Benchmark:     cfg.Benchmark,
		RiskFreeRate:  cfg.RiskFreeRate,
		VaRConfidence: cfg.VaRConfidence,
		Table:         table,
		Companies:     companies,
		Smoothed:      smoothed,
	}, nil
}

// fetchAll pulls every symbol concurrently. Results land in their own slot
// so arrival order is irrelevant; the first failure cancels the rest and
// aborts the run rather than silently omitting a company.
func (rc *ReportContext) fetchAll(symbols []string, from, to time.Time) ([]m.PriceSeries, error) {
	res := make([]m.PriceSeries, len(symbols))

	g, ctx := errgroup.WithContext(rc.Context)
	for i, symbol := range symbols {
		g.Go(func() error {
			series, err := rc.Client.DailyAdjusted(ctx, symbol, from, to)
			if err != nil {
				return err
			}
			log.Printf("Fetched %s: %d observations", symbol, series.Len())
			res[i] = series
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
