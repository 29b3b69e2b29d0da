package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// CompanyStatistics is the read-only per-company result record. Statistics
// that are undefined for the input (zero-variance beta or Sharpe, degenerate
// t-test) are carried as invalid null.Float values rather than NaN.
type CompanyStatistics struct {
	Symbol       string
	Observations int

	Beta        null.Float
	SharpeRatio null.Float

	VaR  float64
	CVaR float64

	TStatistic null.Float
	PValue     null.Float
	CILower    null.Float
	CIUpper    null.Float

	AnnualizedReturn     float64
	AnnualizedVolatility float64
	MaxDrawdown          float64
	Correlation          null.Float
}

// SmoothedSeries is the display-only trailing rolling mean of a return
// series. The first window-1 values are invalid.
type SmoothedSeries struct {
	Symbol string
	Window int
	Values []null.Float
}

// Report is everything the presentation layer consumes for one run.
type Report struct {
	GeneratedAt time.Time
	From        time.Time
	To          time.Time

	Benchmark     string
	RiskFreeRate  float64
	VaRConfidence float64

	Table     AlignedReturnTable
	Companies []CompanyStatistics
	Smoothed  []SmoothedSeries
}
