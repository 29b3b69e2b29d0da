package core

import (
	"math"
	"slices"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	m "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/models"
)

// GetCompanyStatistics computes the full per-company record from one
// column of the aligned table. Every statistic uses the unsmoothed daily
// returns; no company's result depends on another's.
func GetCompanyStatistics(symbol string, company, benchmark []float64, riskFreeAnnual, varConfidence float64) m.CompanyStatistics {
	res := m.CompanyStatistics{
		Symbol:       symbol,
		Observations: len(company),

		Beta:        Beta(company, benchmark),
		SharpeRatio: SharpeRatio(company, riskFreeAnnual),

		VaR:  ValueAtRisk(company, varConfidence),
		CVaR: ConditionalValueAtRisk(company, varConfidence),

		AnnualizedReturn:     stat.Mean(company, nil) * m.Daily,
		AnnualizedVolatility: stat.StdDev(company, nil) * math.Sqrt(m.Daily),
		MaxDrawdown:          MaxDrawdown(company),
		Correlation:          correlation(company, benchmark),
	}

	welch := WelchTTest(company, benchmark, varConfidence)
	res.TStatistic = welch.T
	res.PValue = welch.P
	res.CILower = welch.CILower
	res.CIUpper = welch.CIUpper

	return res
}

// Beta is the slope of the OLS regression of company returns on benchmark
// returns (company = alpha + beta*benchmark + eps). A zero-variance
// benchmark leaves beta undefined rather than dividing by zero.
func Beta(company, benchmark []float64) null.Float {
	if len(company) < 2 || len(company) != len(benchmark) {
		return null.NewFloat(0, false)
	}
	if stat.Variance(benchmark, nil) == 0 {
		return null.NewFloat(0, false)
	}

	_, beta := stat.LinearRegression(benchmark, company, nil, false)
	return null.NewFloat(beta, true)
}

// SharpeRatio is (mean - rf_daily) / stddev with the annual risk-free rate
// converted at 252 trading days and the sample (n-1) standard deviation.
// A zero-variance series leaves the ratio undefined.
func SharpeRatio(returns []float64, riskFreeAnnual float64) null.Float {
	if len(returns) < 2 {
		return null.NewFloat(0, false)
	}

	sd := stat.StdDev(returns, nil)
	if sd == 0 {
		return null.NewFloat(0, false)
	}

	riskFreeDaily := riskFreeAnnual / m.Daily
	return null.NewFloat((stat.Mean(returns, nil)-riskFreeDaily)/sd, true)
}

// ValueAtRisk is the empirical (1 - confidence) quantile of the daily
// return distribution, linearly interpolated between order statistics. A
// loss threshold, so typically negative.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	sorted := slices.Clone(returns)
	slices.Sort(sorted)
	return stat.Quantile(1-confidence, stat.LinInterp, sorted, nil)
}

// ConditionalValueAtRisk (expected shortfall) is the mean of the returns at
// or below the VaR threshold.
func ConditionalValueAtRisk(returns []float64, confidence float64) float64 {
	threshold := ValueAtRisk(returns, confidence)

	var sum float64
	var n int
	for _, r := range returns {
		if r <= threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return threshold
	}
	return sum / float64(n)
}

// MaxDrawdown is the largest peak-to-trough loss of the cumulative return
// path implied by the log returns, as a positive fraction.
func MaxDrawdown(returns []float64) float64 {
	value := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, r := range returns {
		value *= math.Exp(r)
		if value > peak {
			peak = value
		}
		if dd := (peak - value) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func correlation(a, b []float64) null.Float {
	if len(a) < 2 || len(a) != len(b) {
		return null.NewFloat(0, false)
	}
	if stat.Variance(a, nil) == 0 || stat.Variance(b, nil) == 0 {
		return null.NewFloat(0, false)
	}
	return null.NewFloat(stat.Correlation(a, b, nil), true)
}

// WelchResult holds the two-sample unequal-variance t-test outputs: the t
// statistic, the two-sided p-value, and a confidence interval for the mean
// difference. All invalid when the pooled standard error degenerates to
// zero.
type WelchResult struct {
	T       null.Float
	P       null.Float
	CILower null.Float
	CIUpper null.Float
}

// WelchTTest compares two return distributions with Welch's unequal
// variance t-test, degrees of freedom per Welch-Satterthwaite. confidence
// sets the width of the mean-difference interval (0.95 gives a 95% CI).
func WelchTTest(a, b []float64, confidence float64) WelchResult {
	invalid := WelchResult{
		T:       null.NewFloat(0, false),
		P:       null.NewFloat(0, false),
		CILower: null.NewFloat(0, false),
		CIUpper: null.NewFloat(0, false),
	}

	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return invalid
	}

	m1, m2 := stat.Mean(a, nil), stat.Mean(b, nil)
	v1, v2 := stat.Variance(a, nil), stat.Variance(b, nil)

	se2 := v1/n1 + v2/n2
	if se2 == 0 {
		return invalid
	}
	se := math.Sqrt(se2)

	t := (m1 - m2) / se
	df := se2 * se2 / ((v1/n1)*(v1/n1)/(n1-1) + (v2/n2)*(v2/n2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	tCrit := dist.Quantile(1 - (1-confidence)/2)

	return WelchResult{
		T:       null.NewFloat(t, true),
		P:       null.NewFloat(p, true),
		CILower: null.NewFloat((m1-m2)-tCrit*se, true),
		CIUpper: null.NewFloat((m1-m2)+tCrit*se, true),
	}
}
