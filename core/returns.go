package core

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	ex "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/extensions"
	m "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/models"
)

// CalculateLogReturns derives the daily log-return series of a price
// series: R[i] = ln(P[i+1]) - ln(P[i]), dated at the later day of each
// pair. Fewer than two observations is ErrInsufficientData.
func CalculateLogReturns(prices m.PriceSeries) (m.ReturnSeries, error) {
	if prices.Len() < 2 {
		return m.ReturnSeries{}, fmt.Errorf("%w: %s has %d price observations, need at least 2",
			m.ErrInsufficientData, prices.Symbol, prices.Len())
	}

	points := make([]m.ReturnPoint, prices.Len()-1)
	for i := 0; i < prices.Len()-1; i++ {
		points[i] = m.ReturnPoint{
			Date:      prices.Points[i+1].Date,
			LogReturn: math.Log(prices.Points[i+1].AdjustedClose) - math.Log(prices.Points[i].AdjustedClose),
		}
	}

	return m.ReturnSeries{Symbol: prices.Symbol, Points: points}, nil
}

// AlignReturns inner-joins all return series on date. Only dates present in
// every series survive, so every row of the result is fully populated.
func AlignReturns(series []m.ReturnSeries) (m.AlignedReturnTable, error) {
	if len(series) == 0 {
		return m.AlignedReturnTable{}, fmt.Errorf("%w: no return series to align", m.ErrInsufficientData)
	}

	// count how many series carry each calendar date; joining on the date
	// string sidesteps exchange time zone differences between series
	type dateEntry struct {
		date  time.Time
		count int
	}
	seen := make(map[string]*dateEntry)
	for _, s := range series {
		for _, p := range s.Points {
			key := ex.FmtShort(p.Date)
			if e, ok := seen[key]; ok {
				e.count++
			} else {
				seen[key] = &dateEntry{date: p.Date, count: 1}
			}
		}
	}

	shared := make([]time.Time, 0, len(seen))
	for _, e := range seen {
		if e.count == len(series) {
			shared = append(shared, e.date)
		}
	}
	if len(shared) == 0 {
		return m.AlignedReturnTable{}, fmt.Errorf("%w: return series share no common dates", m.ErrInsufficientData)
	}

	slices.SortFunc(shared, func(a, b time.Time) int {
		return a.Compare(b)
	})

	symbols := make([]string, len(series))
	columns := make(map[string][]float64, len(series))
	for i, s := range series {
		byDate := make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			byDate[ex.FmtShort(p.Date)] = p.LogReturn
		}

		col := make([]float64, len(shared))
		for j, d := range shared {
			col[j] = byDate[ex.FmtShort(d)]
		}

		symbols[i] = s.Symbol
		columns[s.Symbol] = col
	}

	table, err := m.NewAlignedReturnTable(shared, symbols, columns)
	if err != nil {
		return m.AlignedReturnTable{}, err
	}

	if err := verifyAlignment(table); err != nil {
		return m.AlignedReturnTable{}, err
	}

	return table, nil
}

// verifyAlignment re-checks the join invariants: equal column lengths and
// strictly increasing dates.
func verifyAlignment(table m.AlignedReturnTable) error {
	lengths := make([]int, 0, len(table.Symbols)+1)
	lengths = append(lengths, table.Rows())
	for _, s := range table.Symbols {
		col, ok := table.Column(s)
		if !ok {
			return fmt.Errorf("data validation failed, column %s missing after alignment", s)
		}
		lengths = append(lengths, len(col))
	}

	if !ex.AreAllEqual(lengths) {
		return fmt.Errorf("data validation failed, aligned column lengths do not agree")
	}

	for i := 1; i < len(table.Dates); i++ {
		if !table.Dates[i-1].Before(table.Dates[i]) {
			return fmt.Errorf("data validation failed, aligned dates are not strictly increasing")
		}
	}

	return nil
}

// RollingMean computes a trailing rolling mean over a return series for
// display. The value at index i is the mean of values i-window+1..i; the
// first window-1 positions are invalid. The result never feeds statistics.
func RollingMean(values []float64, window int) []null.Float {
	res := make([]null.Float, len(values))
	for i := range values {
		if i+1 < window {
			res[i] = null.NewFloat(0, false)
			continue
		}
		res[i] = null.NewFloat(stat.Mean(values[i+1-window:i+1], nil), true)
	}
	return res
}
