package models

import (
	"fmt"
	"time"
)

const (
	Daily     = 252
	Weekly    = 52
	Monthly   = 12
	Quarterly = 4
	Yearly    = 1
)

// PricePoint is one trading day of a symbol's adjusted close.
type PricePoint struct {
	Date          time.Time
	AdjustedClose float64
}

// PriceSeries is an immutable, date-ascending adjusted-close history for one
// symbol. Dates are strictly increasing and unique.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (ps PriceSeries) Len() int {
	return len(ps.Points)
}

// Validate checks the ordering invariant. The adapter sorts before
// returning, so a failure here means a programming error upstream.
func (ps PriceSeries) Validate() error {
	for i := 1; i < len(ps.Points); i++ {
		if !ps.Points[i-1].Date.Before(ps.Points[i].Date) {
			return fmt.Errorf("price series %s is not strictly increasing at index %d", ps.Symbol, i)
		}
	}
	return nil
}

// ReturnPoint is one daily log return, dated at the later day of the
// consecutive price pair it was derived from.
type ReturnPoint struct {
	Date      time.Time
	LogReturn float64
}

// ReturnSeries is the log-return series derived from a PriceSeries;
// its length is the price series length minus one.
type ReturnSeries struct {
	Symbol string
	Points []ReturnPoint
}

func (rs ReturnSeries) Len() int {
	return len(rs.Points)
}

// Values returns the raw return values in date order.
func (rs ReturnSeries) Values() []float64 {
	res := make([]float64, len(rs.Points))
	for i, p := range rs.Points {
		res[i] = p.LogReturn
	}
	return res
}

// AlignedReturnTable joins the return series of all symbols on the
// intersection of their dates. Every column has a value for every row.
type AlignedReturnTable struct {
	Dates   []time.Time
	Symbols []string
	columns map[string][]float64
}

// NewAlignedReturnTable builds a table from already-aligned columns.
// Column order follows symbols; every column must match the date count.
func NewAlignedReturnTable(dates []time.Time, symbols []string, columns map[string][]float64) (AlignedReturnTable, error) {
	for _, s := range symbols {
		col, ok := columns[s]
		if !ok {
			return AlignedReturnTable{}, fmt.Errorf("aligned table is missing column %s", s)
		}
		if len(col) != len(dates) {
			return AlignedReturnTable{}, fmt.Errorf("aligned table column %s has %d rows, expected %d", s, len(col), len(dates))
		}
	}
	return AlignedReturnTable{Dates: dates, Symbols: symbols, columns: columns}, nil
}

func (t AlignedReturnTable) Rows() int {
	return len(t.Dates)
}

// Column returns the aligned return values for a symbol, indexed by the
// symbol itself rather than a constructed column name.
func (t AlignedReturnTable) Column(symbol string) ([]float64, bool) {
	col, ok := t.columns[symbol]
	return col, ok
}
