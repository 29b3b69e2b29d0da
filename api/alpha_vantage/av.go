package alpha_vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	c "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/api"
	ex "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/extensions"
	m "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/models"
)

// public
const (
	HostDefault = "www.alphavantage.co"
)

// private
const (
	// default query parameters
	defaultDataType   = "json"
	defaultOutputSize = "full" // compact caps at 100 rows, a year needs the full history

	defaultTimeout = time.Second * 30
	defaultRetries = 1
	defaultPause   = time.Second * 2

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"

	dailyAdjustedFunction = "TIME_SERIES_DAILY_ADJUSTED"
	dailyAdjustedKey      = "Time Series (Daily)"
)

var timeSeriesDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string) AlphaVantageClient {
	client := c.ClientFactory(HostDefault, apiKey, defaultTimeout)
	client.Connection = c.WithRetry(client.Connection, defaultRetries, defaultPause)
	return AlphaVantageClient{client}
}

// DailyAdjusted queries the daily adjusted time series for one ticker and
// returns a date-ascending price series restricted to [from, to]. Rows
// without an adjusted close are dropped. An empty window is
// ErrDataUnavailable: the report cannot proceed with a missing symbol.
func (avc AlphaVantageClient) DailyAdjusted(ctx context.Context, ticker string, from, to time.Time) (m.PriceSeries, error) {
	endpoint := avc.buildRequestPath(map[string]string{
		function: dailyAdjustedFunction,
		symbol:   ticker,
	})

	response, err := avc.Client.Connection.Request(ctx, endpoint)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("%w: fetching %s: %v", m.ErrDataUnavailable, ticker, err)
	}
	defer response.Body.Close()

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("error parsing response for %s: %w", ticker, err)
	}

	if msg := providerError(raw); msg != "" {
		return m.PriceSeries{}, fmt.Errorf("%w: provider rejected %s: %s", m.ErrDataUnavailable, ticker, msg)
	}

	_, timeZone, err := parseMetaData(raw)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("error parsing meta data for %s: %w", ticker, err)
	}

	points, err := parseDailyAdjustedSeries(raw, timeZone)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("error parsing time series for %s: %w", ticker, err)
	}

	points = ex.FilterMultiple(points, func(p m.PricePoint) bool {
		return !p.Date.Before(from) && !p.Date.After(to)
	})

	slices.SortFunc(points, func(a, b m.PricePoint) int {
		return a.Date.Compare(b.Date)
	})

	if len(points) == 0 {
		return m.PriceSeries{}, fmt.Errorf("%w: %s has no observations between %s and %s",
			m.ErrDataUnavailable, ticker, ex.FmtShort(from), ex.FmtShort(to))
	}

	series := m.PriceSeries{Symbol: ticker, Points: points}
	if err := series.Validate(); err != nil {
		return m.PriceSeries{}, err
	}
	return series, nil
}

func (avc AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)
	query.Set("outputsize", defaultOutputSize)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return
}

// providerError surfaces the in-band failure payloads alpha vantage returns
// with a 200 status (unknown symbol, throttling).
func providerError(raw map[string]json.RawMessage) string {
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if payload, ok := raw[key]; ok {
			var msg string
			if err := json.Unmarshal(payload, &msg); err == nil {
				return msg
			}
		}
	}
	return ""
}

type timeSeriesMetaData struct {
	Symbol        string
	LastRefreshed time.Time
}

func parseMetaData(raw map[string]json.RawMessage) (*timeSeriesMetaData, *time.Location, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &metadataElements); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))

	// parse symbol
	sf := func(s string) bool { return strings.HasSuffix(s, ". Symbol") }
	symbolKey, err := ex.FilterSingle(metaDataKeys, sf)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting symbol for meta data")
	}

	// parse time zone
	tzf := func(s string) bool { return strings.HasSuffix(s, ". Time Zone") }
	timeZoneKey, err := ex.FilterSingle(metaDataKeys, tzf)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(metadataElements[timeZoneKey])
	if err != nil {
		return nil, nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", metadataElements[timeZoneKey], err)
	}

	// parse last refreshed
	lrf := func(s string) bool { return strings.HasSuffix(s, ". Last Refreshed") }
	lastRefreshedKey, err := ex.FilterSingle(metaDataKeys, lrf)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(metadataElements[lastRefreshedKey], timeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := timeSeriesMetaData{
		Symbol:        metadataElements[symbolKey],
		LastRefreshed: lastRefreshed,
	}

	return &res, timeZone, nil
}

func parseDailyAdjustedSeries(raw map[string]json.RawMessage, location *time.Location) ([]m.PricePoint, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[dailyAdjustedKey], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series: %w", err)
	}

	// the adjusted close key is numbered ("5. adjusted close"), resolve it
	// by suffix from the first row
	var firstValue map[string]string
	for _, v := range timeSeriesElements {
		firstValue = v
		break
	}

	acf := func(s string) bool { return strings.HasSuffix(strings.ToLower(s), ". adjusted close") }
	adjustedCloseKey, err := ex.FilterSingle(slices.Collect(maps.Keys(firstValue)), acf)
	if err != nil {
		return nil, fmt.Errorf("error extracting adjusted close key for time series")
	}

	points := make([]m.PricePoint, 0, len(timeSeriesElements))
	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		timestamp, err := parseDate(timeSeriesKey, location)
		if err != nil {
			return nil, fmt.Errorf("error converting timestamp from string to time.Time: %w", err)
		}

		adjustedClose := parseFloat(timeSeriesValue[adjustedCloseKey])
		if !adjustedClose.Valid {
			// rows without an adjusted close are dropped before any
			// further processing
			continue
		}

		points = append(points, m.PricePoint{
			Date:          timestamp,
			AdjustedClose: adjustedClose.Float64,
		})
	}

	return points, nil
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	default:
		log.Printf("default time zone hit, %s is not recognized", location)
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func parseFloat(val string) null.Float {
	if val != "" {
		if conv, err := strconv.ParseFloat(val, 64); err == nil {
			return null.NewFloat(conv, true)
		}
	}
	return null.NewFloat(0, false)
}
