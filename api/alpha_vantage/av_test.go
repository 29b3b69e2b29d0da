package alpha_vantage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	c "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/api"
	ex "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/extensions"
	m "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/models"
)

const dailyAdjustedBody = `{
  "Meta Data": {
    "1. Information": "Daily Time Series with Splits and Dividend Events",
    "2. Symbol": "TM",
    "3. Last Refreshed": "2024-01-05",
    "4. Output Size": "Full size",
    "5. Time Zone": "US/Eastern"
  },
  "Time Series (Daily)": {
    "2024-01-05": {
      "1. open": "183.00",
      "2. high": "185.00",
      "3. low": "182.50",
      "4. close": "184.20",
      "5. adjusted close": "184.10",
      "6. volume": "250000",
      "7. dividend amount": "0.0000",
      "8. split coefficient": "1.0"
    },
    "2024-01-04": {
      "1. open": "181.00",
      "2. high": "183.40",
      "3. low": "180.90",
      "4. close": "183.10",
      "5. adjusted close": "183.00",
      "6. volume": "210000",
      "7. dividend amount": "0.0000",
      "8. split coefficient": "1.0"
    },
    "2024-01-03": {
      "1. open": "182.00",
      "2. high": "182.90",
      "3. low": "180.10",
      "4. close": "180.80",
      "5. adjusted close": "",
      "6. volume": "190000",
      "7. dividend amount": "0.0000",
      "8. split coefficient": "1.0"
    },
    "2024-01-02": {
      "1. open": "180.00",
      "2. high": "181.70",
      "3. low": "179.60",
      "4. close": "181.00",
      "5. adjusted close": "180.90",
      "6. volume": "230000",
      "7. dividend amount": "0.0000",
      "8. split coefficient": "1.0"
    },
    "2023-12-29": {
      "1. open": "178.00",
      "2. high": "180.20",
      "3. low": "177.80",
      "4. close": "179.50",
      "5. adjusted close": "179.40",
      "6. volume": "200000",
      "7. dividend amount": "0.0000",
      "8. split coefficient": "1.0"
    }
  }
}`

// cannedConnection serves a fixed body and remembers the requested URL
type cannedConnection struct {
	body      string
	requested *url.URL
}

func (cc *cannedConnection) Request(_ context.Context, endpoint *url.URL) (*http.Response, error) {
	cc.requested = endpoint
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(strings.NewReader(cc.body)),
	}, nil
}

func cannedClient(body string) (AlphaVantageClient, *cannedConnection) {
	conn := &cannedConnection{body: body}
	return AlphaVantageClient{&c.Client{Connection: conn, ApiKey: "test-api-key"}}, conn
}

func Test_AlphaVantage_DailyAdjusted(t *testing.T) {
	client, conn := cannedClient(dailyAdjustedBody)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)

	series, err := client.DailyAdjusted(context.Background(), "TM", from, to)
	if err != nil {
		t.Fatalf("error getting daily adjusted series: %v", err)
	}

	query := conn.requested.Query()
	ex.AssertAreEqual(t, "function", dailyAdjustedFunction, query.Get("function"))
	ex.AssertAreEqual(t, "symbol", "TM", query.Get("symbol"))
	ex.AssertAreEqual(t, "outputsize", defaultOutputSize, query.Get("outputsize"))
	ex.AssertAreEqual(t, "apikey", "test-api-key", query.Get("apikey"))

	// 2023-12-29 is outside the window, 2024-01-03 has no adjusted close
	ex.AssertAreEqual(t, "observations", 3, series.Len())
	ex.AssertAreEqual(t, "symbol", "TM", series.Symbol)

	// ascending dates with the expected adjusted closes
	ex.AssertAreEqual(t, "first date", "2024-01-02", ex.FmtShort(series.Points[0].Date))
	ex.AssertAreEqual(t, "first close", 180.90, series.Points[0].AdjustedClose)
	ex.AssertAreEqual(t, "last date", "2024-01-05", ex.FmtShort(series.Points[2].Date))
	ex.AssertAreEqual(t, "last close", 184.10, series.Points[2].AdjustedClose)

	if err := series.Validate(); err != nil {
		t.Fatalf("series failed validation: %v", err)
	}
}

func Test_AlphaVantage_DailyAdjustedEmptyWindow(t *testing.T) {
	client, _ := cannedClient(dailyAdjustedBody)

	from := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC)

	_, err := client.DailyAdjusted(context.Background(), "TM", from, to)
	if !errors.Is(err, m.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for an empty window, got %v", err)
	}
}

func Test_AlphaVantage_ProviderError(t *testing.T) {
	client, _ := cannedClient(`{"Error Message": "Invalid API call. Please retry or visit the documentation."}`)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	_, err := client.DailyAdjusted(context.Background(), "NOPE", from, to)
	if !errors.Is(err, m.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for a provider rejection, got %v", err)
	}
}

func Test_AlphaVantage_ThrottleNote(t *testing.T) {
	client, _ := cannedClient(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	_, err := client.DailyAdjusted(context.Background(), "TM", from, to)
	if !errors.Is(err, m.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for a throttled response, got %v", err)
	}
}
