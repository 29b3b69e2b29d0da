package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Connection interface {
	Request(ctx context.Context, endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client *http.Client
	host   string
}

type Client struct {
	Connection Connection
	ApiKey     string
}

func (conn *ClientHost) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	endpoint.Scheme = "https"
	endpoint.Host = conn.host
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn.client.Do(req)
}

func ClientFactory(host string, apiKey string, timeout time.Duration) *Client {
	client := &http.Client{
		Timeout: timeout,
	}

	clientHost := &ClientHost{
		client: client,
		host:   host,
	}

	return &Client{
		Connection: clientHost,
		ApiKey:     apiKey,
	}
}

// retryingConnection decorates a Connection with a bounded retry. Market
// data providers fail transiently; one run depends on every symbol, so a
// request gets retried on transport errors and 5xx before the run aborts.
type retryingConnection struct {
	base    Connection
	retries int
	pause   time.Duration
}

// WithRetry wraps a Connection so each request is attempted up to
// 1+retries times with a fixed pause between attempts.
func WithRetry(base Connection, retries int, pause time.Duration) Connection {
	return &retryingConnection{
		base:    base,
		retries: retries,
		pause:   pause,
	}
}

func (rc *retryingConnection) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= rc.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(rc.pause):
			}
		}

		resp, err := rc.base.Request(ctx, endpoint)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("provider returned %s", resp.Status)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", rc.retries+1, lastErr)
}
