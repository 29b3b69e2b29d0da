package models

import "errors"

var (
	// ErrDataUnavailable means the provider failed or returned an empty
	// series for a required symbol. The whole report depends on every
	// symbol, so callers abort the run.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInsufficientData means a series has too few observations to
	// derive returns or statistics from.
	ErrInsufficientData = errors.New("insufficient observations")
)
