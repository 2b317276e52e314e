// Package providers fetches autocomplete suggestions from external web APIs.
//
// Every provider is best-effort: Suggest reports failures as *ProviderError
// and Collect turns any failure into an empty contribution.
package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"searchrelay/internal/metrics"
)

// DefaultLimit is how many titles a provider contributes.
const DefaultLimit = 5

// ErrUnexpectedStatus marks a non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrMalformedResponse marks a response body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// Provider returns suggested titles for a query.
type Provider interface {
	Name() string
	Suggest(ctx context.Context, query string) ([]string, error)
}

// ProviderError reports a transport, timeout, status or decoding failure
// from an external dependency.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v (status %d)", e.Provider, e.Op, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Collect calls p and collapses any failure, including a panic, to an empty
// result. The outcome is logged and counted.
func Collect(ctx context.Context, p Provider, query string) (titles []string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("suggestion provider panicked", "provider", p.Name(), "query", query, "panic", r)
			metrics.RecordProviderOutcome(p.Name(), metrics.OutcomeError)
			titles = []string{}
		}
	}()

	titles, err := p.Suggest(ctx, query)
	if err != nil {
		slog.Warn("suggestion provider failed", "provider", p.Name(), "query", query, "error", err)
		metrics.RecordProviderOutcome(p.Name(), metrics.OutcomeError)
		return []string{}
	}

	if len(titles) == 0 {
		metrics.RecordProviderOutcome(p.Name(), metrics.OutcomeEmpty)
		return []string{}
	}

	metrics.RecordProviderOutcome(p.Name(), metrics.OutcomeOK)
	return titles
}

func capTitles(titles []string, limit int) []string {
	if limit > 0 && len(titles) > limit {
		return titles[:limit]
	}
	return titles
}

var errTooShort = errors.New("response array too short")
