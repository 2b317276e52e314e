// Package jobs runs background maintenance loops.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"searchrelay/internal/metrics"
	"searchrelay/internal/validation"
)

// Target is an upstream endpoint to probe.
type Target struct {
	Name string
	URL  string
}

// ProviderChecker periodically probes upstream provider endpoints and
// publishes their reachability as a metric.
type ProviderChecker struct {
	targets   []Target
	interval  time.Duration
	userAgent string
	client    *http.Client
}

// NewProviderChecker creates a new provider checker.
func NewProviderChecker(targets []Target, interval time.Duration, userAgent string) *ProviderChecker {
	return &ProviderChecker{
		targets:   targets,
		interval:  interval,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start runs the check loop until ctx is cancelled.
func (p *ProviderChecker) Start(ctx context.Context) {
	slog.Info("provider checker started", "interval", p.interval, "targets", len(p.targets))

	// Run immediately on start
	p.CheckAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("provider checker stopped")
			return
		case <-ticker.C:
			p.CheckAll(ctx)
		}
	}
}

// CheckAll probes every target once and returns the reachability per name.
func (p *ProviderChecker) CheckAll(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(p.targets))
	for _, t := range p.targets {
		select {
		case <-ctx.Done():
			return status
		default:
		}

		up, reason := p.checkURL(ctx, t.URL)
		status[t.Name] = up
		metrics.SetProviderUp(t.Name, up)
		if !up {
			slog.Warn("provider unreachable", "provider", t.Name, "url", t.URL, "reason", reason)
		}
	}
	return status
}

// checkURL sends a HEAD request. Any HTTP response means the host is reachable.
func (p *ProviderChecker) checkURL(ctx context.Context, url string) (bool, string) {
	if valid, msg := validation.ValidateURL(url); !valid {
		return false, msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, "invalid URL: " + err.Error()
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, "connection failed: " + err.Error()
	}
	defer resp.Body.Close()

	return true, ""
}
