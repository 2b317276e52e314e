// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"searchrelay/internal/db"
)

// TestStore creates a migrated SQLite history store in a temp directory.
// The store is closed when the test finishes.
func TestStore(t *testing.T, opts ...db.Option) db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.NewSQLite(ctx, filepath.Join(t.TempDir(), "history.db"), opts...)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(store.Close)

	return store
}

// RecordQueries submits each query to the store in order, once per occurrence.
func RecordQueries(t *testing.T, store db.Store, queries ...string) {
	t.Helper()
	for _, q := range queries {
		if err := store.RecordQuery(context.Background(), q); err != nil {
			t.Fatalf("failed to record %q: %v", q, err)
		}
	}
}

// Clock is a deterministic time source that advances one second per call.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a Clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the next instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// StubProvider is a suggestion provider with canned output.
type StubProvider struct {
	ProviderName string
	Titles       []string
	Err          error
	Delay        time.Duration

	mu    sync.Mutex
	calls []string
}

// Name implements providers.Provider.
func (s *StubProvider) Name() string {
	if s.ProviderName == "" {
		return "stub"
	}
	return s.ProviderName
}

// Suggest implements providers.Provider.
func (s *StubProvider) Suggest(ctx context.Context, query string) ([]string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Titles, nil
}

// Calls returns the queries the provider received.
func (s *StubProvider) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
