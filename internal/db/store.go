package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"searchrelay/internal/models"
)

// DefaultRankLimit caps RankMatches when the caller passes a non-positive limit.
const DefaultRankLimit = 10

// Store persists search history. One row exists per distinct normalized
// query; it doubles as the frequency/recency index for local suggestions.
type Store interface {
	// RecordQuery normalizes query and upserts its record, incrementing the
	// count of an existing row or inserting a new one with count 1.
	RecordQuery(ctx context.Context, query string) error
	// RankMatches returns stored queries containing prefix, most submitted
	// first, ties broken by most recent.
	RankMatches(ctx context.Context, prefix string, limit int) ([]string, error)
	// AllQueries returns every stored query in no particular order.
	AllQueries(ctx context.Context) ([]string, error)
	GetQuery(ctx context.Context, query string) (*models.QueryRecord, error)
	TopQueries(ctx context.Context, limit int) ([]models.QueryRecord, error)
	Migrate() error
	Ping(ctx context.Context) error
	Close()
}

type options struct {
	now func() time.Time
}

// Option configures a Store.
type Option func(*options)

// WithClock overrides the time source used for last-seen timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open connects to the history store named by databaseURL. postgres:// and
// postgresql:// URLs use Postgres; sqlite:// and file: URLs use SQLite.
func Open(ctx context.Context, databaseURL string, opts ...Option) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgres(ctx, databaseURL, opts...)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"), opts...)
	case strings.HasPrefix(databaseURL, "file:"):
		return NewSQLite(ctx, databaseURL, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, databaseURL)
	}
}

func rankLimit(limit int) int {
	if limit <= 0 {
		return DefaultRankLimit
	}
	return limit
}
