package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"searchrelay/internal/models"
	"searchrelay/internal/validation"
	"searchrelay/migrations"
)

// PostgresStore is a Store backed by a pgxpool connection pool.
type PostgresStore struct {
	Pool *pgxpool.Pool

	connString string
	now        func() time.Time
}

// NewPostgres creates a new database connection pool.
func NewPostgres(ctx context.Context, connString string, opts ...Option) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	o := buildOptions(opts)
	return &PostgresStore{Pool: pool, connString: connString, now: o.now}, nil
}

// Migrate runs all embedded Postgres migrations.
func (s *PostgresStore) Migrate() error {
	sourceDriver, err := iofs.New(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, s.connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.Pool.Close()
}

// RecordQuery upserts a query's submission count and last-seen time.
func (s *PostgresStore) RecordQuery(ctx context.Context, query string) error {
	q, err := validation.RequireQuery(query)
	if err != nil {
		return err
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO search_history (query, timestamp, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (query) DO UPDATE
		SET count = search_history.count + 1, timestamp = EXCLUDED.timestamp
	`, q, s.now().UTC())
	return storeErr("record query", err)
}

// RankMatches returns queries containing prefix ordered by count then recency.
func (s *PostgresStore) RankMatches(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT query
		FROM search_history
		WHERE strpos(query, $1) > 0
		ORDER BY count DESC, timestamp DESC
		LIMIT $2
	`, prefix, rankLimit(limit))
	if err != nil {
		return nil, storeErr("rank matches", err)
	}

	queries, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr("rank matches", err)
	}
	return queries, nil
}

// AllQueries returns every stored query.
func (s *PostgresStore) AllQueries(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT query FROM search_history`)
	if err != nil {
		return nil, storeErr("all queries", err)
	}

	queries, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr("all queries", err)
	}
	return queries, nil
}

// GetQuery returns the record for a normalized query.
func (s *PostgresStore) GetQuery(ctx context.Context, query string) (*models.QueryRecord, error) {
	var r models.QueryRecord
	err := s.Pool.QueryRow(ctx, `
		SELECT query, count, timestamp
		FROM search_history
		WHERE query = $1
	`, validation.NormalizeQuery(query)).Scan(&r.Query, &r.Count, &r.LastSeen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQueryNotFound
		}
		return nil, storeErr("get query", err)
	}
	r.LastSeen = r.LastSeen.UTC()
	return &r, nil
}

// TopQueries returns the most submitted queries for metrics export.
func (s *PostgresStore) TopQueries(ctx context.Context, limit int) ([]models.QueryRecord, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT query, count, timestamp
		FROM search_history
		ORDER BY count DESC, timestamp DESC
		LIMIT $1
	`, rankLimit(limit))
	if err != nil {
		return nil, storeErr("top queries", err)
	}
	defer rows.Close()

	var records []models.QueryRecord
	for rows.Next() {
		var r models.QueryRecord
		if err := rows.Scan(&r.Query, &r.Count, &r.LastSeen); err != nil {
			return nil, storeErr("top queries", err)
		}
		r.LastSeen = r.LastSeen.UTC()
		records = append(records, r)
	}
	return records, storeErr("top queries", rows.Err())
}
