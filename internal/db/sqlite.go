package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"searchrelay/internal/models"
	"searchrelay/internal/validation"
	"searchrelay/migrations"
)

// sqliteTimeLayout is fixed width so that lexical order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

// SQLiteStore is a Store backed by a single SQLite database file.
type SQLiteStore struct {
	DB *sql.DB

	now func() time.Time
}

// NewSQLite opens (creating if needed) the SQLite database at path.
func NewSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	database, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows one writer at a time; serializing on one connection
	// turns lock contention into queueing instead of SQLITE_BUSY.
	database.SetMaxOpenConns(1)

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	o := buildOptions(opts)
	return &SQLiteStore{DB: database, now: o.now}, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Migrate runs all embedded SQLite migrations.
func (s *SQLiteStore) Migrate() error {
	sourceDriver, err := iofs.New(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	if err := s.DB.Close(); err != nil {
		slog.Error("failed to close sqlite database", "error", err)
	}
}

// RecordQuery upserts a query's submission count and last-seen time.
func (s *SQLiteStore) RecordQuery(ctx context.Context, query string) error {
	q, err := validation.RequireQuery(query)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO search_history (query, timestamp, count)
		VALUES (?, ?, 1)
		ON CONFLICT (query) DO UPDATE
		SET count = search_history.count + 1, timestamp = excluded.timestamp
	`, q, s.now().UTC().Format(sqliteTimeLayout))
	return storeErr("record query", err)
}

// RankMatches returns queries containing prefix ordered by count then recency.
func (s *SQLiteStore) RankMatches(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT query
		FROM search_history
		WHERE instr(query, ?) > 0
		ORDER BY count DESC, timestamp DESC
		LIMIT ?
	`, prefix, rankLimit(limit))
	if err != nil {
		return nil, storeErr("rank matches", err)
	}
	defer rows.Close()

	queries, err := scanStrings(rows)
	return queries, storeErr("rank matches", err)
}

// AllQueries returns every stored query.
func (s *SQLiteStore) AllQueries(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT query FROM search_history`)
	if err != nil {
		return nil, storeErr("all queries", err)
	}
	defer rows.Close()

	queries, err := scanStrings(rows)
	return queries, storeErr("all queries", err)
}

// GetQuery returns the record for a normalized query.
func (s *SQLiteStore) GetQuery(ctx context.Context, query string) (*models.QueryRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT query, count, timestamp
		FROM search_history
		WHERE query = ?
	`, validation.NormalizeQuery(query))

	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQueryNotFound
		}
		return nil, storeErr("get query", err)
	}
	return r, nil
}

// TopQueries returns the most submitted queries for metrics export.
func (s *SQLiteStore) TopQueries(ctx context.Context, limit int) ([]models.QueryRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT query, count, timestamp
		FROM search_history
		ORDER BY count DESC, timestamp DESC
		LIMIT ?
	`, rankLimit(limit))
	if err != nil {
		return nil, storeErr("top queries", err)
	}
	defer rows.Close()

	var records []models.QueryRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, storeErr("top queries", err)
		}
		records = append(records, *r)
	}
	return records, storeErr("top queries", rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.QueryRecord, error) {
	var (
		r        models.QueryRecord
		lastSeen string
	)
	if err := row.Scan(&r.Query, &r.Count, &lastSeen); err != nil {
		return nil, err
	}

	t, err := time.Parse(sqliteTimeLayout, lastSeen)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", lastSeen, err)
	}
	r.LastSeen = t
	return &r, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
