// Package database owns the SQLite store: connection setup, schema
// migrations and one repository per collection.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"filmpivot/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config configures the database connection.
type Config struct {
	DatabasePath string
	// OpenAttempts bounds retries while the file is locked by another
	// process. Defaults to 5.
	OpenAttempts uint
}

// DB wraps the SQLite connection pool.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at cfg.DatabasePath and
// applies pending migrations.
func NewDB(cfg Config) (*DB, error) {
	path := strings.TrimSpace(cfg.DatabasePath)
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	attempts := cfg.OpenAttempts
	if attempts == 0 {
		attempts = 5
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = retry.Do(
		func() error {
			if err := conn.PingContext(ctx); err != nil {
				return err
			}
			return migrate(ctx, conn)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logging.Component("database").Warn().Err(err).Uint("attempt", n+1).Msg("database busy, retrying")
		}),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

func migrate(ctx context.Context, conn *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, conn, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		logging.Component("database").Info().Str("migration", r.Source.Path).Dur("took", r.Duration).Msg("applied migration")
	}
	return nil
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Connection returns the underlying pool for repositories.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
