// Package iocache caches raw provider payloads between runs.
package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// CacheStoreImpl handles durable payload storage using various database
// backends.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// NewCacheStore initializes and returns a new CacheStore for the
// configured backend. The NoneBackend yields a store that never hits.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if !tableNamePattern.MatchString(tableName) {
		return nil, fmt.Errorf("invalid cache table name %q", tableName)
	}

	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetCacheDBFilePath()
		}
		if mkErr := os.MkdirAll(filepath.Dir(dbPath), 0o755); mkErr != nil {
			return nil, fmt.Errorf("failed to prepare cache directory: %w", mkErr)
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be: user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL cache: %w", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be: host=... port=... user=... dbname=...
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL cache: %w", err)
		}

	case schema.NoneBackend:
		return &CacheStoreImpl{tableName: tableName, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	if _, err := db.Exec(createTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return &CacheStoreImpl{db: db, tableName: tableName, backend: backend}, nil
}

// createTableQuery returns the CREATE TABLE statement for the backend.
func createTableQuery(tableName string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, tableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, tableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, tableName)
	}
}

// placeholder returns the parameter placeholder style for the backend.
func (ps *CacheStoreImpl) placeholder(n int) string {
	if ps.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Get retrieves a payload by key. The second return reports a hit.
func (ps *CacheStoreImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if ps.db == nil {
		return nil, false, nil
	}
	query := fmt.Sprintf(`SELECT cache_value FROM %s WHERE cache_key = %s`, ps.tableName, ps.placeholder(1))
	var value []byte
	if err := ps.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set inserts or replaces a payload.
func (ps *CacheStoreImpl) Set(ctx context.Context, key string, payload []byte) error {
	if ps.db == nil {
		return nil
	}
	var query string
	switch ps.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_timestamp) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_timestamp = new.cache_timestamp`, ps.tableName)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_timestamp) VALUES ($1, $2, $3)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_timestamp = EXCLUDED.cache_timestamp`, ps.tableName)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_timestamp) VALUES (?, ?, ?)`, ps.tableName)
	}
	_, err := ps.db.ExecContext(ctx, query, key, payload, time.Now().Unix())
	return err
}

// Delete removes a single payload.
func (ps *CacheStoreImpl) Delete(ctx context.Context, key string) error {
	if ps.db == nil {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE cache_key = %s`, ps.tableName, ps.placeholder(1))
	_, err := ps.db.ExecContext(ctx, query, key)
	return err
}

// Clear removes every payload.
func (ps *CacheStoreImpl) Clear(ctx context.Context) error {
	if ps.db == nil {
		return nil
	}
	_, err := ps.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, ps.tableName))
	return err
}

// Count returns the number of cached payloads.
func (ps *CacheStoreImpl) Count(ctx context.Context) (int64, error) {
	if ps.db == nil {
		return 0, nil
	}
	var n int64
	err := ps.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, ps.tableName)).Scan(&n)
	return n, err
}

// Close closes the underlying DB connection.
func (ps *CacheStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
