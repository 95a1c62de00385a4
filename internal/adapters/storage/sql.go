package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/okian/arena/internal/adapters/storage/migrations"
)

// Driver names a supported SQL backend.
type Driver string

// Supported SQL drivers.
const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// SQLKV stores values in the kv_entries table. Queries use $n placeholders,
// which both pgx and sqlite accept.
type SQLKV struct {
	db *sql.DB
}

// OpenSQL opens the database, checks connectivity and applies migrations.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*SQLKV, error) {
	var drvName, dialect string
	switch driver {
	case DriverSQLite:
		drvName, dialect = "sqlite", "sqlite3"
		if dsn == "" {
			dsn = "file:arena.db?_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName, dialect = "pgx", "postgres"
		if dsn == "" {
			dsn = "postgres://localhost:5432/arena?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer keeps sqlite from reporting SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s: %w", driver, err)
	}
	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLKV{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_entries WHERE name = $1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *SQLKV) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv_entries (name, payload, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE name = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Close() error {
	return s.db.Close()
}
