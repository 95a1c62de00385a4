// Package storage provides durable key/value backends for board snapshots.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// KV stores opaque values under string keys.
type KV interface {
	// Get returns the value at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes value at key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir is the base directory for the file backend.
	Dir string
	// DSN is the data source name for SQL backends.
	DSN string
}

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemoryKV(), nil
	case BackendFile:
		return NewFileKV(cfg.Dir)
	case BackendSQLite:
		return OpenSQL(ctx, DriverSQLite, cfg.DSN)
	case BackendPostgres:
		return OpenSQL(ctx, DriverPostgres, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
