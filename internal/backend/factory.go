// Package backend selects and constructs the kv blob store the ledger
// persists through.
package backend

import (
	"fmt"
	"log/slog"

	"tally/internal/config"
	"tally/internal/kv"
	"tally/internal/kv/memory"
	"tally/internal/kv/postgres"
	"tally/internal/kv/redis"
	"tally/internal/kv/sqlite"
)

// Type represents the configured backend kind.
type Type string

const (
	Memory   Type = "memory"
	SQLite   Type = "sqlite"
	Redis    Type = "redis"
	Postgres Type = "postgres"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Redis, Postgres:
		return true
	default:
		return false
	}
}

// Factory builds kv stores from application configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore constructs the kv.Store named by cfg.DataBackend.
func (f *Factory) CreateStore(cfg *config.Config) (kv.Store, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", t)
	}

	switch t {
	case SQLite:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil

	case Redis:
		store, err := redis.New(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initialize redis backend: %w", err)
		}
		f.logger.Info("Initialized Redis backend", "url", cfg.RedisURL)
		return store, nil

	case Postgres:
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return store, nil

	default:
		f.logger.Info("Initialized memory backend")
		return memory.New(), nil
	}
}
