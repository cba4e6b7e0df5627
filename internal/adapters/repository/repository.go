// Package repository opens the ports.QuoteStore implementation selected by
// configuration.
//
//   - sqlite: embedded database, the default for local and single-node deployments
//   - postgres: shared database for multi-replica deployments
//   - memory: process-local store for tests and throwaway runs
//
// Every implementation enforces (text, author) uniqueness at insert time and
// increments likes atomically.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/quote-service/internal/adapters/repository/postgres"
	"github.com/jsamuelsen/quote-service/internal/adapters/repository/sqlite"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config selects and configures a store.
type Config struct {
	Driver       string
	SQLitePath   string
	PostgresDSN  string
	MaxOpenConns int
	MaxIdleConns int
}

// Store is a quote store that also reports its health and owns resources.
type Store interface {
	ports.QuoteStore
	ports.HealthChecker
	Close() error
}

// Open creates the store for cfg.Driver and ensures its schema exists.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case DriverSQLite, "":
		store, err := sqlite.Open(ctx, sqlite.Config{
			Path:         cfg.SQLitePath,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}

		logger.Info("quote store opened", slog.String("driver", DriverSQLite), slog.String("path", cfg.SQLitePath))

		return store, nil

	case DriverPostgres:
		store, err := postgres.Open(ctx, postgres.Config{
			DSN:      cfg.PostgresDSN,
			MaxConns: int32(cfg.MaxOpenConns), //nolint:gosec // bounded by config validation
			MinConns: int32(cfg.MaxIdleConns), //nolint:gosec // bounded by config validation
		})
		if err != nil {
			return nil, err
		}

		logger.Info("quote store opened", slog.String("driver", DriverPostgres))

		return store, nil

	case DriverMemory:
		logger.Warn("using in-memory quote store, data is lost on restart")

		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
