// Package database provides connectivity to the external SQL store holding
// the Chinook catalog. Both backends expose the same interface, so the
// import driver and report queries never branch on engine type.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"chinookdemo/internal/config"
	"chinookdemo/internal/logger"
)

// Database is the minimal surface the demo needs from the external store:
// lifecycle, statement execution and ad-hoc queries.
type Database interface {
	// Connect establishes the connection pool and verifies it with a ping.
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Execute runs a single statement that returns no rows. It satisfies
	// the import driver's executor contract.
	Execute(ctx context.Context, statement string) error

	// Query runs a row-returning statement. Callers own the returned rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Name returns the engine display name ("PostgreSQL", "MySQL", ...).
	Name() string

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)
}

// New returns the Database implementation for the configured engine.
func New(cfg *config.Config, log logger.Logger) (Database, error) {
	switch {
	case cfg.IsPostgreSQL():
		return NewPostgreSQL(cfg, log), nil
	case cfg.IsMySQL():
		return NewMySQL(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}
}

// baseDatabase holds state common to both engines.
type baseDatabase struct {
	cfg *config.Config
	log logger.Logger
	db  *sql.DB
	dsn string
}

// Ping verifies the connection is alive.
func (b *baseDatabase) Ping(ctx context.Context) error {
	if b.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return b.db.PingContext(ctx)
}

// Execute runs a statement that returns no rows.
func (b *baseDatabase) Execute(ctx context.Context, statement string) error {
	if b.db == nil {
		return fmt.Errorf("not connected to database")
	}
	_, err := b.db.ExecContext(ctx, statement)
	return err
}

// Query runs a row-returning statement.
func (b *baseDatabase) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if b.db == nil {
		return nil, fmt.Errorf("not connected to database")
	}
	return b.db.QueryContext(ctx, query, args...)
}

// DB exposes the underlying pool for callers that need database/sql directly.
func (b *baseDatabase) DB() *sql.DB {
	return b.db
}

// pingWithRetry retries the initial ping with exponential backoff. Servers
// behind orchestrators often accept TCP connections before they are ready
// to serve queries.
func pingWithRetry(ctx context.Context, db *sql.DB, maxRetries int, log logger.Logger) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second

	retries := uint64(3)
	if maxRetries > 0 {
		retries = uint64(maxRetries)
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			log.Debug("Ping failed, will retry", "attempt", attempt, "error", err)
			return err
		}
		return nil
	}

	return backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx))
}
