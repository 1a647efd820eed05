package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"chinookdemo/internal/config"
	"chinookdemo/internal/logger"
)

// MySQL implements Database for MySQL and MariaDB servers.
type MySQL struct {
	baseDatabase
	closeOnce sync.Once
}

// NewMySQL creates a new MySQL database instance
func NewMySQL(cfg *config.Config, log logger.Logger) *MySQL {
	return &MySQL{
		baseDatabase: baseDatabase{
			cfg: cfg,
			log: log,
		},
	}
}

// Connect opens a database/sql pool using the go-sql-driver DSN builder.
func (m *MySQL) Connect(ctx context.Context) error {
	dsn := m.buildDSN()
	m.dsn = dsn

	m.log.Debug("Connecting to MySQL", "driver", "mysql", "database", m.cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := pingWithRetry(ctx, db, m.cfg.MaxRetries, m.log); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping MySQL server: %w", err)
	}

	m.db = db

	m.log.Info("Connected to MySQL", "driver", "mysql", "database", m.cfg.Database)
	return nil
}

// Close closes the connection pool. Safe to call multiple times.
func (m *MySQL) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.db != nil {
			err = m.db.Close()
		}
	})
	return err
}

// Name returns the engine display name.
func (m *MySQL) Name() string {
	return m.cfg.DisplayDatabaseType()
}

// Version returns the server version string.
func (m *MySQL) Version(ctx context.Context) (string, error) {
	if m.db == nil {
		return "", fmt.Errorf("not connected to database")
	}
	var version string
	if err := m.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// TableExists reports whether a table exists in the current schema.
func (m *MySQL) TableExists(ctx context.Context, table string) (bool, error) {
	if m.db == nil {
		return false, fmt.Errorf("not connected to database")
	}
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = DATABASE() AND table_name = ?`, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return count > 0, nil
}

func (m *MySQL) buildDSN() string {
	cfg := mysql.Config{
		User:   m.cfg.User,
		Passwd: m.cfg.Password,
		Net:    "tcp",
		Addr:   fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port),
		DBName: m.cfg.Database,

		Timeout:      30 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		// Statements in the sample scripts may exceed the 4MB default
		MaxAllowedPacket: 64 << 20,

		Params: map[string]string{
			"charset":   "utf8mb4",
			"parseTime": "true",
			"loc":       "Local",
		},
	}

	if m.cfg.Socket != "" {
		cfg.Net = "unix"
		cfg.Addr = m.cfg.Socket
	}

	if m.cfg.SSLMode != "" {
		switch strings.ToLower(m.cfg.SSLMode) {
		case "disable", "disabled":
			cfg.TLSConfig = "false"
		case "require", "required":
			cfg.TLSConfig = "true"
		default:
			cfg.TLSConfig = "preferred"
		}
	}

	return cfg.FormatDSN()
}
