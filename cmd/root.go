// Package cmd wires the CLI surface: setup, load, report, status, drop
// and version commands over a shared configuration.
package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"chinookdemo/internal/config"
	"chinookdemo/internal/database"
	"chinookdemo/internal/logger"
)

var (
	cfg *config.Config
	log logger.Logger

	// db-type is staged in a flag variable so PersistentPreRunE can run it
	// through SetDatabaseType, which adjusts dependent defaults.
	dbTypeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "chinookdemo",
	Short: "Chinook music-store demo for external SQL stores",
	Long: `chinookdemo loads the Chinook music-store dataset into an external
SQL store and runs analytic reports over it.

The loader imports plain SQL scripts: statements are split with a
quote- and comment-aware tokenizer, classified, executed schema-first,
and oversized INSERTs are broken into bounded batches.

Examples:
  # Create the schema and load the embedded sample data
  chinookdemo setup
  chinookdemo load sample

  # Import an external script (gzip/zstd transparently decompressed)
  chinookdemo load script chinook_full.sql.gz

  # Run the report battery
  chinookdemo report`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetDatabaseType(dbTypeFlag); err != nil {
			return err
		}
		cfg.UpdateFromEnvironment()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.NoColor {
			color.NoColor = true
		}
		return nil
	},
}

// Execute runs the CLI with the given configuration and logger.
func Execute(ctx context.Context, c *config.Config, l logger.Logger) error {
	cfg = c
	log = l
	bindRootFlags()
	return rootCmd.ExecuteContext(ctx)
}

func bindRootFlags() {
	f := rootCmd.PersistentFlags()

	dbTypeFlag = cfg.DatabaseType
	f.StringVar(&dbTypeFlag, "db-type", dbTypeFlag, "Database type (postgres, mysql, mariadb)")
	f.StringVar(&cfg.Host, "host", cfg.Host, "Database server host")
	f.IntVar(&cfg.Port, "port", cfg.Port, "Database server port")
	f.StringVar(&cfg.User, "user", cfg.User, "Database user")
	f.StringVar(&cfg.Password, "password", cfg.Password, "Database password (prefer PGPASSWORD/MYSQL_PWD)")
	f.StringVar(&cfg.Database, "database", cfg.Database, "Database name")
	f.StringVar(&cfg.Socket, "socket", cfg.Socket, "Unix socket path (MySQL/MariaDB)")
	f.StringVar(&cfg.SSLMode, "ssl-mode", cfg.SSLMode, "SSL mode (disable, prefer, require, verify-ca, verify-full)")
	f.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "Connection ping retry attempts")

	f.StringVar(&cfg.Zone, "zone", cfg.Zone, "Distribution zone name (empty disables zone DDL)")
	f.IntVar(&cfg.ZoneReplicas, "zone-replicas", cfg.ZoneReplicas, "Distribution zone replica count")
	f.IntVar(&cfg.ZonePartitions, "zone-partitions", cfg.ZonePartitions, "Distribution zone partition count")

	f.IntVar(&cfg.MaxBatchRows, "batch-rows", cfg.MaxBatchRows, "Maximum value rows per INSERT batch")
	f.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Show what would execute without running anything")

	f.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
}

// connectDatabase builds the configured client and connects it. Callers own
// the returned handle and must Close it.
func connectDatabase(ctx context.Context) (database.Database, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DisplayDatabaseType(), err)
	}
	return db, nil
}
