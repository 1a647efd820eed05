package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chinookdemo/internal/chinook"
	"chinookdemo/internal/sqlscript"
)

var setupDropFirst bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the Chinook schema (zone, tables, indexes)",
	Long: `Create the distribution zone, the ten Chinook tables and their
secondary indexes on the target store.

Creation is idempotent: zone and index creates that fail (typically
"already exists", or a server without zone support) are reported as
warnings and setup continues.

Examples:
  chinookdemo setup
  chinookdemo setup --drop-first
  chinookdemo setup --zone "" --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().BoolVar(&setupDropFirst, "drop-first", false, "Drop existing tables and zone before creating")
}

func runSetup(ctx context.Context) error {
	db, err := connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	im := sqlscript.NewImporter(db, log, sqlscript.ImportOptions{
		MaxBatchRows: cfg.MaxBatchRows,
		DryRun:       cfg.DryRun,
	})

	if setupDropFirst {
		log.Info("Dropping existing schema first")
		im.Run(ctx, chinook.DropStatements(cfg))
	}

	statements := chinook.SchemaStatements(cfg)
	log.Info("Creating Chinook schema",
		"statements", len(statements), "database", cfg.Database)

	result := im.Run(ctx, statements)

	if result.Warnings != nil {
		log.Warn("Schema setup finished with warnings", "error", result.Warnings)
	}
	if result.Succeeded() == 0 && !cfg.DryRun {
		return fmt.Errorf("schema setup failed: no statements succeeded")
	}

	log.Info("Schema ready",
		"attempted", result.Attempted(), "succeeded", result.Succeeded())
	return nil
}
