package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chinookdemo/internal/chinook"
	"chinookdemo/internal/sqlscript"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the Chinook schema (tables and zone)",
	Long: `Drop all Chinook tables in reverse dependency order, then the
distribution zone. Objects that do not exist are reported as warnings.

Asks for confirmation unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDrop(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
	dropCmd.Flags().BoolVar(&dropForce, "force", false, "Skip the confirmation prompt")
}

func runDrop(ctx context.Context) error {
	if !dropForce && !cfg.DryRun {
		fmt.Printf("Drop all Chinook tables from %q on %s:%d? [y/N] ",
			cfg.Database, cfg.Host, cfg.Port)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	db, err := connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	im := sqlscript.NewImporter(db, log, sqlscript.ImportOptions{
		DryRun: cfg.DryRun,
	})

	result := im.Run(ctx, chinook.DropStatements(cfg))

	if result.Warnings != nil {
		log.Warn("Some objects could not be dropped", "error", result.Warnings)
	}
	log.Info("Teardown complete",
		"attempted", result.Attempted(), "succeeded", result.Succeeded())
	return nil
}
