package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chinookdemo/internal/chinook"
	"chinookdemo/internal/database"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and test connectivity",
	Long: `Display the active configuration, test the connection to the
target store, and show per-table row counts for the Chinook schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context) error {
	displayConfiguration()

	db, err := connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	version, err := db.Version(ctx)
	if err != nil {
		return fmt.Errorf("query server version: %w", err)
	}
	fmt.Printf("Server:          %s\n", version)
	fmt.Println()

	return displayTableCounts(ctx, db)
}

func displayConfiguration() {
	fmt.Println("Configuration:")
	fmt.Printf("  Database Type: %s\n", cfg.DisplayDatabaseType())
	fmt.Printf("  Host:          %s:%d\n", cfg.Host, cfg.Port)
	fmt.Printf("  User:          %s\n", cfg.User)
	fmt.Printf("  Database:      %s\n", cfg.Database)

	if cfg.Password != "" {
		fmt.Printf("  Password:      ****** (set)\n")
	} else {
		fmt.Printf("  Password:      (not set)\n")
	}

	if cfg.IsPostgreSQL() {
		fmt.Printf("  SSL Mode:      %s\n", cfg.SSLMode)
	}
	if cfg.Socket != "" {
		fmt.Printf("  Socket:        %s\n", cfg.Socket)
	}

	if cfg.Zone != "" {
		fmt.Printf("  Zone:          %s (replicas=%d, partitions=%d)\n",
			cfg.Zone, cfg.ZoneReplicas, cfg.ZonePartitions)
	} else {
		fmt.Printf("  Zone:          (disabled)\n")
	}
	fmt.Printf("  Batch Rows:    %d\n", cfg.MaxBatchRows)

	fmt.Println()
	fmt.Println("System Information:")
	fmt.Printf("  OS:            %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go Version:    %s\n", runtime.Version())
	fmt.Printf("  Version:       %s (built: %s, commit: %s)\n",
		cfg.Version, cfg.BuildTime, cfg.GitCommit)
	fmt.Println()
}

// displayTableCounts prints row counts for every schema table. A missing
// table shows as "absent" rather than failing the whole status check.
func displayTableCounts(ctx context.Context, db database.Database) error {
	fmt.Println("Tables:")

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  Table\tRows")

	for _, name := range chinook.TableNames() {
		count, err := countRows(ctx, db, name)
		if err != nil {
			fmt.Fprintf(tw, "  %s\t%s\n", name, "absent")
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\n", name, humanize.Comma(count))
	}

	return tw.Flush()
}

func countRows(ctx context.Context, db database.Database, table string) (int64, error) {
	quoted := database.QuoteIdentifier(cfg.DatabaseType, table)
	rows, err := db.Query(ctx, "SELECT COUNT(*) FROM "+quoted)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}
