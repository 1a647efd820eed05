package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"chinookdemo/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the analytic report battery",
	Long: `Run the fixed battery of analytic queries over the loaded
catalog and print each result as a console table:

  - Top-selling artists
  - Sales by country
  - Top customers by spend
  - Tracks per genre
  - Playlist sizes

A failing report is logged and the battery continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(ctx context.Context) error {
	db, err := connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := report.NewRunner(db, log, os.Stdout)
	return runner.RunAll(ctx)
}
