package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full demo: setup, load sample data, report",
	Long: `Run the complete demonstration end to end: create the schema,
load the embedded sample dataset, then run the report battery.

Equivalent to:
  chinookdemo setup
  chinookdemo load sample
  chinookdemo report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(ctx context.Context) error {
	if err := runSetup(ctx); err != nil {
		return err
	}
	if err := runLoadSample(ctx); err != nil {
		return err
	}
	if cfg.DryRun {
		log.Info("Dry run: skipping reports")
		return nil
	}
	return runReport(ctx)
}
