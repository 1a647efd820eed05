package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"chinookdemo/internal/chinook"
	"chinookdemo/internal/sqlscript"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load data into the Chinook schema",
}

var loadSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Load the embedded sample dataset",
	Long: `Load the embedded Chinook sample dataset through the script
importer. Requires the schema to exist (run setup first).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadSample(cmd.Context())
	},
}

var loadScriptCmd = &cobra.Command{
	Use:   "script <file.sql[.gz|.zst]>",
	Short: "Import an external SQL script",
	Long: `Import a SQL script file. Gzip (.gz) and zstandard (.zst)
compressed scripts are decompressed on the fly.

Statements are executed schema-first regardless of their order in the
script, and INSERTs larger than --batch-rows are split into batches.

Examples:
  chinookdemo load script chinook_full.sql
  chinookdemo load script chinook_full.sql.zst --batch-rows 500
  chinookdemo load script chinook_full.sql.gz --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadScript(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.AddCommand(loadSampleCmd)
	loadCmd.AddCommand(loadScriptCmd)
}

func runLoadSample(ctx context.Context) error {
	r, err := chinook.SampleDataset()
	if err != nil {
		return fmt.Errorf("open embedded dataset: %w", err)
	}
	return importReader(ctx, r, "embedded sample")
}

func runLoadScript(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, closer, err := decompressReader(f, path)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	return importReader(ctx, r, filepath.Base(path))
}

// decompressReader wraps the file reader based on its extension. The
// returned closer releases the decompressor, not the underlying file.
func decompressReader(f io.Reader, path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), zr.Close, nil
	default:
		return f, nil, nil
	}
}

func importReader(ctx context.Context, r io.Reader, source string) error {
	db, err := connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Tokenize up front so the progress bar knows the statement count.
	statements, err := sqlscript.SplitStatements(r, sqlscript.DefaultOptions())
	if err != nil {
		return fmt.Errorf("tokenize %s: %w", source, err)
	}
	if len(statements) == 0 {
		log.Warn("Script contains no executable statements")
		return nil
	}

	log.Info("Importing script", "statements", len(statements), "database", cfg.Database)

	bar := progressbar.NewOptions(len(statements),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)

	im := sqlscript.NewImporter(db, log, sqlscript.ImportOptions{
		MaxBatchRows: cfg.MaxBatchRows,
		DryRun:       cfg.DryRun,
		OnStatement: func(kind sqlscript.StatementKind, statement string, err error) {
			_ = bar.Add(1)
		},
	})

	result := im.Run(ctx, statements)
	_ = bar.Finish()

	if result.Warnings != nil {
		log.Warn("Import finished with warnings", "error", result.Warnings)
	}

	log.Info("Import complete",
		"attempted", result.Attempted(),
		"succeeded", result.Succeeded(),
		"batches", result.BatchesExecuted)

	if result.Succeeded() < result.Attempted() {
		return fmt.Errorf("%d of %d statements failed",
			result.Attempted()-result.Succeeded(), result.Attempted())
	}
	return nil
}
