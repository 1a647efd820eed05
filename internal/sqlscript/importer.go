package sqlscript

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"chinookdemo/internal/logger"
)

// Executor executes one SQL statement against the external store. The import
// driver never constructs connections or transactions itself; the surrounding
// database client owns those.
type Executor interface {
	Execute(ctx context.Context, statement string) error
}

// ImportOptions controls a single import run.
type ImportOptions struct {
	// MaxBatchRows bounds the value rows per executed INSERT.
	// Zero means DefaultMaxBatchRows.
	MaxBatchRows int

	// DryRun tokenizes, classifies and splits without executing anything.
	DryRun bool

	// Tokenizer options used by ImportScript.
	Tokenizer Options

	// OnStatement, when set, is called after each logical statement
	// finishes (a multi-batch INSERT counts as one).
	OnStatement func(kind StatementKind, statement string, err error)
}

// ImportResult tallies one import run. It is produced once per run and holds
// no state beyond the counters.
type ImportResult struct {
	SchemaAttempted int
	SchemaSucceeded int
	DataAttempted   int
	DataSucceeded   int
	Skipped         int // statements that are neither schema nor data kind
	SoftFailures    int // zone/index creates and drops that failed
	BatchesExecuted int

	// Warnings aggregates soft schema failures for the final summary.
	Warnings error
}

// Attempted returns the total number of statements submitted for execution.
func (r *ImportResult) Attempted() int {
	return r.SchemaAttempted + r.DataAttempted
}

// Succeeded returns the number of statements that executed successfully.
// A split INSERT counts as one logical success only if all its batches succeed.
func (r *ImportResult) Succeeded() int {
	return r.SchemaSucceeded + r.DataSucceeded
}

// Importer sequences classification and two-phase execution of a statement
// list: schema statements first, then data statements, both best-effort.
type Importer struct {
	exec Executor
	log  logger.Logger
	opts ImportOptions
}

// NewImporter creates an import driver over the given executor.
func NewImporter(exec Executor, log logger.Logger, opts ImportOptions) *Importer {
	if opts.MaxBatchRows <= 0 {
		opts.MaxBatchRows = DefaultMaxBatchRows
	}
	if opts.Tokenizer.IgnoredPrefixes == nil {
		opts.Tokenizer = DefaultOptions()
	}
	return &Importer{exec: exec, log: log, opts: opts}
}

// ImportScript tokenizes a raw script stream and runs the result.
func (im *Importer) ImportScript(ctx context.Context, r io.Reader) (*ImportResult, error) {
	statements, err := SplitStatements(r, im.opts.Tokenizer)
	if err != nil {
		return nil, fmt.Errorf("tokenize script: %w", err)
	}
	return im.Run(ctx, statements), nil
}

// Run executes the statements in two sequential passes. Failures are isolated
// per statement and never abort the run; the driver always completes and
// reports an attempted/succeeded tally.
func (im *Importer) Run(ctx context.Context, statements []string) *ImportResult {
	result := &ImportResult{}

	kinds := make([]StatementKind, len(statements))
	for i, stmt := range statements {
		kinds[i] = Classify(stmt)
		if !kinds[i].IsSchema() && !kinds[i].IsData() {
			result.Skipped++
		}
	}

	im.runSchemaPass(ctx, statements, kinds, result)
	im.runDataPass(ctx, statements, kinds, result)

	im.log.Info("Import run complete",
		"attempted", result.Attempted(),
		"succeeded", result.Succeeded(),
		"skipped", result.Skipped,
		"soft_failures", result.SoftFailures)

	return result
}

// runSchemaPass executes schema statements in original order. Zone creates,
// index creates and drops fail soft (the object likely already exists, does
// not exist, or is blocked by dependents); other schema failures are reported
// as errors but the pass continues toward best-effort schema convergence.
func (im *Importer) runSchemaPass(ctx context.Context, statements []string, kinds []StatementKind, result *ImportResult) {
	for i, stmt := range statements {
		if ctx.Err() != nil {
			return
		}
		kind := kinds[i]
		if !kind.IsSchema() {
			continue
		}

		result.SchemaAttempted++
		err := im.execute(ctx, stmt)
		if err == nil {
			result.SchemaSucceeded++
			im.log.Debug("Schema statement executed", "kind", kind.String(), "statement", abbreviate(stmt))
			im.notify(kind, stmt, nil)
			continue
		}

		switch kind {
		case KindSchemaCreateZone:
			result.SoftFailures++
			result.Warnings = multierror.Append(result.Warnings, fmt.Errorf("create zone: %w", err))
			im.log.Warn("Zone create failed (may already exist)", "error", err)
		case KindSchemaCreateIndex:
			result.SoftFailures++
			result.Warnings = multierror.Append(result.Warnings, fmt.Errorf("create index %s on %s: %w", IndexName(stmt), IndexTable(stmt), err))
			im.log.Warn("Index create failed (may already exist)",
				"index", IndexName(stmt), "table", IndexTable(stmt), "error", err)
		case KindSchemaDrop:
			result.SoftFailures++
			result.Warnings = multierror.Append(result.Warnings, fmt.Errorf("drop: %w", err))
			im.log.Warn("Drop failed (object may not exist)", "error", err)
		default:
			im.log.Error("Schema statement failed", "kind", kind.String(), "statement", abbreviate(stmt), "error", err)
		}
		im.notify(kind, stmt, err)
	}
}

// runDataPass executes data statements in original order. Large INSERTs are
// split into bounded batches executed sequentially; a failing batch abandons
// that statement's remaining batches only. Already-executed batches are not
// rolled back.
func (im *Importer) runDataPass(ctx context.Context, statements []string, kinds []StatementKind, result *ImportResult) {
	for i, stmt := range statements {
		if ctx.Err() != nil {
			return
		}
		kind := kinds[i]
		if !kind.IsData() {
			continue
		}

		result.DataAttempted++

		var err error
		if kind == KindDataInsert {
			err = im.executeInsert(ctx, stmt, result)
		} else {
			err = im.execute(ctx, stmt)
		}

		if err != nil {
			im.log.Error("Data statement failed",
				"kind", kind.String(), "table", TargetTable(stmt), "error", err)
		} else {
			result.DataSucceeded++
		}
		im.notify(kind, stmt, err)
	}
}

// executeInsert runs one INSERT, splitting it first when its estimated row
// count exceeds the batch limit.
func (im *Importer) executeInsert(ctx context.Context, stmt string, result *ImportResult) error {
	rows := CountInsertRows(stmt)
	if rows <= im.opts.MaxBatchRows {
		return im.execute(ctx, stmt)
	}

	batches := SplitLargeInsert(stmt, im.opts.MaxBatchRows)
	im.log.Info("Splitting large insert",
		"table", TargetTable(stmt), "rows", rows, "batches", len(batches))

	for n, batch := range batches {
		if err := im.execute(ctx, batch); err != nil {
			// Remaining batches for this statement are abandoned;
			// prior batches stay applied (at-least-once semantics)
			return fmt.Errorf("batch %d/%d: %w", n+1, len(batches), err)
		}
		result.BatchesExecuted++
	}
	return nil
}

func (im *Importer) execute(ctx context.Context, stmt string) error {
	if im.opts.DryRun {
		im.log.Info("Would execute", "kind", Classify(stmt).String(), "statement", abbreviate(stmt))
		return nil
	}
	return im.exec.Execute(ctx, stmt)
}

func (im *Importer) notify(kind StatementKind, stmt string, err error) {
	if im.opts.OnStatement != nil {
		im.opts.OnStatement(kind, stmt, err)
	}
}

// abbreviate shortens long statements for log lines.
func abbreviate(stmt string) string {
	const max = 80
	if len(stmt) <= max {
		return stmt
	}
	return stmt[:max] + "..."
}
