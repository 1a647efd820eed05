package sqlscript

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chinookdemo/internal/logger"
)

// fakeExecutor records executed statements and fails those containing a
// configured substring.
type fakeExecutor struct {
	executed []string
	failOn   string
}

func (f *fakeExecutor) Execute(ctx context.Context, statement string) error {
	f.executed = append(f.executed, statement)
	if f.failOn != "" && strings.Contains(statement, f.failOn) {
		return errors.New("simulated failure")
	}
	return nil
}

func newTestImporter(exec Executor, opts ImportOptions) *Importer {
	return NewImporter(exec, logger.NewNullLogger(), opts)
}

// =============================================================================
// Two-phase ordering
// =============================================================================

func TestRunSchemaBeforeData(t *testing.T) {
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{})

	// Data statement deliberately precedes the schema statement
	statements := []string{
		"INSERT INTO Artist (ArtistId, Name) VALUES (1, 'AC/DC')",
		"CREATE TABLE Artist (ArtistId INT PRIMARY KEY, Name VARCHAR(120))",
	}

	result := im.Run(context.Background(), statements)

	if len(exec.executed) != 2 {
		t.Fatalf("executed %d statements, want 2", len(exec.executed))
	}
	if !strings.HasPrefix(exec.executed[0], "CREATE TABLE") {
		t.Errorf("schema statement did not run first: %q", exec.executed[0])
	}
	if !strings.HasPrefix(exec.executed[1], "INSERT") {
		t.Errorf("data statement did not run second: %q", exec.executed[1])
	}
	if result.Attempted() != 2 || result.Succeeded() != 2 {
		t.Errorf("attempted/succeeded = %d/%d, want 2/2", result.Attempted(), result.Succeeded())
	}
}

func TestRunPreservesOrderWithinPass(t *testing.T) {
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{})

	statements := []string{
		"CREATE TABLE a (x INT)",
		"INSERT INTO a VALUES (1)",
		"CREATE TABLE b (x INT)",
		"INSERT INTO b VALUES (1)",
	}
	im.Run(context.Background(), statements)

	want := []string{
		"CREATE TABLE a (x INT)",
		"CREATE TABLE b (x INT)",
		"INSERT INTO a VALUES (1)",
		"INSERT INTO b VALUES (1)",
	}
	for i := range want {
		if exec.executed[i] != want[i] {
			t.Errorf("executed[%d] = %q, want %q", i, exec.executed[i], want[i])
		}
	}
}

// =============================================================================
// Failure isolation
// =============================================================================

func TestFailingDropDoesNotStopTheRun(t *testing.T) {
	exec := &fakeExecutor{failOn: "DROP TABLE nonexistent"}
	im := newTestImporter(exec, ImportOptions{})

	statements := []string{
		"DROP TABLE nonexistent",
		"CREATE TABLE Artist (ArtistId INT PRIMARY KEY)",
		"INSERT INTO Artist VALUES (1)",
	}
	result := im.Run(context.Background(), statements)

	if len(exec.executed) != 3 {
		t.Fatalf("executed %d statements, want 3", len(exec.executed))
	}
	if result.SoftFailures != 1 {
		t.Errorf("soft failures = %d, want 1", result.SoftFailures)
	}
	if result.Warnings == nil {
		t.Error("expected aggregated warning for failed drop")
	}
	if result.Succeeded() != 2 {
		t.Errorf("succeeded = %d, want 2", result.Succeeded())
	}
}

func TestFailedZoneAndIndexCreatesAreSoft(t *testing.T) {
	exec := &fakeExecutor{failOn: "CREATE"}
	im := newTestImporter(exec, ImportOptions{})

	statements := []string{
		"CREATE ZONE chinook WITH REPLICAS=2",
		"CREATE INDEX idx1 ON Track (GenreId)",
		"INSERT INTO Track VALUES (1)",
	}
	result := im.Run(context.Background(), statements)

	if result.SoftFailures != 2 {
		t.Errorf("soft failures = %d, want 2", result.SoftFailures)
	}
	// The data pass still ran
	if result.DataSucceeded != 1 {
		t.Errorf("data succeeded = %d, want 1", result.DataSucceeded)
	}
}

func TestHardStatementFailureIsIsolated(t *testing.T) {
	exec := &fakeExecutor{failOn: "INSERT INTO bad"}
	im := newTestImporter(exec, ImportOptions{})

	statements := []string{
		"INSERT INTO bad VALUES (1)",
		"INSERT INTO good VALUES (1)",
	}
	result := im.Run(context.Background(), statements)

	if result.DataAttempted != 2 {
		t.Errorf("data attempted = %d, want 2", result.DataAttempted)
	}
	if result.DataSucceeded != 1 {
		t.Errorf("data succeeded = %d, want 1", result.DataSucceeded)
	}
}

// =============================================================================
// Batch splitting in the data pass
// =============================================================================

func TestLargeInsertIsSplitAndOrdered(t *testing.T) {
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{MaxBatchRows: 2})

	stmt := "INSERT INTO Genre (GenreId, Name) VALUES (1,'Rock'), (2,'Jazz'), (3,'Metal'), (4,'Blues'), (5,'Latin')"
	result := im.Run(context.Background(), []string{stmt})

	if len(exec.executed) != 3 {
		t.Fatalf("executed %d batch statements, want 3", len(exec.executed))
	}
	if result.BatchesExecuted != 3 {
		t.Errorf("batches executed = %d, want 3", result.BatchesExecuted)
	}
	// One logical statement, one logical success
	if result.DataAttempted != 1 || result.DataSucceeded != 1 {
		t.Errorf("attempted/succeeded = %d/%d, want 1/1", result.DataAttempted, result.DataSucceeded)
	}
	if !strings.Contains(exec.executed[0], "(1,'Rock')") || !strings.Contains(exec.executed[2], "(5,'Latin')") {
		t.Errorf("batch order not preserved: %q", exec.executed)
	}
}

func TestBatchFailureAbandonsRemainingBatchesOnly(t *testing.T) {
	exec := &fakeExecutor{failOn: "(3,'Metal')"}
	im := newTestImporter(exec, ImportOptions{MaxBatchRows: 1})

	statements := []string{
		"INSERT INTO Genre (GenreId, Name) VALUES (1,'Rock'), (2,'Jazz'), (3,'Metal'), (4,'Blues')",
		"INSERT INTO MediaType (MediaTypeId, Name) VALUES (1,'MPEG')",
	}
	result := im.Run(context.Background(), statements)

	// Batches 1 and 2 ran, batch 3 failed, batch 4 was abandoned;
	// the unrelated following statement still executed
	var genreBatches, mediaBatches int
	for _, s := range exec.executed {
		if strings.Contains(s, "Genre") {
			genreBatches++
		}
		if strings.Contains(s, "MediaType") {
			mediaBatches++
		}
	}
	if genreBatches != 3 {
		t.Errorf("genre batches executed = %d, want 3 (fourth abandoned)", genreBatches)
	}
	if mediaBatches != 1 {
		t.Errorf("unrelated statement did not execute: %d", mediaBatches)
	}
	if result.DataSucceeded != 1 {
		t.Errorf("data succeeded = %d, want 1", result.DataSucceeded)
	}
}

func TestSmallInsertNotSplit(t *testing.T) {
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{MaxBatchRows: 10})

	stmt := "INSERT INTO t (a) VALUES (1), (2), (3)"
	im.Run(context.Background(), []string{stmt})

	if len(exec.executed) != 1 || exec.executed[0] != stmt {
		t.Fatalf("small insert should execute unchanged, got %q", exec.executed)
	}
}

// =============================================================================
// ImportScript + misc
// =============================================================================

func TestImportScriptEndToEnd(t *testing.T) {
	script := `
-- Chinook demo excerpt
CREATE TABLE Genre (GenreId INT PRIMARY KEY, Name VARCHAR(120));
/* data
   section */
INSERT INTO Genre (GenreId, Name) VALUES (1, 'Rock');
INSERT INTO Genre (GenreId, Name) VALUES (2, 'Jazz; Fusion');
COMMIT;
`
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{})

	result, err := im.ImportScript(context.Background(), strings.NewReader(script))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempted() != 3 || result.Succeeded() != 3 {
		t.Fatalf("attempted/succeeded = %d/%d, want 3/3", result.Attempted(), result.Succeeded())
	}
	if !strings.Contains(exec.executed[2], "Jazz; Fusion") {
		t.Errorf("quoted semicolon statement mangled: %q", exec.executed[2])
	}
}

func TestOtherStatementsAreSkipped(t *testing.T) {
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{})

	result := im.Run(context.Background(), []string{
		"GRANT SELECT ON Track TO reporting",
		"SELECT 1",
	})

	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if len(exec.executed) != 1 {
		t.Errorf("executed %d statements, want 1", len(exec.executed))
	}
}

func TestDryRunExecutesNothing(t *testing.T) {
	exec := &fakeExecutor{}
	im := newTestImporter(exec, ImportOptions{DryRun: true})

	result := im.Run(context.Background(), []string{
		"CREATE TABLE t (a INT)",
		"INSERT INTO t VALUES (1)",
	})

	if len(exec.executed) != 0 {
		t.Fatalf("dry run executed %d statements", len(exec.executed))
	}
	if result.Attempted() != 2 || result.Succeeded() != 2 {
		t.Errorf("attempted/succeeded = %d/%d, want 2/2", result.Attempted(), result.Succeeded())
	}
}

func TestOnStatementCallback(t *testing.T) {
	exec := &fakeExecutor{failOn: "bad"}
	var kinds []StatementKind
	var failures int
	im := newTestImporter(exec, ImportOptions{
		OnStatement: func(kind StatementKind, statement string, err error) {
			kinds = append(kinds, kind)
			if err != nil {
				failures++
			}
		},
	})

	im.Run(context.Background(), []string{
		"CREATE TABLE t (a INT)",
		"INSERT INTO bad VALUES (1)",
	})

	if len(kinds) != 2 {
		t.Fatalf("callback fired %d times, want 2", len(kinds))
	}
	if kinds[0] != KindSchemaCreateTable || kinds[1] != KindDataInsert {
		t.Errorf("callback kinds = %v", kinds)
	}
	if failures != 1 {
		t.Errorf("callback failures = %d, want 1", failures)
	}
}
