package sqlscript

import (
	"strings"
	"testing"
)

// =============================================================================
// CountInsertRows
// =============================================================================

func TestCountInsertRows(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      int
	}{
		{
			name:      "single row",
			statement: "INSERT INTO Artist (ArtistId, Name) VALUES (1, 'AC/DC')",
			want:      1,
		},
		{
			name:      "five rows",
			statement: "INSERT INTO Genre (GenreId, Name) VALUES (1,'Rock'), (2,'Jazz'), (3,'Metal'), (4,'Blues'), (5,'Latin')",
			want:      5,
		},
		{
			name:      "nested parens inside a value count once",
			statement: "INSERT INTO t (a, b) VALUES (f(1, 2), 'x'), (g((3)), 'y')",
			want:      2,
		},
		{
			name:      "parens inside quoted strings are ignored",
			statement: "INSERT INTO t (a) VALUES ('(not) a (row)'), ('second)(')",
			want:      2,
		},
		{
			name:      "no VALUES clause",
			statement: "INSERT INTO t SELECT * FROM other",
			want:      0,
		},
		{
			name:      "VALUES only inside a string literal",
			statement: "INSERT INTO t (a) SELECT 'VALUES (1)' FROM other",
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountInsertRows(tt.statement); got != tt.want {
				t.Errorf("CountInsertRows = %d, want %d", got, tt.want)
			}
		})
	}
}

// =============================================================================
// SplitLargeInsert
// =============================================================================

func TestSplitLargeInsert(t *testing.T) {
	stmt := "INSERT INTO MediaType (MediaTypeId, Name) VALUES (1,'MPEG'), (2,'AAC'), (3,'Video'), (4,'Purchased'), (5,'Protected')"

	batches := SplitLargeInsert(stmt, 2)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3: %q", len(batches), batches)
	}

	wantSizes := []int{2, 2, 1}
	prefix := "INSERT INTO MediaType (MediaTypeId, Name) VALUES"
	var allGroups []string
	for i, batch := range batches {
		if !strings.HasPrefix(batch, prefix) {
			t.Errorf("batch %d missing shared prefix: %q", i, batch)
		}
		got := CountInsertRows(batch)
		if got != wantSizes[i] {
			t.Errorf("batch %d has %d rows, want %d", i, got, wantSizes[i])
		}
		allGroups = append(allGroups, splitValueGroups(batch[valuesEnd(batch):])...)
	}

	// Concatenating all groups across batches reproduces the original list
	original := splitValueGroups(stmt[valuesEnd(stmt):])
	if len(allGroups) != len(original) {
		t.Fatalf("got %d total groups, want %d", len(allGroups), len(original))
	}
	for i := range original {
		if allGroups[i] != original[i] {
			t.Errorf("group %d = %q, want %q", i, allGroups[i], original[i])
		}
	}
}

func TestSplitLargeInsertFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		statement string
	}{
		{"non-insert statement", "SELECT * FROM t"},
		{"insert without VALUES", "INSERT INTO t SELECT * FROM other"},
		{"delete", "DELETE FROM t WHERE id = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLargeInsert(tt.statement, 2)
			if len(got) != 1 || got[0] != tt.statement {
				t.Fatalf("want unchanged single-element result, got %q", got)
			}
		})
	}
}

func TestSplitLargeInsertUnderLimit(t *testing.T) {
	stmt := "INSERT INTO t (a) VALUES (1), (2)"
	got := SplitLargeInsert(stmt, 10)
	if len(got) != 1 {
		t.Fatalf("got %d batches, want 1", len(got))
	}
	if CountInsertRows(got[0]) != 2 {
		t.Fatalf("rows = %d, want 2", CountInsertRows(got[0]))
	}
}

func TestSplitLargeInsertQuoteAware(t *testing.T) {
	stmt := "INSERT INTO t (a, b) VALUES (1, 'a;b,(c)'), (2, 'it\\'s'), (3, NULL)"
	batches := SplitLargeInsert(stmt, 1)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3: %q", len(batches), batches)
	}
	if !strings.Contains(batches[0], "'a;b,(c)'") {
		t.Errorf("quoted literal mangled: %q", batches[0])
	}
	if !strings.Contains(batches[1], `'it\'s'`) {
		t.Errorf("escaped quote mangled: %q", batches[1])
	}
}

func TestSplitLargeInsertMinimumBatchSize(t *testing.T) {
	stmt := "INSERT INTO t (a) VALUES (1), (2), (3)"
	batches := SplitLargeInsert(stmt, 0)
	// A non-positive limit still emits at least one row per statement
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
}
