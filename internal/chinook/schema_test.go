package chinook

import (
	"strings"
	"testing"

	"chinookdemo/internal/config"
	"chinookdemo/internal/sqlscript"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Zone = "chinook"
	cfg.ZoneReplicas = 2
	cfg.ZonePartitions = 25
	return cfg
}

func TestTablesCoverTheFullSchema(t *testing.T) {
	want := []string{
		"Artist", "Album", "Genre", "MediaType", "Track",
		"Customer", "Invoice", "InvoiceLine", "Playlist", "PlaylistTrack",
	}

	names := TableNames()
	if len(names) != len(want) {
		t.Fatalf("schema has %d tables, want %d", len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("table[%d] = %s, want %s", i, names[i], name)
		}
	}
}

func TestTablesPrecedeTheirReferrers(t *testing.T) {
	pos := make(map[string]int)
	for i, name := range TableNames() {
		pos[name] = i
	}

	// referrer -> referenced
	deps := map[string][]string{
		"Album":         {"Artist"},
		"Track":         {"Album", "Genre", "MediaType"},
		"Invoice":       {"Customer"},
		"InvoiceLine":   {"Invoice", "Track"},
		"PlaylistTrack": {"Playlist", "Track"},
	}

	for referrer, referenced := range deps {
		for _, ref := range referenced {
			if pos[ref] > pos[referrer] {
				t.Errorf("%s is created after %s, which references it", ref, referrer)
			}
		}
	}
}

func TestSchemaStatementsClassification(t *testing.T) {
	statements := SchemaStatements(testConfig())

	var zones, tables, indexes int
	for _, stmt := range statements {
		switch sqlscript.Classify(stmt) {
		case sqlscript.KindSchemaCreateZone:
			zones++
		case sqlscript.KindSchemaCreateTable:
			tables++
		case sqlscript.KindSchemaCreateIndex:
			indexes++
		default:
			t.Errorf("unexpected statement kind for %q", stmt)
		}
	}

	if zones != 1 {
		t.Errorf("zone statements = %d, want 1", zones)
	}
	if tables != 10 {
		t.Errorf("table statements = %d, want 10", tables)
	}
	if indexes != 8 {
		t.Errorf("index statements = %d, want 8", indexes)
	}
}

func TestZoneStatementHonorsConfig(t *testing.T) {
	cfg := testConfig()
	stmt := ZoneStatement(cfg)

	for _, want := range []string{"CREATE ZONE IF NOT EXISTS chinook", "REPLICAS=2", "PARTITIONS=25"} {
		if !strings.Contains(stmt, want) {
			t.Errorf("zone statement missing %q: %s", want, stmt)
		}
	}

	cfg.Zone = ""
	if got := ZoneStatement(cfg); got != "" {
		t.Errorf("empty zone name should disable the zone statement, got %q", got)
	}

	statements := SchemaStatements(cfg)
	if sqlscript.Classify(statements[0]) != sqlscript.KindSchemaCreateTable {
		t.Errorf("first statement should be a table create when zone is disabled: %q", statements[0])
	}
}

func TestDropStatementsReverseCreationOrder(t *testing.T) {
	cfg := testConfig()
	drops := DropStatements(cfg)

	if len(drops) != 11 { // 10 tables + zone
		t.Fatalf("drop statements = %d, want 11", len(drops))
	}
	if drops[0] != "DROP TABLE IF EXISTS PlaylistTrack" {
		t.Errorf("first drop = %q, want PlaylistTrack", drops[0])
	}
	if drops[9] != "DROP TABLE IF EXISTS Artist" {
		t.Errorf("last table drop = %q, want Artist", drops[9])
	}
	if drops[10] != "DROP ZONE IF EXISTS chinook" {
		t.Errorf("final drop = %q, want the zone", drops[10])
	}

	for _, stmt := range drops {
		if sqlscript.Classify(stmt) != sqlscript.KindSchemaDrop {
			t.Errorf("drop statement misclassified: %q", stmt)
		}
	}
}

func TestSampleDatasetTokenizes(t *testing.T) {
	r, err := SampleDataset()
	if err != nil {
		t.Fatalf("open sample dataset: %v", err)
	}

	statements, err := sqlscript.SplitStatements(r, sqlscript.DefaultOptions())
	if err != nil {
		t.Fatalf("tokenize sample dataset: %v", err)
	}
	if len(statements) == 0 {
		t.Fatal("sample dataset produced no statements")
	}

	// Data-only script: every statement is an INSERT, each against a
	// known schema table
	known := make(map[string]bool)
	for _, name := range TableNames() {
		known[name] = true
	}
	for _, stmt := range statements {
		kind := sqlscript.Classify(stmt)
		if kind != sqlscript.KindDataInsert {
			t.Errorf("non-insert statement in dataset: %s", stmt)
		}
		if table := sqlscript.TargetTable(stmt); !known[table] {
			t.Errorf("insert targets unknown table %q", table)
		}
	}
}
