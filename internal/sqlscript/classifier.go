package sqlscript

import (
	"regexp"
	"strings"
)

// StatementKind labels a statement by its leading keywords. It is derived
// purely from the statement text and recomputed per statement.
type StatementKind int

const (
	KindOther StatementKind = iota
	KindSchemaCreateZone
	KindSchemaCreateTable
	KindSchemaCreateIndex
	KindSchemaDrop
	KindDataInsert
	KindDataUpdate
	KindDataDelete
	KindDataSelect
)

func (k StatementKind) String() string {
	switch k {
	case KindSchemaCreateZone:
		return "create-zone"
	case KindSchemaCreateTable:
		return "create-table"
	case KindSchemaCreateIndex:
		return "create-index"
	case KindSchemaDrop:
		return "drop"
	case KindDataInsert:
		return "insert"
	case KindDataUpdate:
		return "update"
	case KindDataDelete:
		return "delete"
	case KindDataSelect:
		return "select"
	default:
		return "other"
	}
}

// IsSchema reports whether the kind is a schema-definition statement.
// Schema statements execute in a separate pass before any data statement so
// that zones, tables and indexes exist before data manipulation runs.
func (k StatementKind) IsSchema() bool {
	switch k {
	case KindSchemaCreateZone, KindSchemaCreateTable, KindSchemaCreateIndex, KindSchemaDrop:
		return true
	}
	return false
}

// IsData reports whether the kind is a data-manipulation statement.
func (k StatementKind) IsData() bool {
	switch k {
	case KindDataInsert, KindDataUpdate, KindDataDelete, KindDataSelect:
		return true
	}
	return false
}

// Classify maps a statement to its kind from the case-insensitive leading tokens.
func Classify(statement string) StatementKind {
	fields := strings.Fields(strings.ToUpper(statement))
	if len(fields) == 0 {
		return KindOther
	}

	switch fields[0] {
	case "CREATE":
		if len(fields) < 2 {
			return KindOther
		}
		switch fields[1] {
		case "ZONE":
			return KindSchemaCreateZone
		case "TABLE":
			return KindSchemaCreateTable
		case "INDEX":
			return KindSchemaCreateIndex
		case "UNIQUE":
			if len(fields) > 2 && fields[2] == "INDEX" {
				return KindSchemaCreateIndex
			}
		}
		return KindOther
	case "DROP":
		if len(fields) > 1 {
			switch fields[1] {
			case "TABLE", "ZONE", "INDEX":
				return KindSchemaDrop
			}
		}
		return KindOther
	case "INSERT":
		return KindDataInsert
	case "UPDATE":
		return KindDataUpdate
	case "DELETE":
		return KindDataDelete
	case "SELECT":
		return KindDataSelect
	default:
		return KindOther
	}
}

var (
	indexNameRe  = regexp.MustCompile(`(?i)^\s*CREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?([` + "`" + `"]?[\w$]+[` + "`" + `"]?)`)
	indexTableRe = regexp.MustCompile(`(?is)\bON\s+([` + "`" + `"]?[\w$.]+[` + "`" + `"]?)`)
	dmlTargetRe  = regexp.MustCompile(`(?is)\b(?:INTO|FROM|UPDATE)\s+([` + "`" + `"]?[\w$.]+[` + "`" + `"]?)`)
)

// IndexName extracts the index name from a CREATE INDEX statement.
// Fails soft to "unknown_index" when no identifier matches.
func IndexName(statement string) string {
	if m := indexNameRe.FindStringSubmatch(statement); m != nil {
		return unquoteIdent(m[1])
	}
	return "unknown_index"
}

// IndexTable extracts the target table from a CREATE INDEX ... ON statement.
// Fails soft to "unknown_table".
func IndexTable(statement string) string {
	if m := indexTableRe.FindStringSubmatch(statement); m != nil {
		return unquoteIdent(m[1])
	}
	return "unknown_table"
}

// TargetTable extracts the first identifier following INTO, FROM or UPDATE
// from a DML statement. Fails soft to "unknown".
func TargetTable(statement string) string {
	if m := dmlTargetRe.FindStringSubmatch(statement); m != nil {
		return unquoteIdent(m[1])
	}
	return "unknown"
}

func unquoteIdent(ident string) string {
	return strings.Trim(ident, "`\"")
}
