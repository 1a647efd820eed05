package database

import "strings"

// QuotePGIdentifier safely quotes a PostgreSQL identifier (table, column,
// index name) by wrapping in double-quotes and doubling any internal ones.
//
//	QuotePGIdentifier(`my"table`) → `"my""table"`
func QuotePGIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteMySQLIdentifier safely quotes a MySQL/MariaDB identifier by wrapping
// in backticks and doubling any internal backticks.
func QuoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteIdentifier quotes an identifier for the given database type.
func QuoteIdentifier(databaseType, name string) string {
	switch databaseType {
	case "mysql", "mariadb":
		return QuoteMySQLIdentifier(name)
	default:
		return QuotePGIdentifier(name)
	}
}

// EscapePGLiteral escapes a PostgreSQL string literal value by doubling
// single-quotes. The result goes inside single-quotes in a SQL statement.
func EscapePGLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// EscapeMySQLLiteral escapes a MySQL string literal value by escaping
// backslashes and single-quotes.
func EscapeMySQLLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}
