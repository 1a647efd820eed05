package sqlscript

import "strings"

// DefaultMaxBatchRows is the default upper bound on value rows per executed
// INSERT statement.
const DefaultMaxBatchRows = 1000

// valuesEnd returns the index just past the first VALUES keyword that sits
// outside any quoted literal, or -1 if the statement has none.
func valuesEnd(statement string) int {
	inQuote := false
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		if inQuote {
			if c == '\'' && statement[i-1] != '\\' {
				inQuote = false
			}
			continue
		}
		switch {
		case c == '\'':
			inQuote = true
		case c == 'V' || c == 'v':
			if i+6 <= len(statement) && strings.EqualFold(statement[i:i+6], "VALUES") {
				// Must be a standalone keyword, not part of an identifier
				if i > 0 && isIdentByte(statement[i-1]) {
					continue
				}
				if i+6 < len(statement) && isIdentByte(statement[i+6]) {
					continue
				}
				return i + 6
			}
		}
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// CountInsertRows estimates the number of value rows in an INSERT statement
// by counting top-level parenthesis opens after the VALUES keyword, with the
// same quote tracking the splitter uses. Returns 0 for statements without a
// VALUES clause.
func CountInsertRows(statement string) int {
	vi := valuesEnd(statement)
	if vi < 0 {
		return 0
	}

	tail := statement[vi:]
	rows, depth := 0, 0
	inQuote := false
	for i := 0; i < len(tail); i++ {
		c := tail[i]
		if inQuote {
			if c == '\'' && tail[i-1] != '\\' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '\'':
			inQuote = true
		case '(':
			if depth == 0 {
				rows++
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return rows
}

// SplitLargeInsert splits a multi-row INSERT into one or more complete INSERT
// statements of at most maxRows value groups each, preserving original row
// order. Non-INSERT statements and INSERTs without a VALUES clause are
// returned unchanged as a single-element result; that fallback is defined
// behavior, not an error.
func SplitLargeInsert(statement string, maxRows int) []string {
	trimmed := strings.TrimSpace(statement)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return []string{statement}
	}

	vi := valuesEnd(statement)
	if vi < 0 {
		return []string{statement}
	}

	// Everything up to and including VALUES is the immutable prefix; it
	// carries the table name and column list.
	prefix := strings.TrimSpace(statement[:vi])
	groups := splitValueGroups(statement[vi:])
	if len(groups) == 0 {
		return []string{statement}
	}

	if maxRows < 1 {
		maxRows = 1
	}

	batches := make([]string, 0, (len(groups)+maxRows-1)/maxRows)
	for start := 0; start < len(groups); start += maxRows {
		end := start + maxRows
		if end > len(groups) {
			end = len(groups)
		}
		batches = append(batches, prefix+" "+strings.Join(groups[start:end], ", "))
	}
	return batches
}

// splitValueGroups walks the text after VALUES, tracking single-quote state
// and parenthesis nesting. Each time nesting returns to depth 0 after a
// closing parenthesis, the accumulated text is captured as one value group.
// Separator commas between groups are skipped.
func splitValueGroups(tail string) []string {
	var groups []string
	var cur strings.Builder
	depth := 0
	inQuote := false

	for i := 0; i < len(tail); i++ {
		c := tail[i]

		if inQuote {
			cur.WriteByte(c)
			if c == '\'' && tail[i-1] != '\\' {
				inQuote = false
			}
			continue
		}

		switch c {
		case '\'':
			if depth > 0 {
				inQuote = true
				cur.WriteByte(c)
			}
		case '(':
			depth++
			cur.WriteByte(c)
		case ')':
			if depth > 0 {
				depth--
				cur.WriteByte(c)
				if depth == 0 {
					groups = append(groups, strings.TrimSpace(cur.String()))
					cur.Reset()
				}
			}
		default:
			if depth > 0 {
				cur.WriteByte(c)
			}
			// Commas, whitespace and trailing terminators between groups
			// are separators and are dropped
		}
	}
	return groups
}
