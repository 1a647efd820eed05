// Package sqlscript turns raw SQL script text into executable statements and
// drives their two-phase (schema then data) execution against an external
// store. The scanner is a small state machine (normal, quoted literal, line
// comment, block comment) so the quote/comment/paren interplay stays auditable
// in isolation from the rest of the import driver.
package sqlscript

import (
	"bufio"
	"io"
	"strings"
)

// Options configures statement tokenization.
type Options struct {
	// IgnoredPrefixes lists statement prefixes (case-insensitive) dropped
	// during tokenization. Passed explicitly so the tokenizer carries no
	// hidden global state.
	IgnoredPrefixes []string
}

// DefaultOptions returns the standard ignore list for dump-style scripts:
// session settings and transaction framing are connection-level noise when
// statements execute one at a time.
func DefaultOptions() Options {
	return Options{
		IgnoredPrefixes: []string{"SET ", "BEGIN TRANSACTION", "START TRANSACTION", "COMMIT", "--", "/*"},
	}
}

type scanState int

const (
	stateNormal scanState = iota
	stateInQuote
	stateInBlockComment
)

// Tokenizer produces an ordered sequence of SQL statements from a script
// stream. The sequence is lazy and finite; it is not restartable without
// re-supplying the source reader.
type Tokenizer struct {
	scanner *bufio.Scanner
	opts    Options
	buf     strings.Builder
	state   scanState
	pending []string
	flushed bool
}

// NewTokenizer creates a tokenizer over the raw script text.
func NewTokenizer(r io.Reader, opts Options) *Tokenizer {
	sc := bufio.NewScanner(r)
	// Dump files can carry very long extended-INSERT lines
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Tokenizer{scanner: sc, opts: opts}
}

// Next returns the next statement, or io.EOF when the stream is exhausted.
func (t *Tokenizer) Next() (string, error) {
	for {
		if len(t.pending) > 0 {
			stmt := t.pending[0]
			t.pending = t.pending[1:]
			return stmt, nil
		}
		if t.flushed {
			return "", io.EOF
		}
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			// Trailing non-empty buffer is emitted under the same filter
			t.flushed = true
			t.emit()
			continue
		}
		t.consumeLine(t.scanner.Text())
	}
}

// All drains the tokenizer and returns every remaining statement in order.
func (t *Tokenizer) All() ([]string, error) {
	var statements []string
	for {
		stmt, err := t.Next()
		if err == io.EOF {
			return statements, nil
		}
		if err != nil {
			return statements, err
		}
		statements = append(statements, stmt)
	}
}

// SplitStatements tokenizes a whole script in one call.
func SplitStatements(r io.Reader, opts Options) ([]string, error) {
	return NewTokenizer(r, opts).All()
}

// consumeLine feeds one source line through the state machine. Completed
// statements are queued on t.pending.
func (t *Tokenizer) consumeLine(line string) {
	// A line entirely inside an unterminated block comment is discarded
	// until the closing marker is seen
	if t.state == stateInBlockComment {
		end := strings.Index(line, "*/")
		if end < 0 {
			return
		}
		t.state = stateNormal
		line = line[end+2:]
	}

	// Outside quoted literals line breaks carry no meaning, so leading and
	// trailing indentation is dropped before the join below
	if t.state != stateInQuote {
		line = strings.TrimSpace(line)
	}

	// A line starting with -- (after trimming) is discarded
	if t.state == stateNormal && strings.HasPrefix(line, "--") {
		return
	}

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch t.state {
		case stateInQuote:
			t.buf.WriteByte(c)
			// A quote toggles unless immediately preceded by a backslash escape
			if c == '\'' && (i == 0 || line[i-1] != '\\') {
				t.state = stateNormal
			}

		case stateInBlockComment:
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				t.state = stateNormal
				i++
			}

		default: // stateNormal
			switch {
			case c == '\'':
				t.state = stateInQuote
				t.buf.WriteByte(c)
			case c == '-' && i+1 < len(line) && line[i+1] == '-':
				// Inline comment runs to end of line
				i = len(line)
			case c == '/' && i+1 < len(line) && line[i+1] == '*':
				t.state = stateInBlockComment
				i++
			case c == ';':
				// Statement terminator only when not inside a quoted region
				t.emit()
			default:
				t.buf.WriteByte(c)
			}
		}
	}

	// Join lines with a space to prevent token concatenation across breaks
	if s := t.buf.String(); len(s) > 0 && s[len(s)-1] != ' ' {
		t.buf.WriteByte(' ')
	}
}

// emit trims the accumulated buffer and queues it unless it is empty or
// matches the ignored-prefix list.
func (t *Tokenizer) emit() {
	stmt := strings.TrimSpace(t.buf.String())
	t.buf.Reset()
	if stmt == "" {
		return
	}

	upper := strings.ToUpper(stmt)
	for _, prefix := range t.opts.IgnoredPrefixes {
		p := strings.ToUpper(prefix)
		if strings.HasPrefix(upper, p) || upper == strings.TrimSpace(p) {
			return
		}
	}

	t.pending = append(t.pending, stmt)
}
