// Package sqlsplit splits SQL text into atomic statements without
// executing or validating them. Statement boundaries are semicolons at
// block depth zero; quoted literals, quoted identifiers, dollar-quoted
// bodies, comments and BEGIN..END / CASE..END blocks are opaque.
package sqlsplit

import (
	"strings"
)

// Splitter is the delegate consumed by the batch executor. Replace it
// when a dialect-bound parser should decide statement boundaries.
type Splitter interface {
	Split(sql string) []string
}

// Split is the standalone convenience: default options, maximum
// portability. Batch-level splitter configuration does not apply here.
func Split(sql string) []string {
	return New(Options{}).Split(sql)
}

// Tokenizer is the default Splitter.
type Tokenizer struct {
	opts Options
}

var _ Splitter = (*Tokenizer)(nil)

func New(opts Options) *Tokenizer {
	return &Tokenizer{opts: opts}
}

func (t *Tokenizer) Split(sql string) []string {
	var out []string
	var raw, bare strings.Builder // raw keeps comments, bare omits them

	depth := 0            // BEGIN..END / CASE..END nesting
	pendingBegin := false // saw BEGIN, next token decides block vs transaction
	pendingEnd := false   // saw END, next token decides what it closes

	// resolvePending consumes a pending BEGIN. A transaction BEGIN
	// (BEGIN; / BEGIN TRANSACTION / BEGIN WORK) opens no block.
	resolvePending := func(opensBlock bool) {
		if pendingBegin {
			pendingBegin = false
			if opensBlock {
				depth++
			}
		}
	}

	// resolveEnd consumes a pending END as a block closer. END IF /
	// END LOOP / END WHILE / END REPEAT never reach here: their
	// openers do not count a level, so those pairs must net zero.
	resolveEnd := func() {
		if pendingEnd {
			pendingEnd = false
			if depth > 0 {
				depth--
			}
		}
	}

	flush := func(term string) {
		rawS, bareS := raw.String(), bare.String()
		raw.Reset()
		bare.Reset()
		if rawS == "" && term == "" {
			return // nothing scanned since the last terminator
		}
		empty := strings.TrimSpace(bareS) == ""
		if empty && !t.opts.KeepEmptyStatements {
			return
		}
		body := rawS
		if !t.opts.KeepComments {
			body = bareS
		}
		if !t.opts.KeepExtraSpaces {
			body = strings.TrimSpace(body)
		}
		if t.opts.KeepTerminators {
			body += term
		}
		out = append(out, body)
	}

	i := 0
	n := len(sql)
	for i < n {
		ch := sql[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			j := scanQuoted(sql, i, ch)
			resolveEnd()
			resolvePending(true)
			raw.WriteString(sql[i:j])
			bare.WriteString(sql[i:j])
			i = j

		case ch == '$':
			if j, ok := scanDollarQuoted(sql, i); ok {
				resolveEnd()
				resolvePending(true)
				raw.WriteString(sql[i:j])
				bare.WriteString(sql[i:j])
				i = j
				break
			}
			resolveEnd()
			resolvePending(true)
			raw.WriteByte(ch)
			bare.WriteByte(ch)
			i++

		case (ch == '#' && t.opts.HashComments) || (ch == '-' && i+1 < n && sql[i+1] == '-'):
			j := scanLineComment(sql, i)
			raw.WriteString(sql[i:j]) // newline stays outside the comment
			i = j

		case ch == '/' && i+1 < n && sql[i+1] == '*':
			j := scanBlockComment(sql, i)
			raw.WriteString(sql[i:j])
			i = j

		case ch == ';':
			resolveEnd()
			resolvePending(false) // plain `BEGIN;` starts a transaction, not a block
			if depth == 0 {
				flush(";")
			} else {
				raw.WriteByte(ch)
				bare.WriteByte(ch)
			}
			i++

		case isWordStart(ch):
			j := i + 1
			for j < n && isWordChar(sql[j]) {
				j++
			}
			word := sql[i:j]
			switch {
			case pendingEnd && isUncountedEndQualifier(word):
				// END IF / END LOOP / END WHILE / END REPEAT:
				// the opener counted no level, close none
				pendingEnd = false
			case pendingEnd && strings.EqualFold(word, "CASE"):
				// END CASE closes the CASE that opened a level
				pendingEnd = false
				if depth > 0 {
					depth--
				}
			case pendingBegin && isTransactionWord(word):
				pendingBegin = false
			default:
				resolveEnd()
				resolvePending(true)
				switch {
				case strings.EqualFold(word, "BEGIN"):
					pendingBegin = true
				case strings.EqualFold(word, "CASE"):
					depth++
				case strings.EqualFold(word, "END"):
					pendingEnd = true
				}
			}
			raw.WriteString(word)
			bare.WriteString(word)
			i = j

		case isSpace(ch):
			raw.WriteByte(ch)
			bare.WriteByte(ch)
			i++

		default:
			resolveEnd()
			resolvePending(true)
			raw.WriteByte(ch)
			bare.WriteByte(ch)
			i++
		}
	}
	flush("") // unterminated tail
	return out
}

func isTransactionWord(w string) bool {
	return strings.EqualFold(w, "TRANSACTION") ||
		strings.EqualFold(w, "WORK") ||
		strings.EqualFold(w, "ISOLATION")
}

// isUncountedEndQualifier reports END-pair keywords whose opening
// keyword (IF/LOOP/WHILE/REPEAT) does not open a counted level.
func isUncountedEndQualifier(w string) bool {
	return strings.EqualFold(w, "IF") ||
		strings.EqualFold(w, "LOOP") ||
		strings.EqualFold(w, "WHILE") ||
		strings.EqualFold(w, "REPEAT")
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isWordStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isWordChar(ch byte) bool {
	return isWordStart(ch) || (ch >= '0' && ch <= '9')
}

// scanQuoted returns the index just past the closing quote. Doubled
// quotes escape within all quote kinds; backslash escapes within
// single and double quotes. An unterminated literal swallows the rest.
func scanQuoted(s string, i int, quote byte) int {
	j := i + 1
	n := len(s)
	for j < n {
		ch := s[j]
		if ch == '\\' && quote != '`' {
			j += 2
			continue
		}
		if ch == quote {
			if j+1 < n && s[j+1] == quote {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return n
}

// scanDollarQuoted matches PostgreSQL dollar quoting: $tag$ .. $tag$
// with an identifier-shaped (possibly empty) tag. Returns ok=false
// when s[i:] is not a dollar-quote opener (e.g. a `$1` placeholder).
func scanDollarQuoted(s string, i int) (int, bool) {
	n := len(s)
	j := i + 1
	if j < n && isWordStart(s[j]) {
		for j < n && isWordChar(s[j]) {
			j++
		}
	}
	if j >= n || s[j] != '$' {
		return 0, false
	}
	tag := s[i : j+1]
	k := strings.Index(s[j+1:], tag)
	if k < 0 {
		return n, true // unterminated body swallows the rest
	}
	return j + 1 + k + len(tag), true
}

// scanLineComment runs to (not including) the next newline.
func scanLineComment(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(s)
}

// scanBlockComment handles nested /* */ pairs, as PostgreSQL does.
func scanBlockComment(s string, i int) int {
	n := len(s)
	depth := 1
	j := i + 2
	for j < n {
		if j+1 < n && s[j] == '/' && s[j+1] == '*' {
			depth++
			j += 2
			continue
		}
		if j+1 < n && s[j] == '*' && s[j+1] == '/' {
			depth--
			j += 2
			if depth == 0 {
				return j
			}
			continue
		}
		j++
	}
	return n
}
