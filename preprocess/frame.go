package preprocess

import (
	"strings"

	"github.com/ruc-toolchain/rucc/internal/srcloc"
	"github.com/ruc-toolchain/rucc/internal/stream"
	"github.com/ruc-toolchain/rucc/internal/symtab"
)

const eofRune = stream.EOF

// frame is one recursion level of the preprocessor: the shared stream
// (the active input sink changes per level, per component A's `swap`),
// a location tracker for this level, and the caller's location for
// diagnostics raised while this level's input is not file-backed
// (§4.B: "location is NULL and diagnostics use the caller's previous
// location").
type frame struct {
	s       *stream.Stream
	tr      *srcloc.Tracker
	prevLoc *srcloc.Location
}

func (f *frame) here() srcloc.Location {
	return f.tr.Copy(f.prevLoc)
}

func (f *frame) skipSpaces() {
	for {
		c := f.s.ReadChar()
		if c == ' ' || c == '\t' {
			f.tr.Advance(c)
			continue
		}
		if c != eofRune {
			f.s.UnreadChar(c)
		}
		return
	}
}

// skipLine discards up to and including the next newline (or EOF).
func (f *frame) skipLine() {
	for {
		c := f.s.ReadChar()
		if c == eofRune {
			return
		}
		f.tr.Advance(c)
		if c == '\n' {
			return
		}
	}
}

// restOfLineTrimmed consumes through the next newline (or EOF) and
// returns the trimmed text it saw, for extra-tokens detection.
func (f *frame) restOfLineTrimmed() string {
	var sb strings.Builder
	for {
		c := f.s.ReadChar()
		if c == eofRune {
			break
		}
		f.tr.Advance(c)
		if c == '\n' {
			break
		}
		sb.WriteRune(c)
	}
	return strings.TrimSpace(sb.String())
}

// readDirectiveName reads one letter/underscore-starting identifier
// directly off the stream (directive names and macro names share this
// shape, per §4.C / §4.D). The actual lexeme scan is delegated to the
// shared symtab.Table: tbl.Add both reads the identifier and interns
// it, so a directive name or macro name is a real table entry rather
// than a string this package invents on its own. Add is used rather
// than Search because its NotFound return is unambiguous ("nothing
// identifier-shaped was there"); Search's NotFound also covers "read an
// identifier, but it has no handle yet", which would misreport a
// perfectly good name as a scan failure.
func (f *frame) readDirectiveName(tbl *symtab.Table) (string, symtab.Handle, bool) {
	h, _ := tbl.Add(f.s)
	if h == symtab.NotFound {
		return "", symtab.NotFound, false
	}
	name := tbl.Name(h)
	for _, r := range name {
		f.tr.Advance(r)
	}
	return name, h, true
}

// readParamList reads a comma-separated parameter name list up to and
// including the closing ')'; the opening '(' has already been consumed.
func (f *frame) readParamList(tbl *symtab.Table) ([]string, *Error) {
	var params []string
	seen := make(map[string]bool)
	f.skipSpaces()
	if c := f.s.ReadChar(); c == ')' {
		f.tr.Advance(c)
		return params, nil
	} else if c != eofRune {
		f.s.UnreadChar(c)
	}
	for {
		f.skipSpaces()
		name, _, ok := f.readDirectiveName(tbl)
		if !ok {
			return nil, &Error{Kind: ErrArgsExpectedName, Message: "expected parameter name"}
		}
		if seen[name] {
			return nil, &Error{Kind: ErrArgsDuplicate, Message: "duplicate parameter name " + name}
		}
		seen[name] = true
		params = append(params, name)
		f.skipSpaces()
		c := f.s.ReadChar()
		if c == eofRune {
			return nil, &Error{Kind: ErrArgsExpectedBracket, Message: "unterminated parameter list"}
		}
		f.tr.Advance(c)
		if c == ')' {
			return params, nil
		}
		if c != ',' {
			return nil, &Error{Kind: ErrArgsExpectedBracket, Message: "expected ',' or ')' in parameter list"}
		}
	}
}

// readDirectiveBody reads a #define/#set body up to the logical end of
// line: backslash-newline splices the next physical line in, and an
// in-line /*…*/ comment continues the body rather than ending it (§4.D
// step 3).
func (f *frame) readDirectiveBody() string {
	var sb strings.Builder
	for {
		c := f.s.ReadChar()
		if c == eofRune {
			break
		}
		if c == '\\' {
			n := f.s.ReadChar()
			if n == '\n' {
				f.tr.Advance('\\')
				f.tr.Advance('\n')
				continue
			}
			if n != eofRune {
				f.s.UnreadChar(n)
			}
			f.tr.Advance(c)
			sb.WriteRune(c)
			continue
		}
		if c == '/' {
			n := f.s.ReadChar()
			if n == '*' {
				f.tr.Advance('/')
				f.tr.Advance('*')
				text, multiline := f.scanBlockCommentBody()
				if multiline {
					sb.WriteString(blankNonNewlines(text))
				} else {
					sb.WriteString("/*" + text + "*/")
				}
				continue
			}
			if n != eofRune {
				f.s.UnreadChar(n)
			}
		}
		if c == '\n' {
			break
		}
		f.tr.Advance(c)
		sb.WriteRune(c)
	}
	return strings.TrimSpace(sb.String())
}

// scanBlockCommentBody reads a /*…*/ comment's interior (the opening
// "/*" already consumed) up to but not including the closing "*/",
// reporting whether it spans more than one line.
func (f *frame) scanBlockCommentBody() (string, bool) {
	var sb strings.Builder
	multiline := false
	for {
		c := f.s.ReadChar()
		if c == eofRune {
			break
		}
		if c == '\n' {
			multiline = true
		}
		if c == '*' {
			n := f.s.ReadChar()
			if n == '/' {
				f.tr.Advance('*')
				f.tr.Advance('/')
				return sb.String(), multiline
			}
			if n != eofRune {
				f.s.UnreadChar(n)
			}
		}
		f.tr.Advance(c)
		sb.WriteRune(c)
	}
	return sb.String(), multiline
}

func blankNonNewlines(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if c == '\n' {
			sb.WriteRune('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// tryConsumeEmptyParens consumes a "()" pair (with arbitrary space
// between) if one is next, restoring the stream unchanged otherwise.
func (f *frame) tryConsumeEmptyParens() bool {
	var consumed []rune
	c := f.s.ReadChar()
	if c != '(' {
		if c != eofRune {
			f.s.UnreadChar(c)
		}
		return false
	}
	consumed = append(consumed, c)
	for {
		n := f.s.ReadChar()
		if n == ' ' || n == '\t' || n == '\n' {
			consumed = append(consumed, n)
			continue
		}
		if n == ')' {
			for _, r := range consumed {
				f.tr.Advance(r)
			}
			f.tr.Advance(n)
			return true
		}
		if n != eofRune {
			consumed = append(consumed, n)
		}
		for i := len(consumed) - 1; i >= 0; i-- {
			f.s.UnreadChar(consumed[i])
		}
		return false
	}
}

// expectOpenParen skips leading space and consumes '(' if present.
func (f *frame) expectOpenParen() bool {
	f.skipSpaces()
	c := f.s.ReadChar()
	if c == '(' {
		f.tr.Advance(c)
		return true
	}
	if c != eofRune {
		f.s.UnreadChar(c)
	}
	return false
}

// readMacroArgs reads actual arguments up to the matching ')' (the
// opening '(' already consumed), bracket-balanced and splitting on
// top-level commas, with strings/character literals scanned
// transparently so their contents never split an argument (§4.D step 3).
func (f *frame) readMacroArgs() ([]string, *Error) {
	var args []string
	var cur strings.Builder
	depth := 0
	for {
		c := f.s.ReadChar()
		if c == eofRune {
			return nil, &Error{Kind: ErrArgsUnterminated, Message: "unterminated macro argument list"}
		}
		f.tr.Advance(c)
		switch c {
		case '"', '\'':
			cur.WriteRune(c)
			if !f.copyLiteralInto(&cur, c) {
				return nil, &Error{Kind: ErrArgsUnterminated, Message: "unterminated string/character literal in macro argument"}
			}
		case '(', '[', '{':
			depth++
			cur.WriteRune(c)
		case ')':
			if depth == 0 {
				args = append(args, cur.String())
				return args, nil
			}
			depth--
			cur.WriteRune(c)
		case ']', '}':
			depth--
			cur.WriteRune(c)
		case ',':
			if depth == 0 {
				args = append(args, cur.String())
				cur.Reset()
			} else {
				cur.WriteRune(c)
			}
		default:
			cur.WriteRune(c)
		}
	}
}

// copyLiteralInto copies a string/character literal body (the opening
// quote already written to dst) through to its closing quote, honoring
// backslash escapes, returning false if EOF or a newline is hit first.
func (f *frame) copyLiteralInto(dst *strings.Builder, quote rune) bool {
	for {
		c := f.s.ReadChar()
		if c == eofRune || c == '\n' {
			if c == '\n' {
				f.s.UnreadChar(c)
			}
			return false
		}
		f.tr.Advance(c)
		dst.WriteRune(c)
		if c == '\\' {
			n := f.s.ReadChar()
			if n == eofRune {
				return false
			}
			f.tr.Advance(n)
			dst.WriteRune(n)
			continue
		}
		if c == quote {
			return true
		}
	}
}
