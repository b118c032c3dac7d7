// Package symtab implements the symbol storage component (component C):
// a string-keyed table addressed by integer handle, with per-handle
// integer and string payload arrays, and longest-match identifier reads
// performed directly against a stream.Stream.
package symtab

import (
	"unicode"

	"github.com/ruc-toolchain/rucc/internal/stream"
)

// Handle is an opaque integer reference into a Table. Handles are
// stable for the lifetime of the Table (never recycled on Undefine:
// callers that remove a macro just stop resolving its name to a live
// payload; §3 describes a macro as "destroyed by #undef or program exit").
type Handle int

// NotFound is returned by Search when the lexeme has no existing handle.
const NotFound Handle = -1

// entry is one handle's storage: the literal text it was created from,
// an integer payload array (macro arity/body-handle, etc.), and a
// string payload array (macro argument mask-key encodings, etc.).
type entry struct {
	name  string
	ints  []int
	args  []string
	alive bool
}

// Table is the symbol store. Keyword names registered via
// RegisterKeyword occupy a reserved low range of handles (§4.C).
type Table struct {
	entries  []entry
	index    map[string]Handle
	reserved int
	lastRead string
}

// New creates an empty Table.
func New() *Table {
	return &Table{index: make(map[string]Handle)}
}

// RegisterKeyword reserves a handle for a fixed keyword name. Must be
// called before any Add, so keywords occupy the low handle range.
func (t *Table) RegisterKeyword(name string) Handle {
	h := t.intern(name)
	if int(h)+1 > t.reserved {
		t.reserved = int(h) + 1
	}
	return h
}

// IsKeyword reports whether h falls in the reserved keyword range.
func (t *Table) IsKeyword(h Handle) bool {
	return h >= 0 && int(h) < t.reserved
}

func (t *Table) intern(name string) Handle {
	if h, ok := t.index[name]; ok {
		return h
	}
	h := Handle(len(t.entries))
	t.entries = append(t.entries, entry{name: name, alive: true})
	t.index[name] = h
	return h
}

// isIdentStart reports whether r can begin an identifier-shaped lexeme:
// a letter or underscore. Digits may not start one (§7's
// MACRO_NAME_FIRST_CHARACTER error exists precisely to enforce this for
// macro names; the same rule governs every identifier this store reads).
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// readLexeme scans the longest run of identifier characters directly
// off s, pushing back the first non-identifier character it sees.
// Returns "", false if the stream isn't positioned at an identifier.
func readLexeme(s *stream.Stream) (string, bool) {
	first := s.ReadChar()
	if first == stream.EOF || !isIdentStart(first) {
		if first != stream.EOF {
			s.UnreadChar(first)
		}
		return "", false
	}
	var b []rune
	b = append(b, first)
	for {
		c := s.ReadChar()
		if c == stream.EOF {
			break
		}
		if !isIdentCont(c) {
			s.UnreadChar(c)
			break
		}
		b = append(b, c)
	}
	return string(b), true
}

// Add reads an identifier-shaped lexeme from s and interns it, per
// §4.C. Returns (handle, true) if this is a fresh handle, or
// (existingHandle, false) if the name was already present ("not added
// (exists)"). The second return is false with handle == NotFound if s
// was not positioned at an identifier at all.
func (t *Table) Add(s *stream.Stream) (Handle, bool) {
	name, ok := readLexeme(s)
	if !ok {
		return NotFound, false
	}
	t.lastRead = name
	if h, exists := t.index[name]; exists {
		return h, false
	}
	return t.intern(name), true
}

// Search reads an identifier-shaped lexeme from s without adding it,
// returning its existing handle or NotFound.
func (t *Table) Search(s *stream.Stream) Handle {
	name, ok := readLexeme(s)
	if !ok {
		return NotFound
	}
	t.lastRead = name
	if h, exists := t.index[name]; exists {
		return h
	}
	return NotFound
}

// Lookup resolves a name already in hand (not read from a stream) to
// its handle, without recording LastRead.
func (t *Table) Lookup(name string) Handle {
	if h, exists := t.index[name]; exists {
		return h
	}
	return NotFound
}

// LastRead returns the most recently scanned lexeme, for error
// reporting and for pass-through when a scanned identifier turns out
// not to be a macro name.
func (t *Table) LastRead() string {
	return t.lastRead
}

// Name returns the literal text a handle was interned from.
func (t *Table) Name(h Handle) string {
	if h < 0 || int(h) >= len(t.entries) {
		return ""
	}
	return t.entries[h].name
}

// Alive reports whether h still names a live definition (false after
// Undefine).
func (t *Table) Alive(h Handle) bool {
	if h < 0 || int(h) >= len(t.entries) {
		return false
	}
	return t.entries[h].alive
}

// Undefine marks h dead. The handle and its name interning remain (so a
// later redefinition reuses the same handle), but Alive(h) is now false
// and the name no longer resolves via Search/Add as "exists" for
// purposes callers should treat as a fresh definition.
func (t *Table) Undefine(h Handle) {
	if h < 0 || int(h) >= len(t.entries) {
		return
	}
	t.entries[h].alive = false
	t.entries[h].ints = nil
	t.entries[h].args = nil
}

// Redefine clears h's payload and marks it alive again, for #set's
// allow-redefinition semantics.
func (t *Table) Redefine(h Handle) {
	if h < 0 || int(h) >= len(t.entries) {
		return
	}
	t.entries[h].alive = true
	t.entries[h].ints = nil
	t.entries[h].args = nil
}

// GetByIndex returns the i'th integer payload slot for h.
func (t *Table) GetByIndex(h Handle, i int) (int, bool) {
	if h < 0 || int(h) >= len(t.entries) {
		return 0, false
	}
	ints := t.entries[h].ints
	if i < 0 || i >= len(ints) {
		return 0, false
	}
	return ints[i], true
}

// SetByIndex sets the i'th integer payload slot for h, growing the
// backing array as needed.
func (t *Table) SetByIndex(h Handle, i int, v int) {
	if h < 0 || int(h) >= len(t.entries) {
		return
	}
	e := &t.entries[h]
	for len(e.ints) <= i {
		e.ints = append(e.ints, 0)
	}
	e.ints[i] = v
}

// GetArgsByIndex returns the i'th string payload slot for h (the
// encoded raw/expanded/stringized forms bound to a macro-argument mask
// key, per §4.D step 4).
func (t *Table) GetArgsByIndex(h Handle, i int) (string, bool) {
	if h < 0 || int(h) >= len(t.entries) {
		return "", false
	}
	args := t.entries[h].args
	if i < 0 || i >= len(args) {
		return "", false
	}
	return args[i], true
}

// SetArgsByIndex sets the i'th string payload slot for h, growing the
// backing array as needed.
func (t *Table) SetArgsByIndex(h Handle, i int, v string) {
	if h < 0 || int(h) >= len(t.entries) {
		return
	}
	e := &t.entries[h]
	for len(e.args) <= i {
		e.args = append(e.args, "")
	}
	e.args[i] = v
}
