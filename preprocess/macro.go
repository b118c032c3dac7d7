package preprocess

import (
	"strings"

	"github.com/ruc-toolchain/rucc/internal/symtab"
)

// pieceKind tags one element of an encoded macro body (§4.D step 3).
type pieceKind int

const (
	pieceLiteral pieceKind = iota
	pieceArg               // plain argument placeholder -> expanded form
	pieceStringize         // #NAME_i -> stringized form
	piecePaste             // argument touching ## -> raw form
)

// piece is one element of an encoded macro body.
type piece struct {
	kind  pieceKind
	text  string // literal text, for pieceLiteral
	param int    // parameter index, for the other three kinds
}

// Macro is a macro definition: its arity, whether it was declared
// function-like (parens immediately after the name, even with zero
// parameters), its parameter names, and its body pre-encoded into
// literal/argument/stringize/paste pieces (§3's "Macro" entity).
type Macro struct {
	Name         string
	FunctionLike bool
	Params       []string
	Body         []piece
}

// argForms holds the three encoded forms of one actual argument built
// during macro invocation (§4.D step 3): the bytes as read, the fully
// re-preprocessed expansion, and the stringized (quoted+escaped)
// expansion.
type argForms struct {
	raw        string
	expanded   string
	stringized string
}

// encodeBody pre-encodes a macro body at #define time into literal runs
// plus argument/stringize/paste placeholders (§4.D step 3). params maps
// parameter name -> index; nil/empty for object-like (arity-0) macros,
// in which case '#' and '##' are left as ordinary literal characters
// (there is no parameter for them to operate on).
func encodeBody(body string, params []string) ([]piece, *Error) {
	if len(params) == 0 {
		return []piece{{kind: pieceLiteral, text: body}}, nil
	}
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}

	var pieces []piece
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			pieces = append(pieces, piece{kind: pieceLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	runes := []rune(body)
	n := len(runes)
	i := 0

	// pasteNext marks that the next argument placeholder produced (if
	// any) sits immediately after a "##" and must bind its raw form
	// rather than its expanded one. Literal text needs no such marking:
	// since it is never flushed across an unflushed "##", adjacent
	// literal-to-literal pastes concatenate automatically.
	pasteNext := false

	for i < n {
		c := runes[i]

		switch {
		case c == '#' && i+1 < n && runes[i+1] == '#':
			if len(pieces) == 0 && lit.Len() == 0 {
				return nil, &Error{Kind: ErrHashOnEdge, Message: "## may not appear at the start of a macro body"}
			}
			rest := strings.TrimLeft(string(runes[i+2:]), " \t")
			if rest == "" {
				return nil, &Error{Kind: ErrHashOnEdge, Message: "## may not appear at the end of a macro body"}
			}
			if lit.Len() == 0 && len(pieces) > 0 && pieces[len(pieces)-1].kind == pieceArg {
				pieces[len(pieces)-1].kind = piecePaste
			}
			pasteNext = true
			i += 2

		case c == '#':
			flushLit()
			j := i + 1
			for j < n && (runes[j] == ' ' || runes[j] == '\t') {
				j++
			}
			name, end, ok := scanIdentAt(runes, j)
			if !ok {
				return nil, &Error{Kind: ErrHashNotFollowed, Message: "'#' must be followed by a parameter name"}
			}
			idx, isParam := index[name]
			if !isParam {
				return nil, &Error{Kind: ErrHashNotFollowed, Message: "'#' must be followed by a parameter name, got " + name}
			}
			pieces = append(pieces, piece{kind: pieceStringize, param: idx})
			pasteNext = false
			i = end

		case isIdentStartRune(c):
			name, end, _ := scanIdentAt(runes, i)
			if idx, isParam := index[name]; isParam {
				flushLit()
				kind := pieceArg
				if pasteNext {
					kind = piecePaste
				}
				pieces = append(pieces, piece{kind: kind, param: idx})
			} else {
				lit.WriteString(name)
			}
			pasteNext = false
			i = end

		default:
			lit.WriteRune(c)
			pasteNext = false
			i++
		}
	}
	flushLit()

	return pieces, nil
}

func isIdentStartRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentContRune(r rune) bool {
	return isIdentStartRune(r) || (r >= '0' && r <= '9')
}

// scanIdentAt reads one identifier starting at runes[i], returning its
// text, the index just past it, and whether one was present at all.
func scanIdentAt(runes []rune, i int) (string, int, bool) {
	if i >= len(runes) || !isIdentStartRune(runes[i]) {
		return "", i, false
	}
	j := i + 1
	for j < len(runes) && isIdentContRune(runes[j]) {
		j++
	}
	return string(runes[i:j]), j, true
}

// stringize quotes s per §4.D step 3 bullet 1 / §8 I3: the expanded
// argument wrapped in double quotes, with '"' and '\' escaped.
func stringize(s string) string {
	return `"` + escapeForStringize(s) + `"`
}

// substitute streams a macro's encoded body through to text, given the
// computed forms for each of its arguments (§4.D step 4).
func substitute(body []piece, forms []argForms) string {
	var sb strings.Builder
	for _, p := range body {
		switch p.kind {
		case pieceLiteral:
			sb.WriteString(p.text)
		case pieceArg:
			if p.param < len(forms) {
				sb.WriteString(forms[p.param].expanded)
			}
		case pieceStringize:
			if p.param < len(forms) {
				sb.WriteString(forms[p.param].stringized)
			}
		case piecePaste:
			if p.param < len(forms) {
				sb.WriteString(forms[p.param].raw)
			}
		}
	}
	return sb.String()
}

// macroTable owns macro definitions. Macro names pass through the
// shared symtab.Table (component C) as ordinary identifier handles
// during body scanning and #define/#undef processing, so this table
// keys by symtab.Handle rather than by name string. The structured
// Macro value, with its encoded body pieces, is held here since a
// symtab entry's int/string payload arrays have no slot shaped for it.
type macroTable struct {
	defs map[symtab.Handle]*Macro
}

func newMacroTable() *macroTable {
	return &macroTable{defs: make(map[symtab.Handle]*Macro)}
}

func (mt *macroTable) lookup(h symtab.Handle) (*Macro, bool) {
	m, ok := mt.defs[h]
	return m, ok
}

// define installs m under h, reporting whether a live macro by this
// handle already existed (the caller decides whether that's an error
// per §7 MACRO_NAME_REDEFINE, or an intentional #set replacement).
func (mt *macroTable) define(h symtab.Handle, m *Macro) (hadPrevious bool) {
	_, hadPrevious = mt.defs[h]
	mt.defs[h] = m
	return hadPrevious
}

func (mt *macroTable) undefine(h symtab.Handle) {
	delete(mt.defs, h)
}
