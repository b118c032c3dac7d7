// Package preprocess implements the macro preprocessor (component D):
// directive engine and macro expander layered on the character I/O,
// location tracker, and symbol storage components.
package preprocess

import (
	"github.com/ruc-toolchain/rucc/internal/srcloc"
	"github.com/ruc-toolchain/rucc/internal/stream"
	"github.com/ruc-toolchain/rucc/internal/symtab"
)

const (
	maxIncludeDepth        = 32
	maxCallDepth           = 256
	maxExpansionIterations = 32768

	// unboundedIterations marks a run() call that scans a whole
	// file-backed translation unit (the top-level entry and each
	// #include) rather than one nested macro re-expansion. Those scans
	// are naturally bounded by EOF and need no iteration cap; only a
	// single expansion step (reExpandText's nested run) is bounded by
	// maxExpansionIterations, per §3/I10.
	unboundedIterations = -1
)

// IncludeResolver resolves `#include` paths to file content, separating
// the quoted ("internal") and angle-bracket ("external") search rules
// the directive distinguishes (§4.D).
type IncludeResolver interface {
	ResolveInternal(path string) (content []byte, resolvedName string, err error)
	ResolveExternal(path string) (content []byte, resolvedName string, err error)
}

// MacroRef records one site where a macro name was seen: either its
// #define/#set (Definition true) or an invocation that expanded it
// (Definition false). xref builds its macro cross-reference report
// from the sequence MacroRefs returns.
type MacroRef struct {
	Name       string
	Loc        srcloc.Location
	Definition bool
}

// Preprocessor runs the directive engine and macro expander over one
// translation unit. The zero value is not usable; construct with New.
type Preprocessor struct {
	s        *stream.Stream
	syms     *symtab.Table
	macros   *macroTable
	Errors   *ErrorList
	Resolver IncludeResolver

	includeDepth int
	callDepth    int

	refs []MacroRef
}

// MacroRefs returns every definition and expansion site recorded so
// far, in the order encountered.
func (p *Preprocessor) MacroRefs() []MacroRef {
	return p.refs
}

// New creates a Preprocessor. resolver may be nil if the translation
// unit is known not to use #include.
func New(resolver IncludeResolver) *Preprocessor {
	return &Preprocessor{
		syms:     symtab.New(),
		macros:   newMacroTable(),
		Errors:   &ErrorList{},
		Resolver: resolver,
	}
}

// Define pre-installs an object-like macro before processing begins,
// for driver-supplied command-line definitions. The name is interned
// into the shared symtab.Table exactly as a #define name would be, so
// a -D macro resolves to the same kind of handle as one seen in source.
func (p *Preprocessor) Define(name, body string) {
	encoded, _ := encodeBody(body, nil)
	h := p.syms.Lookup(name)
	if h == symtab.NotFound {
		sink := stream.NewMemorySink([]byte(name))
		tmp := stream.New(sink)
		h, _ = p.syms.Add(tmp)
	}
	p.macros.define(h, &Macro{Name: name, Body: encoded})
}

// ProcessFile preprocesses fileName/content as the top-level
// translation unit and returns the expanded text.
func (p *Preprocessor) ProcessFile(fileName string, content []byte) string {
	p.s = stream.New(stream.NewFileSink(fileName, content))
	f := &frame{s: p.s, tr: srcloc.NewTracker(fileName)}
	p.run(f, unboundedIterations)
	return p.s.Output()
}

func (p *Preprocessor) err(f *frame, kind ErrorKind, message string) {
	loc := f.here()
	p.Errors.AddError(loc, kind, message)
}

func (p *Preprocessor) errAt(f *frame, kind ErrorKind, message string) {
	p.err(f, kind, message)
}

func (p *Preprocessor) warn(f *frame, kind WarningKind, message string) {
	p.Errors.AddWarning(f.here(), kind, message)
}

// run is the main character-driven loop: it consumes f's active input
// to EOF, writing expanded output to the shared stream (§4.D, §6).
// budget caps the number of characters this single call may read,
// enforcing §3/I10's "any single expansion step <= 32768 iterations".
// Pass unboundedIterations for a whole-file scan (the top-level
// translation unit or an #include'd file): it's already finite at EOF
// and isn't "an expansion step" in the sense I10 means. Nested
// re-expansion (reExpandText) passes a fresh maxExpansionIterations
// budget scoped to exactly that call.
func (p *Preprocessor) run(f *frame, budget int) {
	atLineStart := true
	bounded := budget >= 0
	start := f.s.Position()

	for {
		if bounded && f.s.Position()-start > budget {
			p.err(f, ErrExpansionIterations, "expansion step exceeded the per-step iteration bound")
			return
		}

		c := f.s.ReadChar()
		if c == eofRune {
			return
		}

		switch {
		case c == ' ' || c == '\t':
			f.tr.Advance(c)
			f.s.WriteByte(byte(c))

		case c == '\n':
			f.tr.Advance(c)
			f.s.WriteByte('\n')
			atLineStart = true

		case c == '\\' && f.peekIs('\n'):
			f.s.ReadChar()
			f.tr.Advance('\\')
			f.tr.Advance('\n')
			// Splice: neither character reaches the output.

		case atLineStart && c == '#':
			f.tr.Advance(c)
			f.skipSpaces()
			p.handleDirective(f)
			f.s.WriteByte('\n')
			atLineStart = true

		case c == '/' && f.peekIs('/'):
			f.s.ReadChar()
			f.tr.Advance('/')
			f.tr.Advance('/')
			for {
				n := f.s.ReadChar()
				if n == eofRune || n == '\n' {
					if n == '\n' {
						f.s.UnreadChar(n)
					}
					break
				}
				f.tr.Advance(n)
			}
			atLineStart = false

		case c == '/' && f.peekIs('*'):
			f.s.ReadChar()
			f.tr.Advance('/')
			f.tr.Advance('*')
			text, multiline := f.scanBlockCommentBody()
			if multiline {
				f.s.WriteString(blankNonNewlines(text))
			} else {
				f.s.WriteString("/*" + text + "*/")
			}
			atLineStart = false

		case c == '"' || c == '\'':
			f.tr.Advance(c)
			f.s.WriteByte(byte(c))
			if !f.copyLiteralToOutput(p, c) {
				p.err(f, ErrStringUnterminated, "unterminated string/character literal")
			}
			atLineStart = false

		case isIdentStartRune(c):
			f.s.UnreadChar(c)
			name, h, _ := f.readDirectiveName(p.syms)
			if !p.tryExpand(f, name, h) {
				f.s.WriteString(name)
			}
			atLineStart = false

		default:
			f.tr.Advance(c)
			f.s.WriteByte(byte(c))
			atLineStart = false
		}
	}
}

// peekIs reports whether the next character equals want, pushing it
// back either way.
func (f *frame) peekIs(want rune) bool {
	c := f.s.ReadChar()
	if c != eofRune {
		f.s.UnreadChar(c)
	}
	return c == want
}

// copyLiteralToOutput mirrors copyLiteralInto but writes straight to
// the shared output rather than an argument-scanning buffer.
func (f *frame) copyLiteralToOutput(p *Preprocessor, quote rune) bool {
	for {
		c := f.s.ReadChar()
		if c == eofRune || c == '\n' {
			if c == '\n' {
				f.s.UnreadChar(c)
			}
			return false
		}
		f.tr.Advance(c)
		f.s.WriteByte(byte(c))
		if c == '\\' {
			n := f.s.ReadChar()
			if n == eofRune {
				return false
			}
			f.tr.Advance(n)
			f.s.WriteByte(byte(n))
			continue
		}
		if c == quote {
			return true
		}
	}
}

// tryExpand attempts to treat name as a macro invocation per §4.D's
// "Macro invocation" steps. Returns false if name is not a live macro,
// in which case the caller writes it through literally.
func (p *Preprocessor) tryExpand(f *frame, name string, h symtab.Handle) bool {
	m, ok := p.macros.lookup(h)
	if !ok {
		return false
	}
	p.refs = append(p.refs, MacroRef{Name: name, Loc: f.here()})

	if p.callDepth >= maxCallDepth {
		p.err(f, ErrCallDepth, "macro call depth exceeds limit expanding "+name)
		f.s.WriteString(name)
		return true
	}

	p.callDepth++
	defer func() { p.callDepth-- }()

	var forms []argForms
	if len(m.Params) == 0 {
		f.tryConsumeEmptyParens()
	} else {
		if !f.expectOpenParen() {
			p.err(f, ErrArgsRequires, "macro "+name+" requires arguments")
			f.s.WriteString(name)
			return true
		}
		rawArgs, aerr := f.readMacroArgs()
		if aerr != nil {
			p.errAt(f, aerr.Kind, aerr.Message)
			return true
		}
		if len(rawArgs) < len(m.Params) {
			p.err(f, ErrArgsRequires, "too few arguments passed to macro "+name)
			return true
		}
		if len(rawArgs) > len(m.Params) {
			p.err(f, ErrArgsPassed, "too many arguments passed to macro "+name)
			return true
		}
		forms = make([]argForms, len(rawArgs))
		for i, raw := range rawArgs {
			forms[i].raw = raw
			forms[i].expanded = p.reExpandText(raw, f)
			forms[i].stringized = stringize(forms[i].expanded)
		}
	}

	f.tr.UpdateBegin()
	substituted := substitute(m.Body, forms)
	result := p.reExpandText(substituted, f)
	f.s.WriteString(result)
	f.tr.UpdateEnd()
	return true
}

// reExpandText fully preprocesses text in a fresh nested scope, per
// §4.D step 5 / §9's recursive re-entrancy model, and returns the
// resulting expansion without touching the caller's accumulated output.
func (p *Preprocessor) reExpandText(text string, f *frame) string {
	sink := stream.NewMemorySink([]byte(text))
	loc := f.here()
	nf := &frame{s: p.s, tr: srcloc.NewTracker(""), prevLoc: &loc}
	return p.withNestedInput(sink, func() { p.run(nf, maxExpansionIterations) })
}

// runIncluded preprocesses an included file's content in a fresh nested
// scope and appends its output directly, interleaved between blank
// lines (§4.D, §6). Its own depth is bounded by maxIncludeDepth in
// doInclude, not by the per-expansion-step iteration cap: a whole
// included file is a translation unit in its own right, not "a single
// expansion step."
func (p *Preprocessor) runIncluded(name string, content []byte, f *frame) {
	sink := stream.NewFileSink(name, content)
	loc := f.here()
	nf := &frame{s: p.s, tr: srcloc.NewTracker(name), prevLoc: &loc}
	out := p.withNestedInput(sink, func() { p.run(nf, unboundedIterations) })
	f.s.WriteString(out)
}

// withNestedInput swaps in sink as the active input, isolates the
// output buffer so body's writes don't interleave with the caller's
// already-accumulated output, runs body, then restores both: the
// "swap" operation component A specifies, applied to both halves of
// the stream (§4.A, §5).
func (p *Preprocessor) withNestedInput(sink *stream.Sink, body func()) string {
	prevIn := p.s.SwapInput(sink)
	prevOut := p.s.ExtractBuffer()
	body()
	nested := p.s.ExtractBuffer()
	p.s.SwapInput(prevIn)
	p.s.WriteString(prevOut)
	return nested
}
