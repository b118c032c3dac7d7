// Package codegen implements the code generator's core (§4.E-I): the
// register bank, displacement table, and the expression/statement/
// function emitters that together lower a typed AST onto MIPS-like
// assembly text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ruc-toolchain/rucc/ast"
	"github.com/ruc-toolchain/rucc/codegen/reg"
)

// FuncInfo is what the emitter needs to know about a declared function
// to emit calls to it and, for the function being defined, its own
// prologue/epilogue.
type FuncInfo struct {
	Name   string
	Num    int // externally assigned FUNC/FUNCEND label number (§3)
	Ret    *ast.Type
	Params []ast.Param
}

// Line is one emitted output row: a label declaration, or an
// instruction with its mnemonic and operand list split out. asmfmt and
// lint consume these directly instead of re-parsing the text in Output.
type Line struct {
	Label    string
	Mnemonic string
	Operands []string
}

// Emitter walks an ast.Program and writes MIPS-like assembly text. It
// owns every piece of per-translation-unit state the components in
// §4.E-I share: the register bank, the label and string tables, and
// the function table; DisplacementTable is swapped per function being
// defined.
type Emitter struct {
	out   strings.Builder
	lines []Line

	Regs   *reg.File
	Labels *LabelTable
	Strs   *StringTable
	Disp   *DisplacementTable

	funcs    map[string]*FuncInfo
	funcSeq  int
	curFunc  *FuncInfo
	funcEnd  Label
	contTgt  []Label // continue targets, innermost last
	breakTgt []Label // break targets, innermost last

	// identRefs archives the IdentRefs of every DisplacementTable this
	// Emitter has swapped out (one per function body, per emitFunc),
	// since each table's own history is discarded with it. IdentRefs
	// appends the live table's refs on top of this before returning.
	identRefs []IdentRef

	// flagEmptyBounds is set by emitArrayDeclaration but never read back
	// anywhere (§9 open question: preserved as found, not wired up).
	flagEmptyBounds bool
}

// NewEmitter returns an Emitter ready to process a Program.
func NewEmitter() *Emitter {
	return &Emitter{
		Regs:   reg.New(),
		Labels: NewLabelTable(),
		Strs:   NewStringTable(),
		Disp:   NewDisplacementTable(),
		funcs:  make(map[string]*FuncInfo),
	}
}

// emit writes one assembly line, indented like a body instruction.
func (e *Emitter) emit(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	fmt.Fprintf(&e.out, "\t%s\n", text)
	e.lines = append(e.lines, parseInstrLine(text))
}

// label writes a label declaration line.
func (e *Emitter) label(l Label) {
	fmt.Fprintf(&e.out, "%s:\n", l)
	e.lines = append(e.lines, Line{Label: l.String()})
}

// raw writes text with no added indentation or trailing newline
// handling beyond what's passed in, for directives like ".rdata".
func (e *Emitter) raw(s string) {
	e.out.WriteString(s)
}

// Output returns the accumulated assembly text.
func (e *Emitter) Output() string {
	return e.out.String()
}

// Lines returns the structured record of every label and instruction
// emitted so far, in emission order.
func (e *Emitter) Lines() []Line {
	return e.lines
}

// IdentRefs returns every identifier declaration and lookup recorded
// across the whole translation unit: globals declared on the
// outermost table plus every per-function table archived as emitFunc
// swapped it back out.
func (e *Emitter) IdentRefs() []IdentRef {
	return append(append([]IdentRef{}, e.identRefs...), e.Disp.Refs()...)
}

// archiveDisp appends disp's recorded refs to the Emitter-wide
// history before it goes out of scope.
func (e *Emitter) archiveDisp(disp *DisplacementTable) {
	e.identRefs = append(e.identRefs, disp.Refs()...)
}

// parseInstrLine splits one already-formatted instruction line (as
// produced by emit, before indentation) into its mnemonic and
// comma-separated operands.
func parseInstrLine(text string) Line {
	parts := strings.SplitN(text, " ", 2)
	line := Line{Mnemonic: parts[0]}
	if len(parts) == 2 {
		for _, op := range strings.Split(parts[1], ",") {
			line.Operands = append(line.Operands, strings.TrimSpace(op))
		}
	}
	return line
}

// Emit lowers an entire program: it pre-registers every function
// signature (so forward calls resolve), emits each function with a
// body, then writes the string table those bodies filled.
func (e *Emitter) Emit(prog *ast.Program) error {
	for _, d := range prog.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			e.declareFunc(fd)
		}
	}
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			if n.Body != nil {
				if err := e.emitFunc(n); err != nil {
					return err
				}
			}
		case *ast.VarDecl:
			e.Disp.DeclareGlobal(n.Name, n.Typ)
		}
	}
	e.emitStringSection()
	return nil
}

func (e *Emitter) declareFunc(fd *ast.FuncDecl) *FuncInfo {
	if fi, ok := e.funcs[fd.Name]; ok {
		return fi
	}
	fi := &FuncInfo{Name: fd.Name, Num: e.funcSeq, Ret: fd.Ret, Params: fd.Params}
	e.funcSeq++
	e.funcs[fd.Name] = fi
	return fi
}

// emitStringSection writes the .rdata string table, one label per
// pre-split fragment, per §4.I.
func (e *Emitter) emitStringSection() {
	entries := e.Strs.Entries()
	if len(entries) == 0 {
		return
	}
	e.raw(".rdata\n")
	for _, se := range entries {
		for _, f := range se.Fragments {
			fmt.Fprintf(&e.out, "%s: .asciiz %q\n", f.label, f.text)
		}
	}
	e.raw(".text\n")
}

// floatTyp/intTyp/voidTyp are the canned scalar types expression
// lowerings that synthesize a new value (e.g. comparisons producing
// 0/1) stamp onto the resulting Rvalue.
var (
	intTyp   = &ast.Type{Kind: ast.TypeInt}
	floatTyp = &ast.Type{Kind: ast.TypeFloat}
	voidTyp  = &ast.Type{Kind: ast.TypeVoid}
)

func isFloatType(t *ast.Type) bool {
	return t != nil && t.Kind == ast.TypeFloat
}
