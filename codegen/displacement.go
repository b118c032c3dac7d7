package codegen

import "github.com/ruc-toolchain/rucc/ast"

// DispEntry is one identifier's storage location (§3's "Displacement
// entry" and §4.F).
type DispEntry struct {
	OnStack bool
	Base    string // physical register name: "$sp", "$gp", or an argument register
	Offset  int    // signed byte offset from Base when OnStack
	Typ     *ast.Type
}

// IdentRef records one site where an identifier's displacement entry
// was touched: its declaration (Definition true) or a lookup during
// expression/statement lowering. codegen has no source-position
// tracking of its own, so sites are ordered by Seq, the table's running
// touch count, rather than by file/line; xref renders them in that
// order.
type IdentRef struct {
	Name       string
	Seq        int
	Definition bool
}

// DisplacementTable maps identifier names to their storage location
// within the function currently being emitted, plus the running local
// frame size (§4.F: "keyed by identifier handle; values updated on
// variable declaration"). This core keys by name directly rather than
// by a symtab.Handle, since ast.Identifier already carries the name and
// no handle allocator sits between the AST and codegen for it.
type DisplacementTable struct {
	entries  map[string]DispEntry
	maxDispl int // running total of locals allocated so far, in bytes

	refs []IdentRef
	seq  int
}

// NewDisplacementTable returns an empty table.
func NewDisplacementTable() *DisplacementTable {
	return &DisplacementTable{entries: make(map[string]DispEntry)}
}

// touch appends one IdentRef and advances the table's sequence counter.
func (dt *DisplacementTable) touch(name string, definition bool) {
	dt.seq++
	dt.refs = append(dt.refs, IdentRef{Name: name, Seq: dt.seq, Definition: definition})
}

// Refs returns every declaration and lookup recorded so far, in the
// order they were touched.
func (dt *DisplacementTable) Refs() []IdentRef {
	return dt.refs
}

// wordSize is one machine word on this MIPS-like target.
const wordSize = 4

// DeclareLocal allocates the next stack slot for a local variable,
// growing maxDispl by the type's word-size footprint, and records its
// entry with base "$sp".
func (dt *DisplacementTable) DeclareLocal(name string, typ *ast.Type) DispEntry {
	size := typ.Size() * wordSize
	dt.maxDispl += size
	e := DispEntry{OnStack: true, Base: "$sp", Offset: -dt.maxDispl, Typ: typ}
	dt.entries[name] = e
	dt.touch(name, true)
	return e
}

// DeclareGlobal records a global variable's entry, based off "$gp" per
// §4.F. Globals don't consume frame-local displacement budget.
func (dt *DisplacementTable) DeclareGlobal(name string, typ *ast.Type) DispEntry {
	e := DispEntry{OnStack: true, Base: "$gp", Offset: 0, Typ: typ}
	dt.entries[name] = e
	dt.touch(name, true)
	return e
}

// argRegs are the physical argument registers parameters are bound to
// when they fit the 4-register convention (§4.F, §4.I).
var argRegs = [4]string{"$a0", "$a1", "$a2", "$a3"}

// DeclareParam records a function parameter. Parameters within the
// 4-register convention (idx < 4) are marked OnStack = false, with
// Base naming the physical argument register directly; the rest spill
// to the stack like ordinary locals, based off "$sp" at the incoming
// argument-slot offsets the caller already set up.
func (dt *DisplacementTable) DeclareParam(name string, typ *ast.Type, idx int) DispEntry {
	var e DispEntry
	if idx < len(argRegs) {
		e = DispEntry{OnStack: false, Base: argRegs[idx], Typ: typ}
	} else {
		e = DispEntry{OnStack: true, Base: "$sp", Offset: idx * wordSize, Typ: typ}
	}
	dt.entries[name] = e
	dt.touch(name, true)
	return e
}

// Lookup returns name's displacement entry.
func (dt *DisplacementTable) Lookup(name string) (DispEntry, bool) {
	e, ok := dt.entries[name]
	if ok {
		dt.touch(name, false)
	}
	return e, ok
}

// MaxDispl returns the function's locals footprint so far, in bytes.
func (dt *DisplacementTable) MaxDispl() int {
	return dt.maxDispl
}

// snapshot captures enough of the table's mutable state to restore it
// after a nested scope closes (§4.H's Compound lowering: "save
// displacement, emit children, restore").
type snapshot struct {
	entries  map[string]DispEntry
	maxDispl int
}

// Save returns a snapshot of the current scope's entries, to be
// restored by Restore once a nested block's locals go out of scope.
// maxDispl is deliberately NOT restored: stack slots already handed out
// to a now-closed inner block are never reused by a later sibling
// block in this generator, a never-shrink frame discipline.
func (dt *DisplacementTable) Save() snapshot {
	cp := make(map[string]DispEntry, len(dt.entries))
	for k, v := range dt.entries {
		cp[k] = v
	}
	return snapshot{entries: cp, maxDispl: dt.maxDispl}
}

// Restore reinstates the name bindings from s, dropping any declared
// within the block that just closed while keeping the frame's
// maxDispl growth.
func (dt *DisplacementTable) Restore(s snapshot) {
	dt.entries = s.entries
}
