package codegen

import (
	"github.com/ruc-toolchain/rucc/ast"
	"github.com/ruc-toolchain/rucc/codegen/reg"
)

// LvalueKind tags an Lvalue's storage shape (§3).
type LvalueKind int

const (
	LvalueStack LvalueKind = iota
	LvalueRegister
)

// Lvalue is an addressable location: either a stack-relative slot
// (Base + Displ) or a register holding the value directly (the case
// for an argument-convention parameter bound straight to one of
// $a0-$a3 — no memory access is needed to read or write it).
type Lvalue struct {
	Kind    LvalueKind
	Base    string // physical register name backing a stack-relative access
	Displ   int    // signed offset from Base, meaningful when Kind == LvalueStack
	RegName string // physical register name holding the value, when Kind == LvalueRegister
	Typ     *ast.Type
}

// RvalueKind tags an Rvalue's shape (§3).
type RvalueKind int

const (
	RvalueConst RvalueKind = iota
	RvalueRegister
	RvalueVoid
)

// Rvalue is a computed value: a compile-time constant, a value held in
// a register, or void (statement-context expressions with no value).
type Rvalue struct {
	Kind       RvalueKind
	Typ        *ast.Type
	FromLvalue bool // true iff Reg aliases a named variable's home register
	IntVal     int64
	FloatVal   float64
	StrIdx     int // string table index, valid when Typ is a string/char* constant
	Reg        reg.Register
	// RegName, when non-empty, names a physical register directly
	// (an argument-convention parameter bound to one of $a0-$a3)
	// and takes precedence over Reg.Name() — such a register was never
	// allocated from the bank, so FreeRvalue must never be asked to
	// free it via Reg.
	RegName string
}

// Name returns the physical register name a RvalueRegister rv is held
// in.
func (rv Rvalue) Name() string {
	if rv.RegName != "" {
		return rv.RegName
	}
	return rv.Reg.Name()
}

// AsFreeable adapts rv to the shape codegen/reg.File.FreeRvalue needs,
// translating this package's RvalueKind into reg.RvalueKind.
func (rv Rvalue) AsFreeable() reg.Freeable {
	var k reg.RvalueKind
	switch rv.Kind {
	case RvalueRegister:
		k = reg.RvalueRegister
	case RvalueVoid:
		k = reg.RvalueVoid
	default:
		k = reg.RvalueConst
	}
	return reg.Freeable{Kind: k, Reg: rv.Reg, FromLvalue: rv.FromLvalue}
}
