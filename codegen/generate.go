package codegen

import "github.com/ruc-toolchain/rucc/ast"

// Generate lowers prog to MIPS-like assembly text in one shot, for
// callers that don't need access to the Emitter's intermediate state.
func Generate(prog *ast.Program) (string, error) {
	e := NewEmitter()
	if err := e.Emit(prog); err != nil {
		return "", err
	}
	return e.Output(), nil
}

// GenerateEmitter lowers prog and returns the Emitter that produced it,
// for callers (the compile-session service) that also want the
// Lines()/IdentRefs() a finished asmfmt/lint/xref pass needs.
func GenerateEmitter(prog *ast.Program) (*Emitter, error) {
	e := NewEmitter()
	if err := e.Emit(prog); err != nil {
		return nil, err
	}
	return e, nil
}
