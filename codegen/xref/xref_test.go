package xref

import (
	"strings"
	"testing"

	"github.com/ruc-toolchain/rucc/ast"
	"github.com/ruc-toolchain/rucc/codegen"
	"github.com/ruc-toolchain/rucc/internal/srcloc"
	"github.com/ruc-toolchain/rucc/preprocess"
)

var intType = &ast.Type{Kind: ast.TypeInt}

func loc(file string, line, col int) srcloc.Location {
	return srcloc.Location{File: file, Line: line, Column: col}
}

func TestAddMacrosTracksDefinitionAndReferences(t *testing.T) {
	g := NewGenerator()
	g.AddMacros([]preprocess.MacroRef{
		{Name: "MAX", Loc: loc("a.c", 1, 1), Definition: true},
		{Name: "MAX", Loc: loc("a.c", 5, 10)},
		{Name: "MAX", Loc: loc("a.c", 9, 3)},
	})

	symbols := g.Symbols()
	if len(symbols) != 1 {
		t.Fatalf("got %d symbols, want 1", len(symbols))
	}
	sym := symbols[0]
	if sym.Kind != KindMacro || sym.Name != "MAX" {
		t.Fatalf("got %+v, want macro MAX", sym)
	}
	if sym.Definition == nil || sym.Definition.Location != "a.c:1:1" {
		t.Errorf("got definition %+v, want a.c:1:1", sym.Definition)
	}
	if len(sym.References) != 2 {
		t.Fatalf("got %d references, want 2", len(sym.References))
	}
}

func TestAddIdentifiersTracksDeclarationAndLookup(t *testing.T) {
	dt := codegen.NewDisplacementTable()
	dt.DeclareLocal("x", intType)
	dt.Lookup("x")
	dt.Lookup("x")

	g := NewGenerator()
	g.AddIdentifiers(dt.Refs())

	symbols := g.Symbols()
	if len(symbols) != 1 {
		t.Fatalf("got %d symbols, want 1", len(symbols))
	}
	sym := symbols[0]
	if sym.Kind != KindIdentifier || sym.Name != "x" {
		t.Fatalf("got %+v, want identifier x", sym)
	}
	if sym.Definition == nil {
		t.Fatal("got nil definition, want a declaration site")
	}
	if len(sym.References) != 2 {
		t.Fatalf("got %d references, want 2", len(sym.References))
	}
}

func TestSymbolsSortedByKindThenName(t *testing.T) {
	g := NewGenerator()
	g.AddMacros([]preprocess.MacroRef{
		{Name: "ZETA", Loc: loc("a.c", 1, 1), Definition: true},
		{Name: "ALPHA", Loc: loc("a.c", 2, 1), Definition: true},
	})
	dt := codegen.NewDisplacementTable()
	dt.DeclareLocal("count", intType)

	g.AddIdentifiers(dt.Refs())

	symbols := g.Symbols()
	var names []string
	for _, s := range symbols {
		names = append(names, s.Kind.String()+":"+s.Name)
	}
	want := []string{"macro:ALPHA", "macro:ZETA", "identifier:count"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, names[i], want[i])
		}
	}
}

func TestReportRendersDefinedAndUndefinedSymbols(t *testing.T) {
	g := NewGenerator()
	g.AddMacros([]preprocess.MacroRef{
		{Name: "MAX", Loc: loc("a.c", 1, 1), Definition: true},
		{Name: "UNUSED_BUT_EXPANDED", Loc: loc("a.c", 2, 1)},
	})

	out := Report(g.Symbols())
	if !strings.Contains(out, "MAX") || !strings.Contains(out, "a.c:1:1") {
		t.Errorf("report missing defined macro detail: %s", out)
	}
	if !strings.Contains(out, "(undefined)") {
		t.Errorf("report missing undefined marker for a macro with no recorded #define: %s", out)
	}
}
