// Package xref builds a cross-reference report over one compile: every
// macro name the preprocessor defined or expanded, and every
// identifier the code generator's displacement table declared or
// looked up, each with its definition site and every reference site
// that followed.
package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruc-toolchain/rucc/codegen"
	"github.com/ruc-toolchain/rucc/preprocess"
)

// Kind distinguishes what a Symbol names.
type Kind int

const (
	KindMacro Kind = iota
	KindIdentifier
)

func (k Kind) String() string {
	if k == KindMacro {
		return "macro"
	}
	return "identifier"
}

// Reference is one site a symbol's name was seen. Macro sites carry a
// real source position (preprocess.Preprocessor tracks one); codegen
// tracks no source position of its own, so identifier sites are a
// emission-order ordinal instead.
type Reference struct {
	Location string
}

// Symbol is a macro or displacement-table identifier together with its
// definition site, if seen, and every reference site that followed.
type Symbol struct {
	Name       string
	Kind       Kind
	Definition *Reference
	References []*Reference
}

// Generator accumulates Symbols across one or more preprocessor runs
// and displacement tables.
type Generator struct {
	symbols map[string]*Symbol
}

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{symbols: make(map[string]*Symbol)}
}

// AddMacros folds in every definition and expansion site recorded by a
// preprocess.Preprocessor run.
func (g *Generator) AddMacros(refs []preprocess.MacroRef) {
	for _, r := range refs {
		sym := g.symbolFor(r.Name, KindMacro)
		ref := &Reference{Location: r.Loc.String()}
		if r.Definition {
			sym.Definition = ref
		} else {
			sym.References = append(sym.References, ref)
		}
	}
}

// AddIdentifiers folds in every declaration and lookup site recorded by
// a codegen.DisplacementTable.
func (g *Generator) AddIdentifiers(refs []codegen.IdentRef) {
	for _, r := range refs {
		sym := g.symbolFor(r.Name, KindIdentifier)
		ref := &Reference{Location: fmt.Sprintf("touch #%d", r.Seq)}
		if r.Definition {
			sym.Definition = ref
		} else {
			sym.References = append(sym.References, ref)
		}
	}
}

func (g *Generator) symbolFor(name string, kind Kind) *Symbol {
	key := kind.String() + ":" + name
	sym, ok := g.symbols[key]
	if !ok {
		sym = &Symbol{Name: name, Kind: kind}
		g.symbols[key] = sym
	}
	return sym
}

// Symbols returns every symbol collected so far, sorted by kind then
// name.
func (g *Generator) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(g.symbols))
	for _, sym := range g.symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Report renders symbols as a plain-text cross-reference listing.
func Report(symbols []*Symbol) string {
	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, sym := range symbols {
		sb.WriteString(fmt.Sprintf("%-24s [%s]\n", sym.Name, sym.Kind))

		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  Defined:    %s\n", sym.Definition.Location))
		} else {
			sb.WriteString("  Defined:    (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced: (never)\n")
		} else {
			locs := make([]string, len(sym.References))
			for i, r := range sym.References {
				locs[i] = r.Location
			}
			sb.WriteString(fmt.Sprintf("  Referenced: %s\n", strings.Join(locs, ", ")))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
