// Package asmfmt pretty-prints the code generator's emitted instruction
// stream. Unlike a source formatter, it never re-parses the generator's
// output text: it consumes the generator's own codegen.Line records
// (label, mnemonic, operand list) and lays them out in columns.
package asmfmt

import (
	"strings"

	"github.com/ruc-toolchain/rucc/codegen"
)

// Style selects a column-width preset.
type Style int

const (
	Default Style = iota
	Compact
	Expanded
)

// Options controls column placement and alignment.
type Options struct {
	Style             Style
	InstructionColumn int
	OperandColumn     int
	AlignOperands     bool
}

// DefaultOptions lays mnemonics out at column 8 and operands at column 16.
func DefaultOptions() *Options {
	return &Options{
		Style:             Default,
		InstructionColumn: 8,
		OperandColumn:     16,
		AlignOperands:     true,
	}
}

// CompactOptions packs everything onto one line with single-space
// separators and no column alignment.
func CompactOptions() *Options {
	return &Options{Style: Compact}
}

// ExpandedOptions widens the default columns for extra legibility.
func ExpandedOptions() *Options {
	opts := DefaultOptions()
	opts.Style = Expanded
	opts.InstructionColumn = 12
	opts.OperandColumn = 28
	return opts
}

// Format lays out lines according to opts. A nil opts uses DefaultOptions.
func Format(lines []codegen.Line, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}

	var out strings.Builder
	for _, ln := range lines {
		if ln.Label != "" {
			out.WriteString(ln.Label)
			out.WriteString(":\n")
			continue
		}
		formatInstruction(&out, ln, opts)
	}
	return out.String()
}

func formatInstruction(out *strings.Builder, ln codegen.Line, opts *Options) {
	line := strings.Builder{}

	if opts.Style == Compact {
		line.WriteString(ln.Mnemonic)
		if len(ln.Operands) > 0 {
			line.WriteString(" ")
			line.WriteString(strings.Join(ln.Operands, ","))
		}
		out.WriteString(line.String())
		out.WriteString("\n")
		return
	}

	padToColumn(&line, opts.InstructionColumn)
	line.WriteString(ln.Mnemonic)

	if len(ln.Operands) > 0 {
		if opts.AlignOperands {
			padToColumn(&line, opts.OperandColumn)
		} else {
			line.WriteString(" ")
		}
		line.WriteString(strings.Join(ln.Operands, ", "))
	}

	out.WriteString(line.String())
	out.WriteString("\n")
}

func padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	switch {
	case current < column:
		sb.WriteString(strings.Repeat(" ", column-current))
	case current == column:
	default:
		sb.WriteString(" ")
	}
}
