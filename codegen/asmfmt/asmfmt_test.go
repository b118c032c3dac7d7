package asmfmt

import (
	"strings"
	"testing"

	"github.com/ruc-toolchain/rucc/codegen"
)

func sampleLines() []codegen.Line {
	return []codegen.Line{
		{Label: "FUNC0"},
		{Mnemonic: "sw", Operands: []string{"$ra", "-4($fp)"}},
		{Mnemonic: "addi", Operands: []string{"$t0", "$zero", "1"}},
		{Mnemonic: "jr", Operands: []string{"$ra"}},
	}
}

func TestDefaultFormatAlignsOperandColumn(t *testing.T) {
	out := Format(sampleLines(), DefaultOptions())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "FUNC0:" {
		t.Errorf("got %q, want label line unchanged", lines[0])
	}
	if !strings.HasPrefix(lines[1], "        sw") {
		t.Errorf("got %q, want mnemonic at instruction column", lines[1])
	}
}

func TestCompactFormatHasNoColumnPadding(t *testing.T) {
	out := Format(sampleLines(), CompactOptions())
	if strings.Contains(out, "  ") {
		t.Errorf("compact output should not contain multi-space padding: %q", out)
	}
}

// TestPresetsPreserveMnemonicAndOperandContent verifies Compact and
// Expanded differ only in whitespace, not in the underlying content
// (mnemonic and operand tokens), by re-splitting each line on
// whitespace/commas and comparing token sequences.
func TestPresetsPreserveMnemonicAndOperandContent(t *testing.T) {
	lines := sampleLines()
	compact := tokenize(Format(lines, CompactOptions()))
	expanded := tokenize(Format(lines, ExpandedOptions()))

	if len(compact) != len(expanded) {
		t.Fatalf("token count mismatch: compact=%d expanded=%d", len(compact), len(expanded))
	}
	for i := range compact {
		if compact[i] != expanded[i] {
			t.Errorf("token %d: compact=%q expanded=%q", i, compact[i], expanded[i])
		}
	}
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, ":", " : ")
	return strings.Fields(s)
}
