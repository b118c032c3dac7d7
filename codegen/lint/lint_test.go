package lint

import (
	"testing"

	"github.com/ruc-toolchain/rucc/codegen"
)

func TestCheckCleanRunReportsNothing(t *testing.T) {
	lines := []codegen.Line{
		{Label: "FUNC0"},
		{Mnemonic: "addi", Operands: []string{"$t0", "$zero", "1"}},
		{Mnemonic: "j", Operands: []string{"END0"}},
		{Label: "END0"},
		{Mnemonic: "jr", Operands: []string{"$ra"}},
	}
	if issues := Check(lines); len(issues) != 0 {
		t.Errorf("got %v, want no issues", issues)
	}
}

func TestCheckFindsDuplicateLabel(t *testing.T) {
	lines := []codegen.Line{
		{Label: "ELSE0"},
		{Mnemonic: "addi", Operands: []string{"$t0", "$zero", "1"}},
		{Label: "ELSE0"},
	}
	issues := Check(lines)
	if len(issues) != 1 || issues[0].Code != CodeDuplicateLabel {
		t.Fatalf("got %v, want one DUPLICATE_LABEL issue", issues)
	}
	if issues[0].Level != LevelInternal {
		t.Errorf("got level %v, want LevelInternal", issues[0].Level)
	}
}

func TestCheckFindsUndefinedJumpTarget(t *testing.T) {
	lines := []codegen.Line{
		{Mnemonic: "j", Operands: []string{"END7"}},
	}
	issues := Check(lines)
	if len(issues) != 1 || issues[0].Code != CodeUndefinedTarget {
		t.Fatalf("got %v, want one UNDEFINED_JUMP_TARGET issue", issues)
	}
}

func TestCheckFindsUnreachableCodeAfterUnconditionalJump(t *testing.T) {
	lines := []codegen.Line{
		{Mnemonic: "j", Operands: []string{"END0"}},
		{Mnemonic: "addi", Operands: []string{"$t0", "$zero", "1"}},
		{Label: "END0"},
	}
	issues := Check(lines)
	if len(issues) != 1 || issues[0].Code != CodeUnreachable {
		t.Fatalf("got %v, want one UNREACHABLE_CODE issue", issues)
	}
}

func TestCheckJrOperandNeverTreatedAsJumpTarget(t *testing.T) {
	lines := []codegen.Line{
		{Mnemonic: "jr", Operands: []string{"$ra"}},
	}
	if issues := Check(lines); len(issues) != 0 {
		t.Errorf("got %v, want jr's register operand ignored by target check", issues)
	}
}
