// Package lint runs static checks over a generator run's recorded
// instruction stream: duplicate label declarations, jumps to labels
// never declared, and unreachable code after an unconditional jump.
package lint

import (
	"fmt"

	"github.com/ruc-toolchain/rucc/codegen"
)

// Level is the severity of one Issue.
type Level int

const (
	// LevelInternal flags a generator bug: something §3's invariants say
	// can never happen in a correct run (e.g. a duplicate label
	// declaration), reported as an internal-error-class lint rather than
	// a user-facing diagnostic.
	LevelInternal Level = iota
	LevelWarning
)

func (l Level) String() string {
	if l == LevelInternal {
		return "internal"
	}
	return "warning"
}

// Code identifies the kind of finding.
type Code string

const (
	CodeDuplicateLabel  Code = "DUPLICATE_LABEL"
	CodeUndefinedTarget Code = "UNDEFINED_JUMP_TARGET"
	CodeUnreachable     Code = "UNREACHABLE_CODE"
)

// Issue is a single lint finding.
type Issue struct {
	Level   Level
	Code    Code
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s [%s]", i.Level, i.Message, i.Code)
}

// jumpMnemonics maps an instruction mnemonic that targets a label to
// the index of its operand holding that label. jr is excluded: its
// operand is a register, not a label.
var jumpMnemonics = map[string]int{
	"j":    0,
	"jal":  0,
	"beqz": 1,
	"bnez": 1,
}

// unconditionalMnemonics end a basic block unconditionally: anything
// emitted right after one, before the next label, is unreachable.
var unconditionalMnemonics = map[string]bool{
	"j":  true,
	"jr": true,
}

// Check analyzes one generator run's recorded lines and returns every
// issue found, in the order the underlying condition was detected.
func Check(lines []codegen.Line) []Issue {
	var issues []Issue

	declared := make(map[string]bool)
	for _, ln := range lines {
		if ln.Label == "" {
			continue
		}
		if declared[ln.Label] {
			issues = append(issues, Issue{
				Level:   LevelInternal,
				Code:    CodeDuplicateLabel,
				Message: fmt.Sprintf("label %s declared more than once", ln.Label),
			})
			continue
		}
		declared[ln.Label] = true
	}

	for _, ln := range lines {
		if ln.Label != "" {
			continue
		}
		operandIdx, isJump := jumpMnemonics[ln.Mnemonic]
		if !isJump || operandIdx >= len(ln.Operands) {
			continue
		}
		target := ln.Operands[operandIdx]
		if !declared[target] {
			issues = append(issues, Issue{
				Level:   LevelWarning,
				Code:    CodeUndefinedTarget,
				Message: fmt.Sprintf("%s targets undeclared label %s", ln.Mnemonic, target),
			})
		}
	}

	afterUnconditional := false
	for _, ln := range lines {
		if ln.Label != "" {
			afterUnconditional = false
			continue
		}
		if afterUnconditional {
			issues = append(issues, Issue{
				Level:   LevelWarning,
				Code:    CodeUnreachable,
				Message: fmt.Sprintf("%s is unreachable: no label follows the preceding jump", ln.Mnemonic),
			})
			afterUnconditional = false
		}
		if unconditionalMnemonics[ln.Mnemonic] {
			afterUnconditional = true
		}
	}

	return issues
}
