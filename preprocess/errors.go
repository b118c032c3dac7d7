package preprocess

import (
	"fmt"
	"strings"

	"github.com/ruc-toolchain/rucc/internal/srcloc"
)

// ErrorKind enumerates the preprocessor's diagnostic catalogue (§7).
type ErrorKind int

const (
	ErrCommentUnterminated ErrorKind = iota
	ErrStringUnterminated
	ErrIncludeDepth
	ErrIncludeExpectsFilename
	ErrIncludeNoSuchFile
	ErrDirectiveInvalid
	ErrDirectiveNameNon
	ErrMacroNameFirstCharacter
	ErrMacroNameRedefine
	ErrMacroNameUndefined
	ErrCallDepth
	ErrExpansionIterations
	ErrArgsNon
	ErrArgsRequires
	ErrArgsPassed
	ErrArgsUnterminated
	ErrArgsExpectedBracket
	ErrArgsExpectedName
	ErrArgsDuplicate
	ErrHashOnEdge
	ErrHashNotFollowed
	ErrCharacterStray
)

var errorKindNames = map[ErrorKind]string{
	ErrCommentUnterminated:     "COMMENT_UNTERMINATED",
	ErrStringUnterminated:      "STRING_UNTERMINATED",
	ErrIncludeDepth:            "INCLUDE_DEPTH",
	ErrIncludeExpectsFilename:  "INCLUDE_EXPECTS_FILENAME",
	ErrIncludeNoSuchFile:       "INCLUDE_NO_SUCH_FILE",
	ErrDirectiveInvalid:        "DIRECTIVE_INVALID",
	ErrDirectiveNameNon:        "DIRECTIVE_NAME_NON",
	ErrMacroNameFirstCharacter: "MACRO_NAME_FIRST_CHARACTER",
	ErrMacroNameRedefine:       "MACRO_NAME_REDEFINE",
	ErrMacroNameUndefined:      "MACRO_NAME_UNDEFINED",
	ErrCallDepth:               "CALL_DEPTH",
	ErrExpansionIterations:     "EXPANSION_ITERATIONS",
	ErrArgsNon:                 "ARGS_NON",
	ErrArgsRequires:            "ARGS_REQUIRES",
	ErrArgsPassed:              "ARGS_PASSED",
	ErrArgsUnterminated:        "ARGS_UNTERMINATED",
	ErrArgsExpectedBracket:     "ARGS_EXPECTED_BRACKET",
	ErrArgsExpectedName:        "ARGS_EXPECTED_NAME",
	ErrArgsDuplicate:           "ARGS_DUPLICATE",
	ErrHashOnEdge:              "HASH_ON_EDGE",
	ErrHashNotFollowed:         "HASH_NOT_FOLLOWED",
	ErrCharacterStray:          "CHARACTER_STRAY",
}

func (k ErrorKind) String() string {
	if n, ok := errorKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// WarningKind enumerates the preprocessor's non-fatal diagnostics (§7).
type WarningKind int

const (
	WarnDirectiveLineSkipped WarningKind = iota
	WarnDirectiveExtraTokens
)

func (k WarningKind) String() string {
	switch k {
	case WarnDirectiveLineSkipped:
		return "DIRECTIVE_LINE_SKIPED"
	case WarnDirectiveExtraTokens:
		return "DIRECTIVE_EXTRA_TOKENS"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Error is one preprocessor diagnostic, located against the nearest
// file-backed position per §4.B.
type Error struct {
	Loc     srcloc.Location
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: error: %s (%s)", e.Loc, e.Message, e.Kind)
}

// Warning is a non-fatal diagnostic.
type Warning struct {
	Loc     srcloc.Location
	Kind    WarningKind
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s (%s)", w.Loc, w.Message, w.Kind)
}

// ErrorList accumulates diagnostics for one preprocessor run. Per §7,
// failures are never raised through the call stack: they are recorded
// here and the enclosing recovery routine skips to end-of-line/body.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning

	// RecoveryDisabled suppresses every error after the first once one
	// has already been recorded, while parsing continues normally so
	// position state stays valid (§7).
	RecoveryDisabled bool

	hadError bool
}

// AddError records err, respecting RecoveryDisabled cascade suppression.
func (el *ErrorList) AddError(loc srcloc.Location, kind ErrorKind, message string) {
	if el.RecoveryDisabled && el.hadError {
		return
	}
	el.Errors = append(el.Errors, &Error{Loc: loc, Kind: kind, Message: message})
	el.hadError = true
}

// AddWarning records a warning. Warnings never cascade-suppress.
func (el *ErrorList) AddWarning(loc srcloc.Location, kind WarningKind, message string) {
	el.Warnings = append(el.Warnings, &Warning{Loc: loc, Kind: kind, Message: message})
}

// HasErrors reports whether any error was ever recorded, including ones
// suppressed by RecoveryDisabled after the first (hadError tracks that
// independently of len(Errors) so a caller can always tell a run failed).
func (el *ErrorList) HasErrors() bool {
	return el.hadError
}

func (el *ErrorList) Error() string {
	var sb strings.Builder
	for _, e := range el.Errors {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
