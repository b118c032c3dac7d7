// Package service orchestrates one compile session: running the
// preprocessor and, given an externally-supplied AST, the code
// generator, recording an ordered event log a front end can replay or
// stream live (component M).
package service

import (
	"path/filepath"
	"sync"

	"github.com/ruc-toolchain/rucc/ast"
	"github.com/ruc-toolchain/rucc/codegen"
	"github.com/ruc-toolchain/rucc/codegen/asmfmt"
	"github.com/ruc-toolchain/rucc/codegen/lint"
	"github.com/ruc-toolchain/rucc/codegen/xref"
	"github.com/ruc-toolchain/rucc/preprocess"
)

// CompileOptions mirrors the CLI's preprocessor- and codegen-relevant
// flags a session needs.
type CompileOptions struct {
	Defines    map[string]string
	SearchPath []string

	RunAsmfmt bool
	RunLint   bool
	RunXref   bool
}

// CompileSession runs preprocess then (optionally) codegen once for a
// single source unit, recording every stage transition and diagnostic
// as an Event. There is no running program to step through: a
// session's lifetime is one synchronous RunPreprocess call and, at
// most, one RunCodegen call.
type CompileSession struct {
	mu sync.Mutex

	FileName string
	Source   []byte
	Opts     CompileOptions

	events  []Event
	seq     int
	onEvent func(Event)
	macros  []preprocess.MacroRef

	PreprocessedOutput string
	Assembly           string
	LintIssues         []lint.Issue
	XrefReport         string
}

// NewCompileSession returns a session over the given source.
func NewCompileSession(fileName string, source []byte, opts CompileOptions) *CompileSession {
	return &CompileSession{FileName: fileName, Source: source, Opts: opts}
}

// OnEvent installs a callback invoked synchronously as each Event is
// recorded, so a caller (the API's WebSocket broadcaster) can stream
// the session live instead of waiting for it to finish.
func (s *CompileSession) OnEvent(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = fn
}

// Events returns every event recorded so far, in order.
func (s *CompileSession) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *CompileSession) record(ev Event) {
	s.mu.Lock()
	ev.Seq = s.seq
	s.seq++
	s.events = append(s.events, ev)
	cb := s.onEvent
	s.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

// RunPreprocess runs the macro preprocessor over Source, recording
// stage-start/stage-end events and one diagnostic event per error or
// warning. It returns the expanded text and the accumulated error
// list; the error result is always nil, since every diagnostic is
// recorded as an event and also returned via ErrorList for callers
// that want them synchronously.
func (s *CompileSession) RunPreprocess() (string, *preprocess.ErrorList, error) {
	s.record(Event{Kind: EventStageStart, Stage: StagePreprocess})

	// Built directly against the in-memory Source rather than
	// preprocess.ProcessFile, which re-reads its argument from disk:
	// a session's source may have arrived over the API with no file on
	// disk to re-read.
	resolver := preprocess.NewFileResolver(filepath.Dir(s.FileName), s.Opts.SearchPath)
	p := preprocess.New(resolver)
	for name, body := range s.Opts.Defines {
		p.Define(name, body)
	}
	out := p.ProcessFile(filepath.Base(s.FileName), s.Source)
	errs := p.Errors

	for _, e := range errs.Errors {
		s.record(Event{Kind: EventDiagnostic, Stage: StagePreprocess, Diagnostic: &Diagnostic{
			Severity: SeverityError,
			Stage:    StagePreprocess,
			File:     e.Loc.File,
			Line:     e.Loc.Line,
			Column:   e.Loc.Column,
			Message:  e.Message,
		}})
	}
	for _, w := range errs.Warnings {
		s.record(Event{Kind: EventDiagnostic, Stage: StagePreprocess, Diagnostic: &Diagnostic{
			Severity: SeverityWarning,
			Stage:    StagePreprocess,
			File:     w.Loc.File,
			Line:     w.Loc.Line,
			Column:   w.Loc.Column,
			Message:  w.Message,
		}})
	}

	s.mu.Lock()
	s.PreprocessedOutput = out
	s.macros = p.MacroRefs()
	s.mu.Unlock()

	s.record(Event{Kind: EventStageEnd, Stage: StagePreprocess})
	return out, errs, nil
}

// RunCodegen lowers an externally-supplied, already-typed AST (the
// parser and type checker are out of this core's scope; a caller that
// has one wires it in here) to assembly text, recording stage-start/
// stage-end events around it.
func (s *CompileSession) RunCodegen(prog *ast.Program) (string, error) {
	s.record(Event{Kind: EventStageStart, Stage: StageCodegen})

	e, err := codegen.GenerateEmitter(prog)
	if err != nil {
		s.record(Event{Kind: EventDiagnostic, Stage: StageCodegen, Diagnostic: &Diagnostic{
			Severity: SeverityError,
			Stage:    StageCodegen,
			Message:  err.Error(),
		}})
		s.record(Event{Kind: EventStageEnd, Stage: StageCodegen})
		return "", err
	}
	asm := e.Output()

	if s.Opts.RunLint {
		issues := lint.Check(e.Lines())
		s.mu.Lock()
		s.LintIssues = issues
		s.mu.Unlock()
		for _, issue := range issues {
			severity := SeverityWarning
			if issue.Level == lint.LevelInternal {
				severity = SeverityError
			}
			s.record(Event{Kind: EventDiagnostic, Stage: StageCodegen, Diagnostic: &Diagnostic{
				Severity: severity,
				Stage:    StageCodegen,
				Message:  issue.String(),
			}})
		}
	}

	if s.Opts.RunAsmfmt {
		asm = asmfmt.Format(e.Lines(), asmfmt.DefaultOptions())
	}

	if s.Opts.RunXref {
		gen := xref.NewGenerator()
		s.mu.Lock()
		gen.AddMacros(s.macros)
		s.mu.Unlock()
		gen.AddIdentifiers(e.IdentRefs())
		s.mu.Lock()
		s.XrefReport = xref.Report(gen.Symbols())
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.Assembly = asm
	s.mu.Unlock()

	s.record(Event{Kind: EventStageEnd, Stage: StageCodegen})
	return asm, nil
}
