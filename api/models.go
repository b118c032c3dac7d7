package api

import (
	"time"

	"github.com/ruc-toolchain/rucc/service"
)

// CompileCreateRequest represents a request to submit source for a new
// compile session.
type CompileCreateRequest struct {
	FileName string            `json:"fileName,omitempty"` // used for #include resolution and diagnostics, default "input.c"
	Source   string            `json:"source"`
	Defines  map[string]string `json:"defines,omitempty"`
}

// SessionCreateResponse represents the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiagnosticInfo is the wire shape of a service.Diagnostic.
type DiagnosticInfo struct {
	Severity string `json:"severity"`
	Stage    string `json:"stage"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

// EventInfo is the wire shape of a service.Event.
type EventInfo struct {
	Kind       string          `json:"kind"`
	Stage      string          `json:"stage"`
	Message    string          `json:"message,omitempty"`
	Diagnostic *DiagnosticInfo `json:"diagnostic,omitempty"`
	Seq        int             `json:"seq"`
}

// SessionStatusResponse represents the current result of a session's
// preprocess stage (and, once run, its codegen stage).
type SessionStatusResponse struct {
	SessionID   string           `json:"sessionId"`
	FileName    string           `json:"fileName"`
	Output      string           `json:"preprocessedOutput"`
	Assembly    string           `json:"assembly,omitempty"`
	Xref        string           `json:"xref,omitempty"`
	Diagnostics []DiagnosticInfo `json:"diagnostics"`
	Events      []EventInfo      `json:"events"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// toDiagnosticInfo converts a service.Diagnostic for JSON transport.
func toDiagnosticInfo(d *service.Diagnostic) *DiagnosticInfo {
	if d == nil {
		return nil
	}
	return &DiagnosticInfo{
		Severity: string(d.Severity),
		Stage:    d.Stage,
		File:     d.File,
		Line:     d.Line,
		Column:   d.Column,
		Message:  d.Message,
	}
}

// toEventInfo converts a service.Event for JSON transport.
func toEventInfo(ev service.Event) EventInfo {
	return EventInfo{
		Kind:       string(ev.Kind),
		Stage:      ev.Stage,
		Message:    ev.Message,
		Diagnostic: toDiagnosticInfo(ev.Diagnostic),
		Seq:        ev.Seq,
	}
}

// toDiagnosticInfos extracts just the diagnostics out of an event log,
// in the order they were recorded.
func toDiagnosticInfos(events []service.Event) []DiagnosticInfo {
	out := make([]DiagnosticInfo, 0, len(events))
	for _, ev := range events {
		if ev.Diagnostic != nil {
			out = append(out, *toDiagnosticInfo(ev.Diagnostic))
		}
	}
	return out
}

// toEventInfos converts a full event log for JSON transport.
func toEventInfos(events []service.Event) []EventInfo {
	out := make([]EventInfo, len(events))
	for i, ev := range events {
		out[i] = toEventInfo(ev)
	}
	return out
}
