package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/ruc-toolchain/rucc/service"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session pairs a compile session with the bookkeeping the API layer
// needs on top of it.
type Session struct {
	ID        string
	Compile   *service.CompileSession
	CreatedAt time.Time
}

// SessionManager manages multiple compile sessions.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	codegenOpts service.CompileOptions
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager. Sessions it creates
// run only the lint pass by default; SetCodegenOptions overrides which
// of asmfmt/lint/xref a later RunCodegen call performs.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
		codegenOpts: service.CompileOptions{RunLint: true},
	}
}

// SetCodegenOptions overrides the asmfmt/lint/xref switches sessions
// created from this point on will use for their RunCodegen call.
func (sm *SessionManager) SetCodegenOptions(opts service.CompileOptions) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.codegenOpts = opts
}

// CreateSession creates a session for the given source, wires its event
// log to the broadcaster, and runs the preprocessor stage immediately.
// Codegen is a separate step (RunCodegen on the returned session's
// Compile field) since it needs an externally-supplied AST this layer
// has no way to produce from raw text.
func (sm *SessionManager) CreateSession(req CompileCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "input.c"
	}

	sm.mu.RLock()
	opts := sm.codegenOpts
	sm.mu.RUnlock()
	opts.Defines = req.Defines

	cs := service.NewCompileSession(fileName, []byte(req.Source), opts)

	if sm.broadcaster != nil {
		sid := sessionID
		b := sm.broadcaster
		cs.OnEvent(func(ev service.Event) {
			b.BroadcastSessionEvent(sid, ev)
		})
	}

	if _, _, err := cs.RunPreprocess(); err != nil {
		return nil, err
	}

	session := &Session{
		ID:        sessionID,
		Compile:   cs,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns a list of all session IDs.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// generateSessionID generates a unique session ID.
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
