package api

import (
	"testing"
)

func TestCreateSessionRunsPreprocessAndWiresBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()
	sm := NewSessionManager(b)

	sess, err := sm.CreateSession(CompileCreateRequest{
		FileName: "a.c",
		Source:   "#define TWO 2\nint x = TWO;\n",
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.Compile.PreprocessedOutput == "" {
		t.Error("got empty preprocessed output, want the expanded source")
	}
	if len(sess.Compile.Events()) == 0 {
		t.Error("got no recorded events, want at least stage-start/stage-end")
	}
}

func TestCreateSessionDefaultsFileName(t *testing.T) {
	sm := NewSessionManager(nil)

	sess, err := sm.CreateSession(CompileCreateRequest{Source: "int x;\n"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.Compile.FileName != "input.c" {
		t.Errorf("got FileName %q, want input.c", sess.Compile.FileName)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	sm := NewSessionManager(nil)
	if _, err := sm.GetSession("nope"); err != ErrSessionNotFound {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestDestroySessionRemovesIt(t *testing.T) {
	sm := NewSessionManager(nil)
	sess, err := sm.CreateSession(CompileCreateRequest{Source: "int x;\n"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := sm.DestroySession(sess.ID); err != nil {
		t.Fatalf("DestroySession failed: %v", err)
	}
	if _, err := sm.GetSession(sess.ID); err != ErrSessionNotFound {
		t.Errorf("got %v, want ErrSessionNotFound after destroy", err)
	}
	if err := sm.DestroySession(sess.ID); err != ErrSessionNotFound {
		t.Errorf("got %v, want ErrSessionNotFound destroying twice", err)
	}
}

func TestListSessionsAndCount(t *testing.T) {
	sm := NewSessionManager(nil)
	if sm.Count() != 0 {
		t.Fatalf("got %d, want 0", sm.Count())
	}

	first, err := sm.CreateSession(CompileCreateRequest{Source: "int a;\n"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	second, err := sm.CreateSession(CompileCreateRequest{Source: "int b;\n"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if sm.Count() != 2 {
		t.Fatalf("got %d, want 2", sm.Count())
	}
	ids := sm.ListSessions()
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	seen := map[string]bool{ids[0]: true, ids[1]: true}
	if !seen[first.ID] || !seen[second.ID] {
		t.Errorf("got ids %v, want both %s and %s", ids, first.ID, second.ID)
	}
}
