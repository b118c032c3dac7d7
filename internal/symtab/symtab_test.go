package symtab

import (
	"testing"

	"github.com/ruc-toolchain/rucc/internal/stream"
)

// TestAddThenSearch verifies a fresh identifier is added once and found
// by subsequent searches.
func TestAddThenSearch(t *testing.T) {
	tab := New()
	s := stream.New(stream.NewMemorySink([]byte("foo")))
	h, fresh := tab.Add(s)
	if !fresh {
		t.Fatal("expected first Add to report a fresh handle")
	}
	if tab.Name(h) != "foo" {
		t.Errorf("got name %q, want %q", tab.Name(h), "foo")
	}

	s2 := stream.New(stream.NewMemorySink([]byte("foo")))
	h2 := tab.Search(s2)
	if h2 != h {
		t.Errorf("Search returned %d, want %d", h2, h)
	}
}

// TestSearchNotFound verifies Search on an unknown lexeme yields NotFound.
func TestSearchNotFound(t *testing.T) {
	tab := New()
	s := stream.New(stream.NewMemorySink([]byte("bar")))
	if h := tab.Search(s); h != NotFound {
		t.Errorf("got %d, want NotFound", h)
	}
}

// TestUndefineThenRedefine verifies a handle survives Undefine and
// becomes alive again (same handle) on Redefine.
func TestUndefineThenRedefine(t *testing.T) {
	tab := New()
	s := stream.New(stream.NewMemorySink([]byte("X")))
	h, _ := tab.Add(s)
	tab.SetByIndex(h, 0, 42)

	tab.Undefine(h)
	if tab.Alive(h) {
		t.Fatal("expected handle to be dead after Undefine")
	}
	if v, ok := tab.GetByIndex(h, 0); ok || v != 0 {
		t.Errorf("expected payload cleared, got %d ok=%v", v, ok)
	}

	tab.Redefine(h)
	if !tab.Alive(h) {
		t.Error("expected handle alive again after Redefine")
	}
}

// TestDigitCannotStartIdentifier verifies a lexeme starting with a digit
// is not read as an identifier (MACRO_NAME_FIRST_CHARACTER territory).
func TestDigitCannotStartIdentifier(t *testing.T) {
	tab := New()
	s := stream.New(stream.NewMemorySink([]byte("9abc")))
	if h := tab.Search(s); h != NotFound {
		t.Errorf("got %d, want NotFound for digit-led lexeme", h)
	}
	if c := s.ReadChar(); c != '9' {
		t.Errorf("expected the digit to remain unconsumed, got %q", c)
	}
}

// TestReservedKeywordRange verifies RegisterKeyword handles fall under
// IsKeyword and precede later Add handles.
func TestReservedKeywordRange(t *testing.T) {
	tab := New()
	kw := tab.RegisterKeyword("if")
	if !tab.IsKeyword(kw) {
		t.Error("expected registered keyword to report IsKeyword true")
	}
	s := stream.New(stream.NewMemorySink([]byte("myvar")))
	h, _ := tab.Add(s)
	if tab.IsKeyword(h) {
		t.Error("expected ordinary identifier to not be a keyword")
	}
}
