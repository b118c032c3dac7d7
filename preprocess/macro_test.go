package preprocess

import "testing"

// TestEncodeBodyLiteralOnly verifies an arity-0 macro body is stored as
// a single opaque literal, with '#'/'##' left as ordinary characters.
func TestEncodeBodyLiteralOnly(t *testing.T) {
	pieces, err := encodeBody("a ## b # c", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pieces) != 1 || pieces[0].kind != pieceLiteral || pieces[0].text != "a ## b # c" {
		t.Errorf("got %+v, want single literal piece", pieces)
	}
}

// TestEncodeBodyArgumentPlaceholder verifies a bare parameter reference
// becomes an argument placeholder.
func TestEncodeBodyArgumentPlaceholder(t *testing.T) {
	pieces, err := encodeBody("(x)", []string{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []piece{
		{kind: pieceLiteral, text: "("},
		{kind: pieceArg, param: 0},
		{kind: pieceLiteral, text: ")"},
	}
	assertPiecesEqual(t, pieces, want)
}

// TestEncodeBodyPasteEdgesAreErrors verifies '##' at either edge of the
// body is rejected.
func TestEncodeBodyPasteEdgesAreErrors(t *testing.T) {
	if _, err := encodeBody("##x", []string{"x"}); err == nil || err.Kind != ErrHashOnEdge {
		t.Errorf("expected HASH_ON_EDGE at start, got %v", err)
	}
	if _, err := encodeBody("x##", []string{"x"}); err == nil || err.Kind != ErrHashOnEdge {
		t.Errorf("expected HASH_ON_EDGE at end, got %v", err)
	}
}

// TestEncodeBodyHashRequiresParam verifies '#' must be followed by a
// parameter name.
func TestEncodeBodyHashRequiresParam(t *testing.T) {
	if _, err := encodeBody("#y", []string{"x"}); err == nil || err.Kind != ErrHashNotFollowed {
		t.Errorf("expected HASH_NOT_FOLLOWED, got %v", err)
	}
}

// TestStringizeEscapesQuotesAndBackslashes verifies stringize quoting
// per §4.D step 3 / §8 I3.
func TestStringizeEscapesQuotesAndBackslashes(t *testing.T) {
	got := stringize(`a"b\c`)
	want := `"a\"b\\c"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestSubstituteStreamsEachPieceKind verifies substitution picks the
// correct form per placeholder kind.
func TestSubstituteStreamsEachPieceKind(t *testing.T) {
	body := []piece{
		{kind: pieceLiteral, text: "<"},
		{kind: pieceArg, param: 0},
		{kind: pieceStringize, param: 0},
		{kind: piecePaste, param: 0},
		{kind: pieceLiteral, text: ">"},
	}
	forms := []argForms{{raw: "R", expanded: "E", stringized: "S"}}
	got := substitute(body, forms)
	want := "<ESR>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func assertPiecesEqual(t *testing.T, got, want []piece) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d pieces %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("piece %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
