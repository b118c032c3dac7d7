package srcloc

import "testing"

// TestAdvanceTracksLineAndColumn verifies newlines advance the line
// counter and reset the column, while other characters advance column.
func TestAdvanceTracksLineAndColumn(t *testing.T) {
	tr := NewTracker("f.c")
	tr.Advance('a')
	tr.Advance('b')
	loc := tr.Current()
	if loc.Line != 1 || loc.Column != 3 {
		t.Fatalf("got line=%d col=%d, want line=1 col=3", loc.Line, loc.Column)
	}
	tr.Advance('\n')
	loc = tr.Current()
	if loc.Line != 2 || loc.Column != 1 {
		t.Errorf("got line=%d col=%d, want line=2 col=1", loc.Line, loc.Column)
	}
}

// TestResolveWalksPrevChain verifies a non-file Location resolves to
// its nearest file-backed ancestor.
func TestResolveWalksPrevChain(t *testing.T) {
	file := Location{File: "f.c", Line: 5, Column: 2}
	macroBody := Location{Prev: &file}
	resolved := macroBody.Resolve()
	if resolved != file {
		t.Errorf("got %+v, want %+v", resolved, file)
	}
}

// TestStringOnUnresolvableLocation verifies a Location with no
// file-backed ancestor anywhere in its chain reports the macro-body
// placeholder.
func TestStringOnUnresolvableLocation(t *testing.T) {
	var loc Location
	if got := loc.String(); got != "<macro-body>" {
		t.Errorf("got %q, want %q", got, "<macro-body>")
	}
}

// TestCopyChainsToPrev verifies Copy attaches the supplied prev pointer.
func TestCopyChainsToPrev(t *testing.T) {
	outer := Location{File: "f.c", Line: 1, Column: 1}
	tr := NewTracker("")
	snap := tr.Copy(&outer)
	if snap.IsFile() {
		t.Fatal("non-file tracker snapshot should not report IsFile")
	}
	if snap.Resolve() != outer {
		t.Errorf("got %+v, want %+v", snap.Resolve(), outer)
	}
}
