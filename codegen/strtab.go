package codegen

import "strings"

// strFragment is one piece of a pre-split string literal: the text
// between two successive '%' specifiers (or the leading/trailing run),
// destined for its own STRING<n> label per §4.I's string-table rule so
// printf's marshalling code can stitch them back together one format
// specifier at a time.
type strFragment struct {
	text  string
	label Label
}

// StringEntry is one string literal's full pre-split record.
type StringEntry struct {
	Original  string
	Fragments []strFragment
}

// StringTable collects string literals in declaration order, splitting
// each at '%' format specifiers into sibling STRING<i>, STRING<i+1>, ...
// labels (§4.I: "split at %X markers into sibling labels
// STRING<i + k*amount>").
type StringTable struct {
	entries []StringEntry
	next    int
}

// NewStringTable returns an empty string table.
func NewStringTable() *StringTable {
	return &StringTable{}
}

// Intern registers s, splitting it at '%' specifiers, and returns the
// index of its first fragment's label number (the STRING<i> this
// literal starts at; printf marshalling walks forward from there one
// fragment per consumed argument).
func (st *StringTable) Intern(s string) int {
	base := st.next
	frags := splitAtFormatSpecifiers(s)
	entry := StringEntry{Original: s}
	for _, f := range frags {
		l := Label{Kind: LabelString, Num: st.next}
		st.next++
		entry.Fragments = append(entry.Fragments, strFragment{text: f, label: l})
	}
	st.entries = append(st.entries, entry)
	return base
}

// Entries returns every interned string in declaration order.
func (st *StringTable) Entries() []StringEntry {
	return st.entries
}

// splitAtFormatSpecifiers breaks s into the text runs before, between,
// and after each "%X" specifier, each run keeping its specifier at its
// own end so a fragment concatenated with the next reproduces the
// original text exactly; a run with no specifiers returns s whole.
func splitAtFormatSpecifiers(s string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		if runes[i] == '%' && i+1 < len(runes) {
			cur.WriteRune(runes[i+1])
			i++
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 || len(out) == 0 {
		out = append(out, cur.String())
	}
	return out
}
