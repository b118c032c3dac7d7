// Package stream implements the pushbackable character I/O abstraction
// (component A) the preprocessor is built on: a byte stream with
// unbounded push-back, swappable input/output sinks, and UTF-8 decoding.
package stream

import (
	"strings"
	"unicode/utf8"
)

// EOF is the sentinel rune returned by ReadChar past the end of input.
const EOF rune = -1

// Sink is one side (input or output) of a Stream. A Sink is either
// file-backed (a real path, tracked for IsFile) or memory-backed (an
// in-progress macro-substitution buffer).
type Sink struct {
	name   string
	data   []byte
	pos    int
	isFile bool

	// pushback holds the characters unread from this sink while it is
	// swapped out of a Stream.
	pushback []rune
}

// NewFileSink creates a file-backed sink over already-read file content.
func NewFileSink(name string, content []byte) *Sink {
	return &Sink{name: name, data: content, isFile: true}
}

// NewMemorySink creates a memory-backed sink (never reports IsFile).
func NewMemorySink(content []byte) *Sink {
	return &Sink{data: content, isFile: false}
}

// Stream is a pushbackable byte+UTF-8 reader paired with a growable
// output buffer, with atomic role-swapping between the two (§4.A).
type Stream struct {
	in  *Sink
	out strings.Builder

	// pushback holds characters returned via UnreadChar, most-recently
	// unread first. readChar pops from here before consuming in.data.
	pushback []rune
}

// New creates a Stream reading from in.
func New(in *Sink) *Stream {
	return &Stream{in: in}
}

// IsFile reports whether the active input sink is file-backed. Per
// §4.B, the location tracker only advances positions for file-backed
// input; macro-body re-entry uses memory sinks and reports false here.
func (s *Stream) IsFile() bool {
	return s.in != nil && s.in.isFile
}

// Name returns the active input sink's name (empty for memory sinks).
func (s *Stream) Name() string {
	if s.in == nil {
		return ""
	}
	return s.in.name
}

// Position returns the current byte offset into the active input sink.
func (s *Stream) Position() int {
	if s.in == nil {
		return 0
	}
	return s.in.pos
}

// ReadChar returns the next byte as a rune, or EOF at end of input.
// Pushed-back characters are returned first, in LIFO order.
func (s *Stream) ReadChar() rune {
	if n := len(s.pushback); n > 0 {
		c := s.pushback[n-1]
		s.pushback = s.pushback[:n-1]
		return c
	}
	if s.in == nil || s.in.pos >= len(s.in.data) {
		return EOF
	}
	c := rune(s.in.data[s.in.pos])
	s.in.pos++
	return c
}

// UnreadChar pushes c back so the next ReadChar returns it. Unreading
// after EOF is well-defined: the next ReadChar simply returns c.
func (s *Stream) UnreadChar(c rune) {
	s.pushback = append(s.pushback, c)
}

// ReadRune decodes one UTF-8 codepoint from the input, consuming
// however many bytes it spans. Invalid encodings yield utf8.RuneError.
func (s *Stream) ReadRune() (rune, int) {
	var buf [utf8.UTFMax]byte
	n := 0
	for n < len(buf) {
		c := s.ReadChar()
		if c == EOF {
			break
		}
		buf[n] = byte(c)
		n++
		if utf8.FullRune(buf[:n]) {
			break
		}
	}
	if n == 0 {
		return EOF, 0
	}
	r, size := utf8.DecodeRune(buf[:n])
	// Push back any bytes we over-read beyond the decoded rune.
	for i := n - 1; i >= size; i-- {
		s.UnreadChar(rune(buf[i]))
	}
	return r, size
}

// WriteByte appends a single byte to the output buffer.
func (s *Stream) WriteByte(c byte) {
	s.out.WriteByte(c)
}

// WriteString appends a string to the output buffer.
func (s *Stream) WriteString(str string) {
	s.out.WriteString(str)
}

// Output returns the accumulated output buffer's contents so far.
func (s *Stream) Output() string {
	return s.out.String()
}

// SetBuffer discards the current output buffer, reserving size bytes of
// capacity for a fresh one (§4.A `set_buffer`).
func (s *Stream) SetBuffer(size int) {
	s.out.Reset()
	s.out.Grow(size)
}

// ExtractBuffer detaches the current output as an owned string and
// resets the output buffer to empty (§4.A `extract_buffer`).
func (s *Stream) ExtractBuffer() string {
	str := s.out.String()
	s.out.Reset()
	return str
}

// SwapInput installs other as the active input sink and returns the
// previous one, so a caller can restore it later. This is how the
// preprocessor recurses into a macro body or an included file without
// aliasing the region it is substituting into (§4.A `swap`, §9).
// Characters unread from a sink travel with it: they are set aside
// while it is swapped out and read first once it is swapped back in.
func (s *Stream) SwapInput(other *Sink) *Sink {
	prev := s.in
	if prev != nil {
		prev.pushback = s.pushback
	}
	s.pushback = nil
	if other != nil {
		s.pushback, other.pushback = other.pushback, nil
	}
	s.in = other
	return prev
}

// RemainingInput returns the unread tail of the active input sink.
func (s *Stream) RemainingInput() string {
	if s.in == nil || s.in.pos >= len(s.in.data) {
		return ""
	}
	return string(s.in.data[s.in.pos:])
}
