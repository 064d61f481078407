// Package scan provides a character scanner with arbitrary lookahead and
// backtracking over a chain of input sources.
//
// The caller sets marks with Mark, then either commits the input consumed
// since the most recent mark with Accept or rewinds to it with Abort. Marks
// form a stack. Characters are retained only from the oldest open mark (or
// the current position when no mark is open) onwards, so memory use is
// proportional to the lookahead span rather than to the input size.
package scan

import (
	"errors"
	"io"
	"os"
	"strings"
)

// EOF is returned by Peek when every source is drained.
const EOF rune = -1

// ErrExhausted is returned when a character is consumed at the end of all input.
var ErrExhausted = errors.New("scan: input exhausted")

const initialSize = 16

type item struct {
	r   rune
	loc Location
}

// Scanner reads characters from a queue of sources. It is not safe for
// concurrent use.
type Scanner struct {
	sources []*source

	// buf[0:end] holds characters already read; buf[pos] is the next one.
	// Invariant: marks[0] <= marks[1] <= ... <= pos <= end <= len(buf).
	buf   []item
	pos   int
	end   int
	marks []int
	base  int64 // absolute input offset of buf[0]

	last Location // position after the most recently drained source
	err  error
}

// New returns a scanner with no sources.
func New() *Scanner {
	return &Scanner{buf: make([]item, initialSize)}
}

// NewReader returns a scanner reading r, which is called name in locations.
func NewReader(name string, r io.Reader) *Scanner {
	s := New()
	s.Append(name, r)
	return s
}

// NewString returns a scanner reading the string text.
func NewString(name, text string) *Scanner {
	return NewReader(name, strings.NewReader(text))
}

// Open returns a scanner reading the named file.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(path, f), nil
}

// Include adds r ahead of any input not yet read from the existing sources.
// Characters already buffered by lookahead are still delivered first.
func (s *Scanner) Include(name string, r io.Reader) {
	s.sources = append([]*source{newSource(name, r)}, s.sources...)
}

// IncludeFile opens path and includes it ahead of the remaining input.
func (s *Scanner) IncludeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	s.Include(path, f)
	return nil
}

// Append adds r after all existing sources.
func (s *Scanner) Append(name string, r io.Reader) {
	s.sources = append(s.sources, newSource(name, r))
}

// Close closes every remaining source.
func (s *Scanner) Close() error {
	var errs []error
	for _, src := range s.sources {
		if err := src.close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.sources = nil
	return errors.Join(errs...)
}

// Err returns the first read error encountered on any source. A source that
// fails is treated as drained.
func (s *Scanner) Err() error {
	return s.err
}

// Peek returns the next character without consuming it, or EOF.
func (s *Scanner) Peek() rune {
	if s.pos < s.end {
		return s.buf[s.pos].r
	}
	for len(s.sources) > 0 {
		it, ok := s.sources[0].read()
		if ok {
			s.append(it)
			return it.r
		}
		s.drop()
	}
	return EOF
}

// HasNext reports whether any input remains.
func (s *Scanner) HasNext() bool {
	return s.Peek() != EOF
}

// Next consumes and returns the next character.
func (s *Scanner) Next() (rune, error) {
	r := s.Peek()
	if r == EOF {
		return EOF, ErrExhausted
	}
	s.pos++
	return r, nil
}

// Advance consumes the next character, if any.
func (s *Scanner) Advance() {
	if s.Peek() != EOF {
		s.pos++
	}
}

// Mark pushes a rollback point at the current position.
func (s *Scanner) Mark() {
	s.marks = append(s.marks, s.pos)
}

// Accept discards the most recent mark, committing the input read since.
func (s *Scanner) Accept() {
	s.popMark()
}

// Abort rewinds to the most recent mark and discards it.
func (s *Scanner) Abort() {
	s.pos = s.popMark()
}

func (s *Scanner) popMark() int {
	n := len(s.marks)
	if n == 0 {
		panic("scan: no open mark")
	}
	m := s.marks[n-1]
	s.marks = s.marks[:n-1]
	return m
}

// Depth returns the number of open marks.
func (s *Scanner) Depth() int {
	return len(s.marks)
}

// Token returns the characters between the most recent mark and the
// current position.
func (s *Scanner) Token() string {
	n := len(s.marks)
	if n == 0 {
		panic("scan: no open mark")
	}
	var sb strings.Builder
	for _, it := range s.buf[s.marks[n-1]:s.pos] {
		sb.WriteRune(it.r)
	}
	return sb.String()
}

// Offset returns the number of characters consumed so far.
func (s *Scanner) Offset() int64 {
	return s.base + int64(s.pos)
}

// Buffered returns the capacity of the retained character buffer.
func (s *Scanner) Buffered() int {
	return len(s.buf)
}

// Location returns the location of the next character. At the end of input
// it is the position just past the last character read.
func (s *Scanner) Location() Location {
	s.Peek()
	return s.locAt(s.pos)
}

// MarkLocation returns the location of the most recent mark.
func (s *Scanner) MarkLocation() Location {
	n := len(s.marks)
	if n == 0 {
		panic("scan: no open mark")
	}
	return s.locAt(s.marks[n-1])
}

func (s *Scanner) locAt(i int) Location {
	if i < s.end {
		return s.buf[i].loc
	}
	if len(s.sources) > 0 {
		return s.sources[0].next()
	}
	return s.last
}

func (s *Scanner) append(it item) {
	if s.end == len(s.buf) {
		s.grow()
	}
	s.buf[s.end] = it
	s.end++
}

// grow makes room for one more character. Everything before the oldest open
// mark (or the current position) is discarded. The buffer is reallocated at
// twice the live span when compaction alone cannot free enough room, or when
// the live span has fallen below a quarter of the buffer.
func (s *Scanner) grow() {
	start := s.pos
	if len(s.marks) > 0 {
		start = s.marks[0]
	}
	n := s.end - start
	nb := s.buf
	if n*2 >= len(s.buf) || n*4 < len(s.buf) && len(s.buf) > initialSize {
		nb = make([]item, max(n*2, initialSize))
	}
	copy(nb, s.buf[start:s.end])
	s.buf = nb
	for i := range s.marks {
		s.marks[i] -= start
	}
	s.pos -= start
	s.end = n
	s.base += int64(start)
}

func (s *Scanner) drop() {
	src := s.sources[0]
	s.last = src.next()
	if src.err != nil && s.err == nil {
		s.err = src.err
	}
	if err := src.close(); err != nil && s.err == nil {
		s.err = err
	}
	s.sources[0] = nil
	s.sources = s.sources[1:]
}

func (s *Scanner) String() string {
	var sb strings.Builder
	start := s.pos
	if len(s.marks) > 0 {
		start = s.marks[0]
	}
	m := 0
	for i := start; i < s.end; i++ {
		for m < len(s.marks) && s.marks[m] == i {
			sb.WriteByte('[')
			m++
		}
		if i == s.pos {
			sb.WriteByte('^')
		}
		sb.WriteRune(s.buf[i].r)
	}
	if s.pos == s.end {
		sb.WriteByte('^')
	}
	return sb.String()
}
