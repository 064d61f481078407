// source.go defines the chained character sources read by a Scanner.
package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Location identifies a character in one of the scanner's sources.
type Location struct {
	Source string // name given when the source was added
	Line   int    // 1-based line number
	Column int    // 1-based column within the line, counted in runes
}

func (l Location) String() string {
	return fmt.Sprintf("%q, line %d, char %d", l.Source, l.Line, l.Column)
}

// source is one input in the scanner's queue. The scanner owns it and closes
// the underlying reader once it is drained.
type source struct {
	name   string
	rd     *bufio.Reader
	closer io.Closer
	line   int
	col    int
	err    error // first non-EOF read error, reported by Scanner.Err
}

func newSource(name string, r io.Reader) *source {
	src := &source{
		name: name,
		rd:   bufio.NewReader(r),
		line: 1,
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// read returns the next character with its location, or ok=false when the
// source has no more input.
func (src *source) read() (item, bool) {
	r, _, err := src.rd.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			src.err = err
		}
		return item{}, false
	}
	src.col++
	it := item{r: r, loc: Location{Source: src.name, Line: src.line, Column: src.col}}
	if r == '\n' {
		src.line++
		src.col = 0
	}
	return it, true
}

// next returns the location the next character of this source will have.
func (src *source) next() Location {
	return Location{Source: src.name, Line: src.line, Column: src.col + 1}
}

func (src *source) close() error {
	if src.closer == nil {
		return nil
	}
	c := src.closer
	src.closer = nil
	return c.Close()
}
