package tex

import (
	"strings"
	"unicode/utf8"
)

const eof rune = -1

// chunk is a piece of text pushed into a stream. depth counts how many
// macro expansions produced it; template text has depth zero.
type chunk struct {
	text  string
	pos   int
	depth int
}

// stream is a pushback character stream. Text pushed back is read before
// anything already in the stream, which is how expansions get rescanned.
type stream struct {
	chunks   []*chunk // innermost last
	maxDepth int
}

func newStream(maxDepth int) *stream {
	return &stream{maxDepth: maxDepth}
}

// push makes text the next input. It fails with ErrRecursionLimit when
// depth exceeds the ceiling.
func (st *stream) push(text string, depth int) error {
	if depth > st.maxDepth {
		return ErrRecursionLimit
	}
	if text != "" {
		st.chunks = append(st.chunks, &chunk{text: text, depth: depth})
	}
	return nil
}

// unread pushes back a single character that was read at depth.
func (st *stream) unread(c rune, depth int) {
	if c == eof {
		return
	}
	st.chunks = append(st.chunks, &chunk{text: string(c), depth: depth})
}

// next consumes the next character and reports the depth of the chunk it
// came from. At the end of input it returns eof.
func (st *stream) next() (rune, int) {
	for len(st.chunks) > 0 {
		top := st.chunks[len(st.chunks)-1]
		if top.pos < len(top.text) {
			c, size := utf8.DecodeRuneInString(top.text[top.pos:])
			top.pos += size
			return c, top.depth
		}
		st.chunks = st.chunks[:len(st.chunks)-1]
	}
	return eof, 0
}

// peek returns the next character without consuming it.
func (st *stream) peek() rune {
	for i := len(st.chunks) - 1; i >= 0; i-- {
		ch := st.chunks[i]
		if ch.pos < len(ch.text) {
			c, _ := utf8.DecodeRuneInString(ch.text[ch.pos:])
			return c
		}
	}
	return eof
}

func (st *stream) String() string {
	var sb strings.Builder
	for i := len(st.chunks) - 1; i >= 0; i-- {
		sb.WriteString(st.chunks[i].text[st.chunks[i].pos:])
	}
	return sb.String()
}
