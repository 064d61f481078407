// lexical.go provides helpers for scanning common lexical forms. Each helper
// either consumes what it recognizes or leaves the position unchanged.
package scan

import (
	"strconv"
	"unicode"
)

// SkipWhitespace consumes any whitespace, including newlines.
func (s *Scanner) SkipWhitespace() {
	for unicode.IsSpace(s.Peek()) {
		s.Advance()
	}
}

// TrailingWhitespace consumes whitespace up to, but not including, the end
// of the line. A form feed counts as a line end.
func (s *Scanner) TrailingWhitespace() {
	for {
		c := s.Peek()
		if c == EOF || c == '\n' || c == '\f' || !unicode.IsSpace(c) {
			return
		}
		s.Advance()
	}
}

// SkipToEOL consumes characters up to, but not including, the next newline.
func (s *Scanner) SkipToEOL() {
	for {
		c := s.Peek()
		if c == EOF || c == '\n' {
			return
		}
		s.Advance()
	}
}

// NextLine consumes and returns everything up to and including the next
// newline, or the rest of the input if there is none.
func (s *Scanner) NextLine() string {
	s.Mark()
	for {
		c, err := s.Next()
		if err != nil || c == '\n' {
			break
		}
	}
	line := s.Token()
	s.Accept()
	return line
}

// Newline consumes an optional carriage return followed by a newline.
func (s *Scanner) Newline() bool {
	s.Mark()
	if s.Peek() == '\r' {
		s.Advance()
	}
	if s.Peek() == '\n' {
		s.Advance()
		s.Accept()
		return true
	}
	s.Abort()
	return false
}

// Literal consumes text if the input continues with it.
func (s *Scanner) Literal(text string) bool {
	s.Mark()
	for _, c := range text {
		if s.Peek() != c {
			s.Abort()
			return false
		}
		s.Advance()
	}
	s.Accept()
	return true
}

// Identifier consumes and returns a letter or underscore followed by
// letters, digits and underscores.
func (s *Scanner) Identifier() (string, bool) {
	first := s.Peek()
	if !unicode.IsLetter(first) && first != '_' {
		return "", false
	}
	s.Mark()
	s.Advance()
	for {
		c := s.Peek()
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		s.Advance()
	}
	id := s.Token()
	s.Accept()
	return id, true
}

// Integer consumes an optionally negative decimal integer and returns its value.
func (s *Scanner) Integer() (int, bool) {
	s.Mark()
	if s.Peek() == '-' {
		s.Advance()
	}
	digits := 0
	for unicode.IsDigit(s.Peek()) {
		s.Advance()
		digits++
	}
	if digits == 0 {
		s.Abort()
		return 0, false
	}
	n, err := strconv.Atoi(s.Token())
	if err != nil {
		s.Abort()
		return 0, false
	}
	s.Accept()
	return n, true
}
