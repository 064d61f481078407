// Package pattern provides composable recognizers, the building blocks of
// regular expressions, over a backtracking scan.Scanner.
//
// Recognizers use continuation passing. For every way a recognizer can match
// at the current position it advances the scanner and calls the continuation.
// A continuation returning true means the overall match succeeded: the
// recognizer commits its progress and returns true immediately. Otherwise it
// rolls back and tries its next alternative. A recognizer that returns false
// leaves the scanner exactly where it found it. Every mark a recognizer opens
// is closed by Accept or Abort on every path.
package pattern

import (
	"strings"
	"unicode"

	"github.com/open-cli-collective/bibweb/pkg/scan"
)

// Continuation is the remainder of a match. It reports whether the whole
// match succeeded.
type Continuation func() bool

// Recognizer matches input on a scanner.
type Recognizer interface {
	Recognize(s *scan.Scanner, k Continuation) bool
}

// Func adapts a function to the Recognizer interface.
type Func func(s *scan.Scanner, k Continuation) bool

// Recognize calls f.
func (f Func) Recognize(s *scan.Scanner, k Continuation) bool {
	return f(s, k)
}

func succeed() bool { return true }

// Literal matches text exactly.
func Literal(text string) Recognizer {
	return Func(func(s *scan.Scanner, k Continuation) bool {
		s.Mark()
		for _, c := range text {
			if s.Peek() != c {
				s.Abort()
				return false
			}
			s.Advance()
		}
		if k() {
			s.Accept()
			return true
		}
		s.Abort()
		return false
	})
}

// Class matches a single character satisfying pred.
func Class(pred func(rune) bool) Recognizer {
	return Func(func(s *scan.Scanner, k Continuation) bool {
		c := s.Peek()
		if c == scan.EOF || !pred(c) {
			return false
		}
		s.Mark()
		s.Advance()
		if k() {
			s.Accept()
			return true
		}
		s.Abort()
		return false
	})
}

// AnyOf matches a single character contained in chars.
func AnyOf(chars string) Recognizer {
	return Class(func(c rune) bool { return strings.ContainsRune(chars, c) })
}

// NoneOf matches a single character not contained in chars.
func NoneOf(chars string) Recognizer {
	return Class(func(c rune) bool { return !strings.ContainsRune(chars, c) })
}

// Whitespace matches one whitespace character.
func Whitespace() Recognizer {
	return AnyOf(" \t\r\n\f")
}

// Letter matches one Unicode letter.
func Letter() Recognizer {
	return Class(unicode.IsLetter)
}

// Digit matches one decimal digit.
func Digit() Recognizer {
	return Class(unicode.IsDigit)
}

// Predict picks the recognizer to use from the lookahead character, which is
// scan.EOF at the end of input. A nil prediction matches nothing.
func Predict(predict func(c rune) Recognizer) Recognizer {
	return Func(func(s *scan.Scanner, k Continuation) bool {
		r := predict(s.Peek())
		if r == nil {
			return false
		}
		return r.Recognize(s, k)
	})
}
