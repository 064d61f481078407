// match.go defines the operations that run a recognizer against a scanner.
package pattern

import "github.com/open-cli-collective/bibweb/pkg/scan"

// Scan matches r at the current position and consumes the match.
func Scan(s *scan.Scanner, r Recognizer) bool {
	return r.Recognize(s, succeed)
}

// Has reports whether r matches at the current position without consuming
// anything.
func Has(s *scan.Scanner, r Recognizer) bool {
	s.Mark()
	ok := r.Recognize(s, succeed)
	s.Abort()
	return ok
}

// Parse matches r at the current position, consumes the match and returns
// the matched text.
func Parse(s *scan.Scanner, r Recognizer) (string, bool) {
	s.Mark()
	if !r.Recognize(s, succeed) {
		s.Abort()
		return "", false
	}
	text := s.Token()
	s.Accept()
	return text, true
}

// AdvanceTo consumes input up to the first position where r matches and
// leaves the scanner there, before the match. If r never matches, the rest
// of the input is consumed. It reports whether r matched.
func AdvanceTo(s *scan.Scanner, r Recognizer) bool {
	for {
		if Has(s, r) {
			return true
		}
		if !s.HasNext() {
			return false
		}
		s.Advance()
	}
}

// ParseTo consumes and returns the input up to the first match of r,
// leaving the match itself unread. If r never matches, it returns the rest
// of the input. It reports whether r matched.
func ParseTo(s *scan.Scanner, r Recognizer) (string, bool) {
	s.Mark()
	found := AdvanceTo(s, r)
	text := s.Token()
	s.Accept()
	return text, found
}

// ParseToDelimiter is ParseTo with a literal delimiter, which is consumed
// when found.
func ParseToDelimiter(s *scan.Scanner, delim string) (string, bool) {
	d := Literal(delim)
	text, found := ParseTo(s, d)
	if found {
		Scan(s, d)
	}
	return text, found
}
