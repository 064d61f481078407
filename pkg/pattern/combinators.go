// combinators.go builds larger recognizers out of smaller ones.
package pattern

import "github.com/open-cli-collective/bibweb/pkg/scan"

// Concat matches each recognizer in turn. Backtracking into an earlier
// element happens naturally: a later element failing makes the earlier
// element's continuation return false, so it tries its next alternative.
func Concat(rs ...Recognizer) Recognizer {
	switch len(rs) {
	case 0:
		return Empty()
	case 1:
		return rs[0]
	}
	return Func(func(s *scan.Scanner, k Continuation) bool {
		return concat(s, rs, k)
	})
}

func concat(s *scan.Scanner, rs []Recognizer, k Continuation) bool {
	if len(rs) == 0 {
		return k()
	}
	return rs[0].Recognize(s, func() bool {
		return concat(s, rs[1:], k)
	})
}

// Alt tries each recognizer in order, at the same starting position, until
// one of them leads to an overall match.
func Alt(rs ...Recognizer) Recognizer {
	return Func(func(s *scan.Scanner, k Continuation) bool {
		for _, r := range rs {
			s.Mark()
			if r.Recognize(s, k) {
				s.Accept()
				return true
			}
			s.Abort()
		}
		return false
	})
}

// Empty matches the empty string.
func Empty() Recognizer {
	return Func(func(_ *scan.Scanner, k Continuation) bool {
		return k()
	})
}

// Opt matches r or nothing, preferring r.
func Opt(r Recognizer) Recognizer {
	return Alt(r, Empty())
}

// Repeat matches r zero or more times, greedily. An iteration that consumes
// nothing ends the repetition so that nullable operands cannot loop.
func Repeat(r Recognizer) Recognizer {
	var rep Func
	rep = func(s *scan.Scanner, k Continuation) bool {
		start := s.Offset()
		s.Mark()
		ok := r.Recognize(s, func() bool {
			if s.Offset() == start {
				return false
			}
			return rep(s, k)
		})
		if ok {
			s.Accept()
			return true
		}
		s.Abort()
		return k()
	}
	return rep
}

// OneOrMore matches r one or more times, greedily.
func OneOrMore(r Recognizer) Recognizer {
	return Concat(r, Repeat(r))
}
