package tex

import (
	"sort"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Lister is implemented by namespaces that can enumerate their names.
type Lister interface {
	Names() []string
}

func (c *Converter) unknownMacro(name string) {
	if s := suggest(name, c.candidates()); s != "" {
		c.AddWarning("don't know how to expand macro \\%s (did you mean \\%s?)", name, s)
		return
	}
	c.AddWarning("don't know how to expand macro \\%s", name)
}

// candidates lists the alphabetic macro names currently in scope,
// including those of delegates that can enumerate themselves.
func (c *Converter) candidates() []string {
	names := c.ctx.Names()
	for _, f := range c.ctx.frames {
		if l, ok := f.delegate.(Lister); ok {
			names = append(names, l.Names()...)
		}
	}
	out := names[:0]
	for _, n := range names {
		if isWord(n) {
			out = append(out, n)
		}
	}
	return out
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// suggest finds the closest candidate to name: one within two edits, or
// failing that one containing name's letters in order.
func suggest(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		if d := fuzzy.LevenshteinDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	if best != "" || len(name) < 3 {
		return best
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
