// filter.go selects publications for a section.
package script

import (
	"strings"

	"github.com/open-cli-collective/bibweb/internal/bib"
)

// Filter reports whether a publication belongs in a section.
type Filter func(p *bib.Publication) bool

// NewFilter builds the filter for one entry of a select block:
//
//	pubtype: article     publication type, case-insensitive
//	topic: types         tagged with the topic
//	author: Lamport      an author name contains the text, case-insensitive
//	key: knuth84         the record key
//	all: yes             every publication
//
// Any other name, such as year, compares the field of that name with the
// value.
func NewFilter(name, value string) Filter {
	value = strings.TrimSpace(value)
	switch name {
	case "all":
		return func(*bib.Publication) bool { return true }
	case "pubtype", "type":
		return func(p *bib.Publication) bool {
			return strings.EqualFold(p.PubType(), value)
		}
	case "key":
		return func(p *bib.Publication) bool {
			return p.Key == value
		}
	case "topic":
		return func(p *bib.Publication) bool {
			return p.HasTopic(value)
		}
	case "author":
		needle := strings.ToLower(value)
		return func(p *bib.Publication) bool {
			for _, a := range p.Authors() {
				if strings.Contains(strings.ToLower(bib.NormalizeAuthor(a)), needle) {
					return true
				}
			}
			return false
		}
	}
	return func(p *bib.Publication) bool {
		v, ok := p.Field(name)
		return ok && strings.TrimSpace(v) == value
	}
}

func matchAll(filters []Filter, p *bib.Publication) bool {
	for _, f := range filters {
		if !f(p) {
			return false
		}
	}
	return true
}
