// namespace.go derives the per-publication macro bindings.
package bib

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/open-cli-collective/bibweb/pkg/markup"
	"github.com/open-cli-collective/bibweb/pkg/tex"
)

// recordNamespace exposes a publication's derived bindings. Each lookup
// checks the publication's version, so changes made while a template is
// being expanded are seen by the rest of the expansion.
type recordNamespace struct {
	p *Publication
}

// Namespace returns the publication's bindings: every field, the derived
// values (title, authors, wherepublished, ...) and the script overrides,
// in increasing precedence.
func (p *Publication) Namespace() tex.Namespace {
	return recordNamespace{p: p}
}

func (ns recordNamespace) Lookup(name string) (string, bool) {
	v, ok := ns.p.bindings()[name]
	return v, ok
}

func (ns recordNamespace) Names() []string {
	b := ns.p.bindings()
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Publication) bindings() map[string]string {
	if p.derived != nil && p.derivedVersion == p.version {
		return p.derived
	}

	ctx := make(map[string]string, len(p.fields)+len(p.overrides)+8)
	for n, v := range p.fields {
		ctx[n] = v
	}
	ctx["wherepublished"] = p.WherePublished()
	ctx["authors"] = FormatAuthors(p.Authors())
	if v, ok := firstOf(p, "author", "authors"); ok {
		ctx["bibtexAuthors"] = v
	}
	ctx["pubtype"] = p.PubType()
	if v, ok := p.Field("url"); ok {
		ctx["paperurl"] = v
	}
	if v, ok := p.Venue(); ok {
		ctx["venue"] = v
	}
	ctx["key"] = p.Key
	ctx["topics"] = strings.Join(p.Topics, " ")
	if md, ok := p.Field("abstract"); ok {
		html, err := markup.ToHTML(md)
		if err != nil {
			log.Printf("WARN: abstract of %s: %v", p.Key, err)
			html = md
		}
		ctx["abstract"] = strings.TrimSpace(html)
	}
	for n, v := range p.overrides {
		ctx[n] = v
	}

	p.derived = ctx
	p.derivedVersion = p.version
	return ctx
}

func firstOf(p *Publication, names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := p.Field(n); ok {
			return v, true
		}
	}
	return "", false
}

// WherePublished describes the venue, pages and date of the publication
// according to its type.
func (p *Publication) WherePublished() string {
	var b strings.Builder
	field := func(name string) string {
		v, _ := p.Field(name)
		return v
	}
	venueURL, hasURL := p.Field("venueurl")
	venue, _ := p.Venue()
	linked := func(class string) {
		fmt.Fprintf(&b, "<span class=%s>", class)
		if hasURL {
			fmt.Fprintf(&b, `<a href="%s">`, venueURL)
		}
		b.WriteString(venue)
		if hasURL {
			b.WriteString("</a>")
		}
		b.WriteString("</span>")
	}

	switch p.PubType() {
	case "inproceedings":
		linked("conferencename")
		if pages, ok := p.Field("pages"); ok {
			b.WriteString(",\npp. " + pages)
		}
	case "article":
		linked("journalname")
		if volume, ok := p.Field("volume"); ok {
			b.WriteString(", " + volume)
			if number, ok := p.Field("number"); ok {
				b.WriteString("(" + number + ")")
			}
			if pages, ok := p.Field("pages"); ok {
				b.WriteString(":" + pages)
			}
		}
	case "unpublished":
		b.WriteString(field("note"))
	case "software":
		b.WriteString("Software release")
	case "techreport":
		b.WriteString("Technical report " + field("number") + ", " + field("institution"))
	case "phdthesis":
		b.WriteString("Ph.D. dissertation, " + field("school"))
	case "mastersthesis":
		b.WriteString("Master's thesis, " + field("school"))
	case "misc":
		b.WriteString(field("howpublished"))
	default:
		fmt.Fprintf(&b, "<strong>(Unhandled publication type %s)</strong>", p.PubType())
	}

	b.WriteString(",\n")
	if m := p.Month(); m != 0 {
		b.WriteString(MonthNames[m-1] + " ")
	}
	fmt.Fprintf(&b, "%d", p.Year())
	return b.String()
}
