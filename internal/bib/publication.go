// Package bib holds bibliographic records and derives the macro bindings
// used to format each publication.
package bib

import (
	"sort"
	"strings"

	"github.com/open-cli-collective/bibweb/pkg/pattern"
	"github.com/open-cli-collective/bibweb/pkg/scan"
)

// MonthNames are the full English month names, January first.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June", "July",
	"August", "September", "October", "November", "December",
}

// Publication is one record plus the annotations a script adds to it.
type Publication struct {
	Key    string
	Topics []string

	fields    map[string]string // from the record file
	overrides map[string]string // from the script; take precedence
	version   int

	derived        map[string]string
	derivedVersion int
}

// NewPublication returns a publication with the given record fields.
func NewPublication(key string, fields map[string]string) *Publication {
	if fields == nil {
		fields = make(map[string]string)
	}
	return &Publication{
		Key:            key,
		fields:         fields,
		overrides:      make(map[string]string),
		derivedVersion: -1,
	}
}

// Field returns the named field, preferring a script override to the
// record file.
func (p *Publication) Field(name string) (string, bool) {
	if v, ok := p.overrides[name]; ok {
		return v, true
	}
	v, ok := p.fields[name]
	return v, ok
}

// Set overrides a field.
func (p *Publication) Set(name, value string) {
	p.overrides[name] = value
	p.version++
}

// AddTopics tags the publication with topics not already present.
func (p *Publication) AddTopics(topics ...string) {
	for _, t := range topics {
		if !p.HasTopic(t) {
			p.Topics = append(p.Topics, t)
		}
	}
	p.version++
}

// HasTopic reports whether the publication is tagged with topic.
func (p *Publication) HasTopic(topic string) bool {
	for _, t := range p.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Version increases on every change to the publication.
func (p *Publication) Version() int {
	return p.version
}

// FieldNames returns the names of all fields, sorted.
func (p *Publication) FieldNames() []string {
	seen := make(map[string]bool, len(p.fields)+len(p.overrides))
	for n := range p.fields {
		seen[n] = true
	}
	for n := range p.overrides {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PubType returns the lower-cased publication type, such as
// "inproceedings" or "article".
func (p *Publication) PubType() string {
	if v, ok := p.overrides["pubtype"]; ok {
		return v
	}
	if v, ok := p.Field("type"); ok && v != "" {
		return strings.ToLower(v)
	}
	return "unknown"
}

// Venue returns the conference or journal name.
func (p *Publication) Venue() (string, bool) {
	switch p.PubType() {
	case "inproceedings":
		return p.Field("booktitle")
	case "article":
		return p.Field("journal")
	}
	return "(unknown venue)", true
}

// Year returns the publication year, or 0 if it is missing or malformed.
func (p *Publication) Year() int {
	v, ok := p.Field("year")
	if !ok {
		return 0
	}
	s := scan.NewString("year", strings.TrimSpace(v))
	y, ok := s.Integer()
	if !ok || s.HasNext() {
		return 0
	}
	return y
}

// Month returns the publication month from 1 to 12, or 0 if unknown.
// Full names, three-letter abbreviations and numbers are accepted.
func (p *Publication) Month() int {
	v, ok := p.Field("month")
	if !ok {
		return 0
	}
	s := scan.NewString("month", strings.TrimSpace(v))
	if n, ok := s.Integer(); ok {
		if n >= 1 && n <= 12 && !s.HasNext() {
			return n
		}
		return 0
	}
	name, ok := s.Identifier()
	if !ok || s.HasNext() {
		return 0
	}
	for i, month := range MonthNames {
		if strings.EqualFold(name, month) || strings.EqualFold(name, month[:3]) {
			return i + 1
		}
	}
	return 0
}

var authorSeparator = pattern.Concat(
	pattern.OneOrMore(pattern.Whitespace()),
	pattern.Literal("and"),
	pattern.OneOrMore(pattern.Whitespace()),
)

var remainder = pattern.Repeat(pattern.NoneOf(""))

// Authors splits the author list on "and". An "authors" override replaces
// the record's author field.
func (p *Publication) Authors() []string {
	v, ok := p.overrides["authors"]
	if !ok {
		v, ok = firstOf(p, "author", "authors")
	}
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return splitAuthors(v)
}

func splitAuthors(list string) []string {
	s := scan.NewString("author", strings.TrimSpace(list))
	var authors []string
	for s.HasNext() {
		a, found := pattern.ParseTo(s, authorSeparator)
		if a != "" {
			authors = append(authors, a)
		}
		if !found {
			break
		}
		pattern.Scan(s, authorSeparator)
	}
	return authors
}

// NormalizeAuthor turns "Surname, First" into "First Surname" and
// "Surname, First, Jr" into "First Surname, Jr". Other names are returned
// unchanged.
func NormalizeAuthor(name string) string {
	s := scan.NewString("author", name)
	surname, ok := pattern.ParseToDelimiter(s, ", ")
	if !ok {
		return name
	}
	first, ok := pattern.ParseToDelimiter(s, ", ")
	if !ok {
		return first + " " + surname
	}
	suffix, _ := pattern.Parse(s, remainder)
	return first + " " + surname + ", " + suffix
}

// FormatAuthors joins names as "A", "A and B" or "A, B, and C".
func FormatAuthors(names []string) string {
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = NormalizeAuthor(n)
	}
	switch len(normalized) {
	case 0:
		return ""
	case 1:
		return normalized[0]
	case 2:
		return normalized[0] + " and " + normalized[1]
	}
	last := len(normalized) - 1
	return strings.Join(normalized[:last], ", ") + ", and " + normalized[last]
}

// ByDate orders publications newest first, then by key.
func ByDate(pubs []*Publication) {
	sort.SliceStable(pubs, func(i, j int) bool {
		a, b := pubs[i], pubs[j]
		if a.Year() != b.Year() {
			return a.Year() > b.Year()
		}
		if a.Month() != b.Month() {
			return a.Month() > b.Month()
		}
		return a.Key < b.Key
	})
}
