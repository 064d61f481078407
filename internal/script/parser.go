// Package script reads and runs publication scripts.
//
// A script is a sequence of entries, each either
//
//	name: value
//
// on one line, or a block
//
//	name {
//	  ...
//	}
//
// whose body is itself a sequence of entries or, for definitions, the text
// of a macro. Lines starting with % are comments. A backslash in a name
// escapes the next character.
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/open-cli-collective/bibweb/pkg/pattern"
	"github.com/open-cli-collective/bibweb/pkg/scan"
)

// Entry is one name/value pair of a script.
type Entry struct {
	Name  string
	Value string
	Block bool // value came from a { } block
	Loc   scan.Location
}

// ErrSyntax is wrapped by all parse errors.
var ErrSyntax = errors.New("syntax error")

var (
	entryName = pattern.OneOrMore(pattern.Alt(
		pattern.Concat(pattern.Literal(`\`), pattern.NoneOf("")),
		pattern.NoneOf(" \t\r\n\f:{}\\"),
	))
	lineRest = pattern.Repeat(pattern.NoneOf("\r\n"))
	topicID  = pattern.Concat(
		pattern.Class(isTopicStart),
		pattern.Repeat(pattern.Alt(pattern.Class(isTopicStart), pattern.Literal("-"))),
	)
)

func isTopicStart(c rune) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// Parser reads entries from a scanner.
type Parser struct {
	s *scan.Scanner
}

// NewParser returns a parser reading s.
func NewParser(s *scan.Scanner) *Parser {
	return &Parser{s: s}
}

// ParseString parses every entry of text. name is used in locations.
func ParseString(name, text string) ([]Entry, error) {
	p := NewParser(scan.NewString(name, text))
	var entries []Entry
	for {
		e, err := p.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}

func (p *Parser) skipBlankAndComments() {
	for {
		p.s.SkipWhitespace()
		if !p.s.Literal("%") {
			return
		}
		p.s.SkipToEOL()
	}
}

// Next returns the next entry, or io.EOF at the end of input.
func (p *Parser) Next() (Entry, error) {
	p.skipBlankAndComments()
	if !p.s.HasNext() {
		return Entry{}, io.EOF
	}

	loc := p.s.Location()
	raw, ok := pattern.Parse(p.s, entryName)
	if !ok {
		bad := p.s.NextLine()
		return Entry{}, fmt.Errorf("%s: %w: expected a name, found %q", loc, ErrSyntax, strings.TrimSpace(bad))
	}
	e := Entry{Name: unescape(raw), Loc: loc}

	p.s.TrailingWhitespace()
	switch p.s.Peek() {
	case ':':
		p.s.Advance()
		p.s.TrailingWhitespace()
		v, _ := pattern.Parse(p.s, lineRest)
		e.Value = strings.TrimSpace(v)
		return e, nil
	case '{':
		p.s.Advance()
		p.s.TrailingWhitespace()
		if p.s.HasNext() && !p.s.Newline() {
			rest := p.s.NextLine()
			return e, fmt.Errorf("%s: %w: unexpected %q after opening brace of %s", p.s.Location(), ErrSyntax, strings.TrimSpace(rest), e.Name)
		}
		body, err := p.block(e)
		if err != nil {
			return e, err
		}
		e.Value = body
		e.Block = true
		return e, nil
	}
	p.s.NextLine()
	return e, fmt.Errorf("%s: %w: expected ':' or '{' after %s", loc, ErrSyntax, e.Name)
}

// block reads lines up to the "}" line that balances the opening brace.
func (p *Parser) block(e Entry) (string, error) {
	var sb strings.Builder
	depth := 1
	for p.s.HasNext() {
		line := p.s.NextLine()
		trimmed := strings.TrimSpace(line)
		depth += braceBalance(trimmed)
		if trimmed == "}" && depth <= 0 {
			return strings.TrimSpace(sb.String()), nil
		}
		depth = max(depth, 1)
		sb.WriteString(line)
	}
	return "", fmt.Errorf("%s: %w: block %s is never closed", e.Loc, ErrSyntax, e.Name)
}

func braceBalance(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '{':
			n++
		case '}':
			n--
		}
	}
	return n
}

func unescape(name string) string {
	if !strings.Contains(name, `\`) {
		return name
	}
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == '\\' && i+1 < len(name) {
			i++
		}
		sb.WriteByte(name[i])
	}
	return sb.String()
}

// Topics splits a topic list into identifiers of letters, digits,
// underscores and hyphens. Anything else separates topics.
func Topics(list string) []string {
	s := scan.NewString("topics", list)
	var topics []string
	for s.HasNext() {
		if t, ok := pattern.Parse(s, topicID); ok {
			topics = append(topics, t)
			continue
		}
		s.Advance()
	}
	return topics
}
