// Package markup converts between Markdown and HTML for publication pages.
package markup

import (
	"bytes"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// mdParser is a pre-configured goldmark instance with GFM table extension.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// ToHTML renders Markdown, such as a publication abstract, as HTML.
func ToHTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	headPattern    = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	doctypePattern = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`)
)

// FromHTML converts a generated HTML page to Markdown. The document head
// is dropped.
func FromHTML(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	html = doctypePattern.ReplaceAllString(html, "")
	html = headPattern.ReplaceAllString(html, "")

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}
