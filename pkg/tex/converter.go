// Package tex expands TeX-like macro templates into HTML.
//
// Templates use \name, \name{arg}... and accent shorthands such as \'e.
// Macros are resolved in a Context of nested scopes; braces open a scope.
// Expansions are pushed back into the input and rescanned rather than
// expanded recursively, with a ceiling on nesting depth.
package tex

import (
	"errors"
	"fmt"
	"log"
)

const (
	// DefaultMaxDepth is the default ceiling on nested expansions.
	DefaultMaxDepth = 20
	// DefaultMaxExpansions is the default number of macro expansions
	// allowed in one call to Convert.
	DefaultMaxExpansions = 100000
)

// DataProvider gives templates access to publication data through
// \pubinfo and \setpubinfo.
type DataProvider interface {
	// Lookup returns the value of field in the record named key.
	Lookup(key, field string) (string, bool)
	// Put sets field of the record named key. It returns an error wrapping
	// ErrNotFound when there is no such record.
	Put(key, field, value string) error
}

// Options configures a Converter. Zero values select the defaults.
type Options struct {
	MaxDepth      int
	MaxExpansions int
	Provider      DataProvider
}

// Converter expands templates against a Context. It is not safe for
// concurrent use.
type Converter struct {
	ctx           *Context
	provider      DataProvider
	maxDepth      int
	maxExpansions int
	warnings      []string
}

// NewConverter returns a converter whose context holds the built-in macros.
func NewConverter(opts Options) *Converter {
	c := &Converter{
		ctx:           NewContext(),
		provider:      opts.Provider,
		maxDepth:      opts.MaxDepth,
		maxExpansions: opts.MaxExpansions,
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	if c.maxExpansions <= 0 {
		c.maxExpansions = DefaultMaxExpansions
	}
	return c
}

// Context returns the converter's scope stack.
func (c *Converter) Context() *Context {
	return c.ctx
}

// SetProvider sets the source of publication data.
func (c *Converter) SetProvider(p DataProvider) {
	c.provider = p
}

// AddMacro binds name to template in the innermost scope.
func (c *Converter) AddMacro(name, template string) {
	c.ctx.Add(name, template)
}

// Push opens a new mutable scope.
func (c *Converter) Push() {
	c.ctx.Push()
}

// PushNamespace opens a read-only scope backed by ns.
func (c *Converter) PushNamespace(ns Namespace) {
	c.ctx.PushNamespace(ns)
}

// Pop closes the innermost scope.
func (c *Converter) Pop() {
	c.ctx.Pop()
}

// Lookup resolves name in the current scopes.
func (c *Converter) Lookup(name string) (string, bool) {
	return c.ctx.Lookup(name)
}

// Warnings returns the warnings produced so far.
func (c *Converter) Warnings() []string {
	return c.warnings
}

// AddWarning logs a warning and stores it.
func (c *Converter) AddWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.warnings = append(c.warnings, msg)
	log.Printf("WARN: "+format, args...)
}

// Convert expands text. With sentenceCase set, letters of text outside
// braces are lower-cased after the first one. Definitions made during the
// call do not outlive it.
//
// Errors are *ConversionError, except for a failed \setpubinfo which is a
// *WriteError.
func (c *Converter) Convert(text string, sentenceCase bool) (string, error) {
	budget := c.maxExpansions
	out, err := c.expand(text, sentenceCase, 0, &budget)
	if err == nil {
		return out, nil
	}
	var ce *ConversionError
	if errors.As(err, &ce) && ce.Text == "" {
		ce.Text = text
	}
	return "", err
}

// expand runs the expansion machine over text, which is read at the given
// nesting depth. budget is shared with nested expansions.
func (c *Converter) expand(text string, sentenceCase bool, depth int, budget *int) (string, error) {
	x := &expansion{
		c:            c,
		in:           newStream(c.maxDepth),
		sentenceCase: sentenceCase,
		budget:       budget,
	}
	if err := x.in.push(text, depth); err != nil {
		return "", &ConversionError{Err: err}
	}

	c.ctx.Push()
	defer func() {
		for ; x.braces > 0; x.braces-- {
			c.ctx.Pop()
		}
		c.ctx.Pop()
	}()

	if err := x.run(); err != nil {
		return "", err
	}
	return x.out.String(), nil
}
