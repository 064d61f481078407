package tex

import (
	"log"
	"sort"
)

// Namespace resolves macro names to templates.
type Namespace interface {
	Lookup(name string) (string, bool)
}

// Map is a Namespace backed by a map.
type Map map[string]string

// Lookup implements Namespace.
func (m Map) Lookup(name string) (string, bool) {
	defn, ok := m[name]
	return defn, ok
}

// frame is one level of a Context. A frame either owns a mutable set of
// bindings or delegates read-only to an external namespace.
type frame struct {
	defns    map[string]string
	delegate Namespace
}

func (f *frame) lookup(name string) (string, bool) {
	if f.delegate != nil {
		return f.delegate.Lookup(name)
	}
	defn, ok := f.defns[name]
	return defn, ok
}

// Context is a stack of lexical macro scopes. Lookup searches from the
// innermost scope outwards. The bottom scope always exists and holds the
// built-in macros plus anything added before the first Push.
type Context struct {
	frames []*frame
}

// NewContext returns a context whose bottom scope is seeded with the
// built-in macro table.
func NewContext() *Context {
	bottom := &frame{defns: make(map[string]string, len(builtins))}
	for _, b := range builtins {
		bottom.defns[b.Name] = b.Definition
	}
	return &Context{frames: []*frame{bottom}}
}

func (c *Context) top() *frame {
	return c.frames[len(c.frames)-1]
}

// Lookup implements Namespace.
func (c *Context) Lookup(name string) (string, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if defn, ok := c.frames[i].lookup(name); ok {
			return defn, true
		}
	}
	return "", false
}

// Has reports whether name resolves in any scope.
func (c *Context) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Push adds a new innermost mutable scope.
func (c *Context) Push() {
	c.frames = append(c.frames, &frame{defns: make(map[string]string)})
}

// PushNamespace adds ns as a new innermost read-only scope.
func (c *Context) PushNamespace(ns Namespace) {
	c.frames = append(c.frames, &frame{delegate: ns})
}

// Pop removes the innermost scope. Popping the bottom scope panics.
func (c *Context) Pop() {
	if len(c.frames) == 1 {
		panic("tex: pop of the bottom scope")
	}
	c.frames[len(c.frames)-1] = nil
	c.frames = c.frames[:len(c.frames)-1]
}

// Add binds name to defn in the innermost scope. Adding to a read-only
// scope panics.
func (c *Context) Add(name, defn string) {
	f := c.top()
	if f.delegate != nil {
		panic("tex: add of " + name + " to a read-only scope")
	}
	f.defns[name] = defn
}

// AddMaybe binds name to defn when ok is true. A missing value is reported
// and otherwise ignored.
func (c *Context) AddMaybe(name, defn string, ok bool) {
	if !ok {
		log.Printf("WARN: %s has no value, binding skipped", name)
		return
	}
	c.Add(name, defn)
}

// Depth returns the number of scopes above the bottom one.
func (c *Context) Depth() int {
	return len(c.frames) - 1
}

// Names returns the sorted names bound in mutable scopes. Names reachable
// only through a delegate are not listed.
func (c *Context) Names() []string {
	seen := make(map[string]bool)
	for _, f := range c.frames {
		for name := range f.defns {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
