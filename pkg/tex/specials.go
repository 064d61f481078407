// specials.go implements the macros handled by the engine itself rather
// than by template substitution.
package tex

import (
	"strconv"
	"strings"
)

// specialArity reports whether name is a special macro and how many braced
// arguments it requires.
func specialArity(name string) (int, bool) {
	switch name {
	case "ifdef", "ifndef", "pubinfo", "def":
		return 2, true
	case "ifeq", "ifne", "setpubinfo":
		return 3, true
	case "depth":
		return 0, true
	}
	return 0, false
}

// IsSpecial reports whether name is handled by the engine and can never be
// looked up as a template.
func IsSpecial(name string) bool {
	_, ok := specialArity(name)
	return ok
}

func (x *expansion) special(name string, args []string) error {
	switch name {
	case "ifdef", "ifndef":
		defined := x.c.ctx.Has(strings.TrimPrefix(args[0], `\`))
		if defined == (name == "ifdef") {
			return x.push(name, args[1])
		}
		return nil

	case "ifeq", "ifne":
		a, err := x.evaluate(args[0])
		if err != nil {
			return err
		}
		b, err := x.evaluate(args[1])
		if err != nil {
			return err
		}
		if (a == b) == (name == "ifeq") {
			return x.push(name, args[2])
		}
		return nil

	case "pubinfo":
		vals, err := x.evaluateAll(args)
		if err != nil {
			return err
		}
		if x.c.provider == nil {
			return nil
		}
		if v, ok := x.c.provider.Lookup(vals[0], vals[1]); ok {
			return x.push(name, v)
		}
		return nil

	case "setpubinfo":
		vals, err := x.evaluateAll(args)
		if err != nil {
			return err
		}
		if x.c.provider == nil {
			return &WriteError{Key: vals[0], Field: vals[1], Err: ErrNotFound}
		}
		if err := x.c.provider.Put(vals[0], vals[1], vals[2]); err != nil {
			return &WriteError{Key: vals[0], Field: vals[1], Err: err}
		}
		return nil

	case "def":
		x.c.ctx.Add(strings.TrimPrefix(args[0], `\`), args[1])
		return nil

	case "depth":
		return x.push(name, strconv.Itoa(x.c.ctx.Depth()))
	}
	return nil
}

func (x *expansion) evaluateAll(args []string) ([]string, error) {
	vals := make([]string, len(args))
	for i, a := range args {
		v, err := x.evaluate(a)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
