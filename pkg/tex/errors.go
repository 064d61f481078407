package tex

import (
	"errors"
	"fmt"
)

// ErrRecursionLimit is reported when macro expansion nests deeper than the
// configured ceiling or exceeds its expansion budget.
var ErrRecursionLimit = errors.New("macro expansion nested too deeply")

// ErrNotFound is returned by a DataProvider for an unknown record or field.
var ErrNotFound = errors.New("not found")

// ConversionError reports a problem with one piece of template text. It is
// local to that text; callers usually report it and carry on.
type ConversionError struct {
	Macro string // macro being processed, if any
	Text  string // template text being converted
	Msg   string
	Err   error
}

func (e *ConversionError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Macro != "" {
		msg = fmt.Sprintf("\\%s: %s", e.Macro, msg)
	}
	return fmt.Sprintf("conversion failed on %q: %s", abbreviate(e.Text), msg)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed \setpubinfo. It is fatal for the whole run.
type WriteError struct {
	Key   string
	Field string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to set %s of publication %q: %v", e.Field, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must stop processing rather than be reported
// against a single piece of text.
func IsFatal(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

func abbreviate(s string) string {
	const limit = 60
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
