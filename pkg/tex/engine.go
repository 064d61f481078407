// engine.go implements the character-level expansion state machine.
package tex

import (
	"fmt"
	"strings"
	"unicode"
)

type state int

const (
	stateStart      state = iota // nothing emitted yet
	stateNormal                  // after ordinary output
	stateWhitespace              // inside a whitespace run
	stateBackslash               // after \
	stateMacroName               // reading an alphabetic macro name
	stateShortArg                // after an accent such as \'
	stateLongArg                 // inside a braced argument
	stateFullMacro               // after a braced argument
	stateEOF
)

// maxArgs bounds the positional parameters #1 to #9.
const maxArgs = 9

// literalEscapes are the characters that \ copies to the output verbatim.
const literalEscapes = "\\{}-&#_% "

// accents introduce a one-character argument macro such as \'e.
const accents = "'`\",~^"

// expansion is the state of one run over a piece of text.
type expansion struct {
	c            *Converter
	in           *stream
	out          strings.Builder
	sentenceCase bool
	budget       *int

	state      state
	braces     int // scopes opened by braces and not yet closed
	seenLetter bool
	markup     rune // '&' inside an HTML entity, '<' inside a tag

	// the macro call being collected
	name  strings.Builder
	arg   strings.Builder
	args  []string
	nest  int // brace nesting inside the current argument
	depth int // deepest chunk any character of the call came from
}

func (x *expansion) run() error {
	for x.state != stateEOF {
		c, d := x.in.next()
		var err error
		switch x.state {
		case stateStart, stateNormal, stateWhitespace:
			err = x.text(c, d)
		case stateBackslash:
			err = x.backslash(c, d)
		case stateMacroName:
			err = x.macroName(c, d)
		case stateShortArg:
			err = x.shortArg(c, d)
		case stateLongArg:
			err = x.longArg(c, d)
		case stateFullMacro:
			err = x.fullMacro(c, d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (x *expansion) fail(macro, format string, args ...interface{}) error {
	return &ConversionError{Macro: macro, Msg: fmt.Sprintf(format, args...)}
}

func (x *expansion) text(c rune, d int) error {
	switch {
	case c == eof:
		if x.braces > 0 {
			return x.fail("", "%d unclosed brace(s)", x.braces)
		}
		x.state = stateEOF
		return nil
	case c == '\\':
		x.startCall(d)
		x.state = stateBackslash
		return nil
	case c == '{':
		x.c.ctx.Push()
		x.braces++
	case c == '}':
		if x.braces == 0 {
			return x.fail("", "more closing braces than opening ones")
		}
		x.c.ctx.Pop()
		x.braces--
	case c == '-':
		x.dash()
	case c == '~':
		x.out.WriteString("&nbsp;")
	case c == '\r' && x.in.peek() == '\n':
		x.in.next()
		if x.state == stateNormal {
			x.out.WriteString("\r\n")
		}
		x.state = stateWhitespace
		return nil
	case unicode.IsSpace(c):
		x.markup = 0
		if x.state == stateNormal {
			x.out.WriteRune(c)
		}
		x.state = stateWhitespace
		return nil
	case unicode.IsLetter(c):
		x.letter(c)
	default:
		x.markupChar(c)
		x.out.WriteRune(c)
	}
	x.state = stateNormal
	return nil
}

// letter applies sentence casing: outside braces, letters after the first
// are lower-cased, whether they come from the text or from a macro. Letters
// of HTML entities and tags keep their case.
func (x *expansion) letter(c rune) {
	switch x.markup {
	case '<':
	case '&':
		x.seenLetter = true
	default:
		if x.sentenceCase && x.seenLetter && x.braces == 0 {
			c = unicode.ToLower(c)
		}
		x.seenLetter = true
	}
	x.out.WriteRune(c)
}

func (x *expansion) markupChar(c rune) {
	switch {
	case c == '&' || c == '<':
		x.markup = c
	case c == ';' && x.markup == '&', c == '>' && x.markup == '<':
		x.markup = 0
	}
}

// dash turns -, -- and --- into a hyphen, an en dash and an em dash.
func (x *expansion) dash() {
	if x.in.peek() != '-' {
		x.out.WriteByte('-')
		return
	}
	x.in.next()
	if x.in.peek() != '-' {
		x.out.WriteString("&ndash;")
		return
	}
	x.in.next()
	x.out.WriteString("&mdash;")
}

func (x *expansion) startCall(d int) {
	x.name.Reset()
	x.arg.Reset()
	x.args = nil
	x.nest = 0
	x.depth = d
}

func (x *expansion) see(d int) {
	if d > x.depth {
		x.depth = d
	}
}

func (x *expansion) backslash(c rune, d int) error {
	x.see(d)
	switch {
	case c == eof:
		x.out.WriteByte('\\')
		x.state = stateNormal
	case strings.ContainsRune(literalEscapes, c):
		x.out.WriteRune(c)
		x.state = stateNormal
	case strings.ContainsRune(accents, c):
		x.name.WriteRune(c)
		x.state = stateShortArg
	case c == '/' || c == '@':
		x.state = stateNormal
	case unicode.IsLetter(c):
		x.name.WriteRune(c)
		x.state = stateMacroName
	default:
		return x.fail("", "unexpected character %q after backslash", c)
	}
	return nil
}

func (x *expansion) macroName(c rune, d int) error {
	switch {
	case unicode.IsLetter(c):
		x.see(d)
		x.name.WriteRune(c)
		return nil
	case c == '{' && x.arity(x.name.String()) > 0:
		x.see(d)
		x.state = stateLongArg
		return nil
	}
	x.in.unread(c, d)
	return x.invoke()
}

func (x *expansion) shortArg(c rune, d int) error {
	x.see(d)
	switch {
	case c == eof:
		return x.fail(x.name.String(), "missing argument")
	case c == '{':
		x.state = stateLongArg
		return nil
	case c == '\\' && unicode.IsLetter(x.in.peek()):
		var sb strings.Builder
		sb.WriteByte('\\')
		for unicode.IsLetter(x.in.peek()) {
			n, nd := x.in.next()
			x.see(nd)
			sb.WriteRune(n)
		}
		x.args = []string{sb.String()}
	default:
		x.args = []string{string(c)}
	}
	return x.invoke()
}

func (x *expansion) longArg(c rune, d int) error {
	x.see(d)
	switch c {
	case eof:
		return x.fail(x.name.String(), "unexpected end of input in argument")
	case '\\':
		n, nd := x.in.next()
		if n == eof {
			return x.fail(x.name.String(), "unexpected end of input in argument")
		}
		x.see(nd)
		x.arg.WriteRune(c)
		x.arg.WriteRune(n)
	case '{':
		x.nest++
		x.arg.WriteRune(c)
	case '}':
		if x.nest == 0 {
			x.args = append(x.args, x.arg.String())
			x.arg.Reset()
			x.state = stateFullMacro
			return nil
		}
		x.nest--
		x.arg.WriteRune(c)
	default:
		x.arg.WriteRune(c)
	}
	return nil
}

func (x *expansion) fullMacro(c rune, d int) error {
	if c == '{' && len(x.args) < x.arity(x.name.String()) {
		x.see(d)
		x.state = stateLongArg
		return nil
	}
	x.in.unread(c, d)
	return x.invoke()
}

// arity is the number of braced arguments the named macro takes. Names
// with no binding take one argument, for composite lookup.
func (x *expansion) arity(name string) int {
	if n, ok := specialArity(name); ok {
		return n
	}
	if defn, ok := x.c.ctx.Lookup(name); ok {
		return templateArity(defn)
	}
	return 1
}

// invoke expands the collected macro call.
func (x *expansion) invoke() error {
	name := x.name.String()
	args := x.args
	x.state = stateNormal

	*x.budget--
	if *x.budget < 0 {
		return &ConversionError{Macro: name, Err: ErrRecursionLimit}
	}

	if n, ok := specialArity(name); ok {
		if len(args) != n {
			return x.fail(name, "takes exactly %d braced argument(s), got %d", n, len(args))
		}
		return x.special(name, args)
	}

	if defn, ok := x.c.ctx.Lookup(name); ok {
		return x.push(name, substitute(defn, args))
	}
	if len(args) == 1 {
		if defn, ok := x.composite(name, args[0]); ok {
			return x.push(name, defn)
		}
	}
	x.out.WriteString("<em>don't know how to expand macro " + name + "</em>")
	x.c.unknownMacro(name)
	return nil
}

// composite looks up name+arg, as in \'e or \c{c}. An argument that is
// itself a macro such as \foo is expanded once first.
func (x *expansion) composite(name, arg string) (string, bool) {
	if defn, ok := x.c.ctx.Lookup(name + arg); ok {
		return defn, true
	}
	inner, ok := strings.CutPrefix(arg, `\`)
	if !ok || inner == "" {
		return "", false
	}
	text, ok := x.c.ctx.Lookup(inner)
	if !ok {
		return "", false
	}
	return x.c.ctx.Lookup(name + text)
}

// push queues text for rescanning one level deeper than the call.
func (x *expansion) push(macro, text string) error {
	if err := x.in.push(text, x.depth+1); err != nil {
		return &ConversionError{Macro: macro, Err: err}
	}
	return nil
}

// evaluate fully expands an argument, without sentence casing.
func (x *expansion) evaluate(arg string) (string, error) {
	return x.c.expand(arg, false, x.depth+1, x.budget)
}

// substitute replaces #1 to #9 in defn with the matching argument. Missing
// arguments are empty.
func substitute(defn string, args []string) string {
	if !strings.ContainsRune(defn, '#') {
		return defn
	}
	var sb strings.Builder
	for i := 0; i < len(defn); i++ {
		if defn[i] == '#' && i+1 < len(defn) && defn[i+1] >= '1' && defn[i+1] <= '9' {
			if n := int(defn[i+1] - '1'); n < len(args) {
				sb.WriteString(args[n])
			}
			i++
			continue
		}
		sb.WriteByte(defn[i])
	}
	return sb.String()
}

// templateArity returns the highest parameter number used in defn.
func templateArity(defn string) int {
	n := 0
	for i := 0; i+1 < len(defn); i++ {
		if defn[i] == '#' && defn[i+1] >= '1' && defn[i+1] <= '9' {
			n = max(n, int(defn[i+1]-'0'))
		}
	}
	return min(n, maxArgs)
}
