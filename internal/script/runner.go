// runner.go executes script entries.
package script

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/open-cli-collective/bibweb/internal/bib"
	"github.com/open-cli-collective/bibweb/pkg/markup"
	"github.com/open-cli-collective/bibweb/pkg/scan"
	"github.com/open-cli-collective/bibweb/pkg/tex"
)

// Output formats for generated pages.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Options configures a Runner.
type Options struct {
	// SentenceCaseTitles lower-cases titles after their first letter,
	// except inside braces.
	SentenceCaseTitles bool
	// Format is the default output format, FormatHTML if empty.
	Format string
	// Now returns the time used for the DATE macro.
	Now func() time.Time
	// LookupEnv reads the environment for the HOME and USER macros.
	LookupEnv func(string) (string, bool)
}

// Output describes one generated file.
type Output struct {
	Path         string `json:"path"`
	Format       string `json:"format"`
	Sections     int    `json:"sections"`
	Publications int    `json:"publications"`
}

// Runner executes scripts against a converter. Problems confined to one
// piece of text are collected and reported by Errors; Run stops only on
// fatal errors.
type Runner struct {
	conv     *tex.Converter
	opts     Options
	store    *bib.Store
	selected []*bib.Publication // from a pubs entry; nil means every record
	outputs  []Output
	errs     *multierror.Error
	warnings []string
	baseDir  string
}

// NewRunner returns a runner using conv. The HOME, USER and DATE macros
// are defined in conv's current scope.
func NewRunner(conv *tex.Converter, opts Options) *Runner {
	if opts.Format == "" {
		opts.Format = FormatHTML
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	r := &Runner{conv: conv, opts: opts, store: bib.NewStore(), baseDir: "."}

	ctx := conv.Context()
	home, ok := opts.LookupEnv("HOME")
	ctx.AddMaybe("HOME", home, ok)
	user, ok := opts.LookupEnv("USER")
	ctx.AddMaybe("USER", user, ok)
	ctx.Add("DATE", opts.Now().Format(time.UnixDate))
	return r
}

// Store returns the loaded records.
func (r *Runner) Store() *bib.Store {
	return r.store
}

// Outputs returns the files generated so far.
func (r *Runner) Outputs() []Output {
	return r.outputs
}

// Errors returns the non-fatal errors of the run, or nil.
func (r *Runner) Errors() error {
	return r.errs.ErrorOrNil()
}

// Warnings returns the runner's and the converter's warnings.
func (r *Runner) Warnings() []string {
	return append(append([]string(nil), r.warnings...), r.conv.Warnings()...)
}

func (r *Runner) addWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	log.Printf("WARN: "+format, args...)
}

func (r *Runner) addError(err error) {
	r.errs = multierror.Append(r.errs, err)
}

// RunFile runs the script in path. Relative paths in the script are
// resolved against the script's directory.
func (r *Runner) RunFile(path string) error {
	s, err := scan.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer s.Close()
	r.baseDir = filepath.Dir(path)
	return r.Run(s)
}

// Run executes every entry read from s.
func (r *Runner) Run(s *scan.Scanner) error {
	p := NewParser(s)
	generated := false
	for {
		e, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if e.Name == "generate" {
			generated = true
		}
		if err := r.entry(s, e); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if !generated {
		r.addWarning("no generate entry found, nothing generated")
	}
	return nil
}

func (r *Runner) entry(s *scan.Scanner, e Entry) error {
	switch e.Name {
	case "records":
		return r.records(e)
	case "include":
		path, err := r.path(e)
		if err != nil {
			return err
		}
		if err := s.IncludeFile(path); err != nil {
			return fmt.Errorf("%s: failed to include: %w", e.Loc, err)
		}
		return nil
	case "pubs":
		return r.pubs(e)
	case "generate":
		return r.generate(e)
	}
	r.conv.AddMacro(e.Name, e.Value)
	return nil
}

// expand converts text. Non-fatal conversion errors are recorded and
// replaced by an inline message.
func (r *Runner) expand(text string, sentenceCase bool) (string, error) {
	out, err := r.conv.Convert(text, sentenceCase)
	if err == nil {
		return out, nil
	}
	if tex.IsFatal(err) {
		return "", err
	}
	r.addError(err)
	var ce *tex.ConversionError
	msg := err.Error()
	if errors.As(err, &ce) && ce.Msg != "" {
		msg = ce.Msg
	}
	return "<em>HTML conversion failed on " + text + ": " + msg + "</em>", nil
}

// path expands the entry value and resolves it against the script's
// directory.
func (r *Runner) path(e Entry) (string, error) {
	p, err := r.expand(e.Value, false)
	if err != nil {
		return "", err
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("%s: %s needs a file name", e.Loc, e.Name)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.baseDir, p)
	}
	return p, nil
}

func (r *Runner) records(e Entry) error {
	path, err := r.path(e)
	if err != nil {
		return err
	}
	store, err := bib.LoadFile(path)
	if store == nil {
		return fmt.Errorf("%s: %w", e.Loc, err)
	}
	if err != nil {
		r.addError(fmt.Errorf("%s: %w", e.Loc, err))
	}
	r.store = store
	r.selected = nil
	r.conv.SetProvider(store)
	return nil
}

// sub parses the body of a block entry.
func (r *Runner) sub(e Entry) ([]Entry, error) {
	if !e.Block {
		return nil, fmt.Errorf("%s: %w: %s needs a { } block", e.Loc, ErrSyntax, e.Name)
	}
	return ParseString(fmt.Sprintf("%s:%d:%s", e.Loc.Source, e.Loc.Line, e.Name), e.Value)
}

// pubs chooses the publications to use and annotates them with topics and
// field overrides.
func (r *Runner) pubs(e Entry) error {
	if r.store.Len() == 0 {
		r.addWarning("%s: pubs used before any records were read", e.Loc)
	}
	entries, err := r.sub(e)
	if err != nil {
		return err
	}
	for _, pe := range entries {
		p, ok := r.store.Get(pe.Name)
		if !ok {
			r.addError(fmt.Errorf("%s: no record for publication %s", pe.Loc, pe.Name))
			continue
		}
		if pe.Block {
			attrs, err := r.sub(pe)
			if err != nil {
				return err
			}
			for _, a := range attrs {
				if a.Name == "topic" || a.Name == "topics" {
					p.AddTopics(Topics(a.Value)...)
					continue
				}
				p.Set(a.Name, a.Value)
			}
		}
		r.selected = append(r.selected, p)
	}
	return nil
}

func (r *Runner) pool() []*bib.Publication {
	if r.selected != nil {
		return r.selected
	}
	return r.store.All()
}

func (r *Runner) generate(e Entry) error {
	entries, err := r.sub(e)
	if err != nil {
		return err
	}

	r.conv.Push()
	defer r.conv.Pop()

	out := Output{Format: r.opts.Format}
	var body strings.Builder
	for _, ge := range entries {
		switch ge.Name {
		case "output":
			if out.Path != "" {
				return fmt.Errorf("%s: a generate entry can have only one output", ge.Loc)
			}
			if out.Path, err = r.path(ge); err != nil {
				return err
			}
		case "format":
			if ge.Value != FormatHTML && ge.Value != FormatMarkdown {
				return fmt.Errorf("%s: unknown format %q (use %s or %s)", ge.Loc, ge.Value, FormatHTML, FormatMarkdown)
			}
			out.Format = ge.Value
		case "section":
			n, err := r.section(&body, ge)
			if err != nil {
				return err
			}
			out.Sections++
			out.Publications += n
		default:
			r.conv.AddMacro(ge.Name, ge.Value)
		}
	}

	if out.Path == "" {
		r.addWarning("%s: no output file in generate, nothing written", e.Loc)
		return nil
	}
	if out.Sections == 0 {
		r.addWarning("%s: no section in generate, no publications listed", e.Loc)
	}

	header, err := r.expand(`\header`, false)
	if err != nil {
		return err
	}
	footer, err := r.expand(`\footer`, false)
	if err != nil {
		return err
	}
	page := header + body.String() + footer

	if out.Format == FormatMarkdown {
		if page, err = markup.FromHTML(page); err != nil {
			return fmt.Errorf("failed to convert %s to markdown: %w", out.Path, err)
		}
		page += "\n"
	}
	if err := os.WriteFile(out.Path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	r.outputs = append(r.outputs, out)
	return nil
}

// section writes one list of publications and returns how many it held.
func (r *Runner) section(w *strings.Builder, e Entry) (int, error) {
	entries, err := r.sub(e)
	if err != nil {
		return 0, err
	}

	r.conv.Push()
	defer r.conv.Pop()

	var chosen []*bib.Publication
	seen := make(map[*bib.Publication]bool)
	anySelect := false
	for _, se := range entries {
		if se.Name != "select" {
			r.conv.AddMacro(se.Name, se.Value)
			continue
		}
		anySelect = true
		conds, err := r.sub(se)
		if err != nil {
			return 0, err
		}
		filters := make([]Filter, len(conds))
		for i, c := range conds {
			filters[i] = NewFilter(c.Name, c.Value)
		}
		for _, p := range r.pool() {
			if !seen[p] && matchAll(filters, p) {
				seen[p] = true
				chosen = append(chosen, p)
			}
		}
	}
	if !anySelect {
		chosen = append(chosen, r.pool()...)
	}
	bib.ByDate(chosen)

	for _, text := range []string{`\intro`, `\openpaperlist`} {
		s, err := r.expand(text, false)
		if err != nil {
			return 0, err
		}
		w.WriteString(s + "\n")
	}
	for _, p := range chosen {
		s, err := r.publication(p)
		if err != nil {
			return 0, err
		}
		w.WriteString(s + "\n")
	}
	s, err := r.expand(`\closepaperlist`, false)
	if err != nil {
		return 0, err
	}
	w.WriteString(s + "\n")
	return len(chosen), nil
}

// publication formats p with \pubformat inside p's bindings.
func (r *Runner) publication(p *bib.Publication) (string, error) {
	r.conv.PushNamespace(p.Namespace())
	defer r.conv.Pop()

	if r.opts.SentenceCaseTitles {
		if raw, ok := p.Field("title"); ok {
			title, err := r.expand(raw, true)
			if err != nil {
				return "", err
			}
			r.conv.PushNamespace(tex.Map{"title": title})
			defer r.conv.Pop()
		}
	}
	return r.expand(`\pubformat`, false)
}
