package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bibweb/internal/bib"
	"github.com/open-cli-collective/bibweb/pkg/tex"
)

const testRecords = `
turing36:
  type: article
  title: On Computable Numbers, with an Application to the Entscheidungsproblem
  author: Turing, Alan
  journal: Proceedings of the London Mathematical Society
  year: 1936
lovelace43:
  type: misc
  title: Notes on the Analytical Engine
  author: Ada Lovelace
  year: 1843
hoare69:
  type: inproceedings
  title: An Axiomatic Basis
  author: C. A. R. Hoare
  booktitle: CACM Symposium
  year: 1969
  topics: [semantics]
`

func testOptions() Options {
	return Options{
		Now: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
		LookupEnv: func(name string) (string, bool) {
			if name == "USER" {
				return "ada", true
			}
			return "", false
		},
	}
}

// setup writes the records and script into a temporary directory and
// returns the script path.
func setup(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.yml"), []byte(testRecords), 0600))
	path := filepath.Join(dir, "pubs.bib")
	require.NoError(t, os.WriteFile(path, []byte(script), 0600))
	return path
}

func run(t *testing.T, script string, opts Options) (*Runner, string) {
	t.Helper()
	path := setup(t, script)
	r := NewRunner(tex.NewConverter(tex.Options{}), opts)
	require.NoError(t, r.RunFile(path))
	return r, filepath.Dir(path)
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestRunner_Generate(t *testing.T) {
	r, dir := run(t, `
records: records.yml
pubformat: <li>\key: \title</li>
generate {
  output: out.html
  header: <h1>\USER</h1>
  footer: <p>end</p>
  section {
    intro: <h2>Articles</h2>
    select {
      pubtype: article
    }
  }
  section {
    intro: <h2>Everything</h2>
  }
}
`, testOptions())

	require.NoError(t, r.Errors())
	out := readOutput(t, dir, "out.html")

	assert.True(t, strings.HasPrefix(out, "<h1>ada</h1>"), out)
	assert.True(t, strings.HasSuffix(out, "<p>end</p>"), out)
	assert.Contains(t, out, "<h2>Articles</h2>\n<ul class=pubs>\n<li>turing36: On Computable Numbers")
	assert.Contains(t, out, "<h2>Everything</h2>\n<ul class=pubs>\n<li>hoare69: An Axiomatic Basis</li>\n<li>turing36:")
	assert.Equal(t, 2, strings.Count(out, "</ul>"))

	require.Len(t, r.Outputs(), 1)
	assert.Equal(t, Output{Path: filepath.Join(dir, "out.html"), Format: FormatHTML, Sections: 2, Publications: 4}, r.Outputs()[0])
	assert.Equal(t, 3, r.Store().Len())
}

func TestRunner_GenerateScopeDoesNotLeak(t *testing.T) {
	r, _ := run(t, `
records: records.yml
generate {
  output: out.html
  intro: inner
}
`, testOptions())

	v, ok := r.conv.Lookup("intro")
	assert.True(t, ok)
	assert.Equal(t, "<h2>Publications</h2>", v)
}

func TestRunner_PubsSelectsAndAnnotates(t *testing.T) {
	r, dir := run(t, `
records: records.yml
pubs {
  turing36 {
    topic: computability, logic
    note: seminal
  }
  lovelace43 {
    topic: computability
  }
  nobody {
  }
}
pubformat: <li>\key \note</li>
generate {
  output: out.html
  header:
  footer:
  section {
    select {
      topic: computability
      author: turing
    }
    select {
      topic: semantics
    }
  }
}
`, testOptions())

	require.Error(t, r.Errors())
	assert.Contains(t, r.Errors().Error(), "no record for publication nobody")

	p, _ := r.Store().Get("turing36")
	assert.Equal(t, []string{"computability", "logic"}, p.Topics)

	out := readOutput(t, dir, "out.html")
	assert.Contains(t, out, "<li>turing36 seminal</li>")
	assert.NotContains(t, out, "lovelace43")
	// hoare69 was not chosen by pubs, so its topic does not matter.
	assert.NotContains(t, out, "hoare69")
}

func TestRunner_SentenceCaseTitles(t *testing.T) {
	opts := testOptions()
	opts.SentenceCaseTitles = true
	_, dir := run(t, `
records: records.yml
pubformat: <li>\title</li>
generate {
  output: out.html
  header:
  footer:
  section {
    select {
      pubtype: article
    }
  }
}
`, opts)

	out := readOutput(t, dir, "out.html")
	assert.Contains(t, out, "<li>On computable numbers, with an application to the entscheidungsproblem</li>")
}

func TestRunner_Markdown(t *testing.T) {
	r, dir := run(t, `
records: records.yml
pubformat: <li>\title</li>
generate {
  output: out.md
  format: markdown
  section {
    select {
      key: lovelace43
    }
  }
}
`, testOptions())

	require.NoError(t, r.Errors())
	out := readOutput(t, dir, "out.md")
	assert.Contains(t, out, "## Publications")
	assert.Contains(t, out, "- Notes on the Analytical Engine")
	assert.NotContains(t, out, "<ul")
	assert.Equal(t, FormatMarkdown, r.Outputs()[0].Format)
}

func TestRunner_ConversionErrorsAreCollected(t *testing.T) {
	r, dir := run(t, `
records: records.yml
pubformat: <li>\textbf{\title</li>
generate {
  output: out.html
  header:
  footer:
  section {
    select {
      key: hoare69
    }
  }
}
`, testOptions())

	require.Error(t, r.Errors())
	out := readOutput(t, dir, "out.html")
	assert.Contains(t, out, "<em>HTML conversion failed on")
}

func TestRunner_FatalWriteStopsTheRun(t *testing.T) {
	path := setup(t, `
records: records.yml
pubformat: \setpubinfo{nobody}{note}{x}
generate {
  output: out.html
  section {
    intro: x
  }
}
`)
	r := NewRunner(tex.NewConverter(tex.Options{}), testOptions())

	err := r.RunFile(path)
	require.Error(t, err)
	assert.True(t, tex.IsFatal(err))
	_, statErr := os.Stat(filepath.Join(filepath.Dir(path), "out.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_Include(t *testing.T) {
	path := setup(t, "include: macros.bib\nrecords: records.yml\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "macros.bib"), []byte("greeting: hello\n"), 0600))

	r := NewRunner(tex.NewConverter(tex.Options{}), testOptions())
	require.NoError(t, r.RunFile(path))

	v, ok := r.conv.Lookup("greeting")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.Equal(t, 3, r.Store().Len())
	assert.Contains(t, r.Warnings(), "no generate entry found, nothing generated")
}

func TestRunner_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"missing records", "records: nope.yml\n", "failed to open records"},
		{"bad format", "generate {\n  output: x.html\n  format: pdf\n}\n", `unknown format "pdf"`},
		{"two outputs", "generate {\n  output: a.html\n  output: b.html\n}\n", "only one output"},
		{"generate without block", "generate: out.html\n", "needs a { } block"},
		{"missing include", "include: nope.bib\n", "failed to include"},
		{"syntax", "oops\n", "expected ':' or '{'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setup(t, tt.script)
			r := NewRunner(tex.NewConverter(tex.Options{}), testOptions())
			err := r.RunFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRunner_EnvironmentMacros(t *testing.T) {
	c := tex.NewConverter(tex.Options{})
	NewRunner(c, testOptions())

	v, ok := c.Lookup("USER")
	assert.True(t, ok)
	assert.Equal(t, "ada", v)

	_, ok = c.Lookup("HOME")
	assert.False(t, ok)

	v, _ = c.Lookup("DATE")
	assert.Equal(t, "Fri Mar  1 12:00:00 UTC 2024", v)
}

func TestFilters(t *testing.T) {
	store, err := bib.Load(strings.NewReader(testRecords))
	require.NoError(t, err)
	turing, _ := store.Get("turing36")
	hoare, _ := store.Get("hoare69")

	tests := []struct {
		name, value string
		turing      bool
		hoare       bool
	}{
		{"all", "", true, true},
		{"pubtype", "ARTICLE", true, false},
		{"topic", "semantics", false, true},
		{"author", "alan tur", true, false},
		{"author", "hoare", false, true},
		{"year", "1969", false, true},
		{"key", "turing36", true, false},
		{"journal", "Proceedings of the London Mathematical Society", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			f := NewFilter(tt.name, tt.value)
			assert.Equal(t, tt.turing, f(turing))
			assert.Equal(t, tt.hoare, f(hoare))
		})
	}
}
