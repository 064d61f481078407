// Package defns provides the defns command for bibweb.
package defns

import (
	"io"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/config"
	"github.com/open-cli-collective/bibweb/internal/view"
	"github.com/open-cli-collective/bibweb/pkg/tex"
)

type defnsOptions struct {
	query      string
	width      int
	configPath string
	output     string
	noColor    bool
	out        io.Writer
}

type definition struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
	Source     string `json:"source"`
}

// NewCmdDefns creates the defns command.
func NewCmdDefns() *cobra.Command {
	opts := &defnsOptions{}

	cmd := &cobra.Command{
		Use:     "defns [query]",
		Aliases: []string{"macros"},
		Short:   "List macro definitions",
		Long: `List the built-in macros and the macros added by the configuration.
A configured macro replaces the built-in one of the same name.

Names starting with a backslash describe the special macros, which are
implemented by the expander rather than by a template.

An optional query keeps only names that fuzzily match it.`,
		Example: `  # All definitions
  bibweb defns

  # Accents on e
  bibweb defns e -o plain

  # Everything as JSON
  bibweb defns -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.query = args[0]
			}
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			return runDefns(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "w", 60, "truncate definitions to this many columns in table output")

	return cmd
}

func runDefns(opts *defnsOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}

	defns := collect(cfg)
	if opts.query != "" {
		defns = filter(defns, opts.query)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.out)

	if renderer.Format() == view.FormatJSON {
		if defns == nil {
			defns = []definition{}
		}
		return renderer.RenderJSON(defns)
	}

	if len(defns) == 0 {
		renderer.RenderText("No macros found.")
		return nil
	}

	rows := make([][]string, len(defns))
	for i, d := range defns {
		text := strings.ReplaceAll(d.Definition, "\n", `\n`)
		if renderer.Format() == view.FormatTable && opts.width > 0 {
			text = view.Truncate(text, opts.width)
		}
		rows[i] = []string{d.Name, text, d.Source}
	}
	renderer.RenderTable([]string{"NAME", "DEFINITION", "SOURCE"}, rows)
	return nil
}

// collect returns the built-in table with the configured macros applied,
// sorted by name.
func collect(cfg *config.Config) []definition {
	byName := make(map[string]definition)
	for _, b := range append(tex.Builtins(), tex.Descriptions()...) {
		byName[b.Name] = definition{Name: b.Name, Definition: b.Definition, Source: "builtin"}
	}
	for name, defn := range cfg.SeedMacros() {
		byName[name] = definition{Name: name, Definition: defn, Source: "config"}
	}

	defns := make([]definition, 0, len(byName))
	for _, d := range byName {
		defns = append(defns, d)
	}
	sort.Slice(defns, func(i, j int) bool { return defns[i].Name < defns[j].Name })
	return defns
}

func filter(defns []definition, query string) []definition {
	var out []definition
	for _, d := range defns {
		if fuzzy.MatchFold(query, strings.TrimPrefix(d.Name, `\`)) {
			out = append(out, d)
		}
	}
	return out
}
