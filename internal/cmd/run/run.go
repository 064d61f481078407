// Package run provides the run command for bibweb.
package run

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/config"
	"github.com/open-cli-collective/bibweb/internal/script"
	"github.com/open-cli-collective/bibweb/internal/view"
)

type runOptions struct {
	script       string
	format       string
	sentenceCase bool
	maxDepth     int
	quiet        bool
	configPath   string
	output       string
	noColor      bool
	out          io.Writer
}

// summary is the json form of a run's result.
type summary struct {
	Records  int             `json:"records"`
	Outputs  []script.Output `json:"outputs"`
	Warnings []string        `json:"warnings"`
	Errors   []string        `json:"errors"`
}

// NewCmdRun creates the run command.
func NewCmdRun() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Generate publication pages from a script",
		Long: `Run a publication script. The script reads a YAML record file, chooses
and annotates publications, defines macros, and generates one or more pages
whose sections list the selected publications.

Problems confined to one piece of text are reported and replaced by an
inline message; the pages are still written. The command fails when any
such problem occurred.`,
		Example: `  # Generate the pages described in pubs.bib
  bibweb run pubs.bib

  # Write Markdown instead of HTML unless the script says otherwise
  bibweb run pubs.bib --format markdown

  # Report the result as JSON
  bibweb run pubs.bib -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.script = args[0]
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			return runRun(opts, cmd.Flags().Changed("sentence-case"))
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "default page format: html, markdown (overrides config)")
	cmd.Flags().BoolVar(&opts.sentenceCase, "sentence-case", false, "lower-case publication titles after the first letter")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "ceiling on nested macro expansions (overrides config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print warnings")

	return cmd
}

func runRun(opts *runOptions, sentenceCaseSet bool) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return fmt.Errorf("%w (run 'bibweb init' to configure)", err)
	}
	if opts.format != "" {
		cfg.OutputFormat = opts.format
	}
	if opts.maxDepth > 0 {
		cfg.MaxDepth = opts.maxDepth
	}
	if sentenceCaseSet {
		cfg.SentenceCaseTitles = opts.sentenceCase
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	runner := script.NewRunner(cfg.NewConverter(), script.Options{
		SentenceCaseTitles: cfg.SentenceCaseTitles,
		Format:             cfg.OutputFormat,
	})
	runErr := runner.RunFile(opts.script)

	var problems []error
	if merr, ok := runner.Errors().(*multierror.Error); ok {
		problems = merr.Errors
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.out)

	if renderer.Format() == view.FormatJSON {
		s := summary{
			Records:  runner.Store().Len(),
			Outputs:  runner.Outputs(),
			Warnings: runner.Warnings(),
			Errors:   []string{},
		}
		for _, p := range problems {
			s.Errors = append(s.Errors, p.Error())
		}
		if s.Outputs == nil {
			s.Outputs = []script.Output{}
		}
		if err := renderer.RenderJSON(s); err != nil {
			return err
		}
	} else {
		renderSummary(renderer, runner, problems, opts.quiet)
	}

	if runErr != nil {
		return fmt.Errorf("failed to run %s: %w", opts.script, runErr)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s while running %s", view.Count(len(problems), "error"), opts.script)
	}
	return nil
}

func renderSummary(r *view.Renderer, runner *script.Runner, problems []error, quiet bool) {
	if !quiet {
		for _, w := range runner.Warnings() {
			r.Warning(w)
		}
	}
	for _, p := range problems {
		r.Error(p.Error())
	}
	for _, o := range runner.Outputs() {
		r.Success(fmt.Sprintf("Wrote %s (%s, %s, %s)", o.Path, o.Format,
			view.Count(o.Sections, "section"), view.Count(o.Publications, "publication")))
	}
	if len(runner.Outputs()) > 0 {
		r.RenderText(fmt.Sprintf("Read %s.", view.Count(runner.Store().Len(), "record")))
	}
}
