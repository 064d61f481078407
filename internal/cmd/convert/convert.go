// Package convert provides the convert command for bibweb.
package convert

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/bib"
	"github.com/open-cli-collective/bibweb/internal/config"
	"github.com/open-cli-collective/bibweb/internal/view"
	"github.com/open-cli-collective/bibweb/pkg/markup"
)

type convertOptions struct {
	text         string
	file         string
	records      string
	key          string
	sentenceCase bool
	markdown     bool
	configPath   string
	noColor      bool
	in           io.Reader
	out          io.Writer
}

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [template]",
		Short: "Expand a single template",
		Long: `Expand one template with the built-in macros and any macros from the
configuration, and print the result. The template is taken from the
argument, from --file, or from standard input.

With --records and --key the named publication's fields are in scope,
as they are while formatting it in a script.`,
		Example: `  # Expand an accent
  bibweb convert 'Ha\v{c}ek'

  # Format one publication with the default format
  bibweb convert --records pubs.yml --key knuth84 '\pubformat'

  # Expand a template file
  bibweb convert --file header.tex`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.text = args[0]
			}
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.in = cmd.InOrStdin()
			opts.out = cmd.OutOrStdout()
			return runConvert(opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "read the template from a file")
	cmd.Flags().StringVar(&opts.records, "records", "", "YAML record file")
	cmd.Flags().StringVar(&opts.key, "key", "", "publication whose fields are in scope (requires --records)")
	cmd.Flags().BoolVar(&opts.sentenceCase, "sentence-case", false, "lower-case letters after the first one, outside braces")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "print the result as Markdown")

	return cmd
}

func runConvert(opts *convertOptions) error {
	text, err := templateText(opts)
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	conv := cfg.NewConverter()

	if opts.key != "" && opts.records == "" {
		return fmt.Errorf("--key requires --records")
	}
	if opts.records != "" {
		store, err := bib.LoadFile(opts.records)
		if store == nil {
			return err
		}
		if err != nil {
			log.Printf("WARN: %v", err)
		}
		conv.SetProvider(store)
		if opts.key != "" {
			p, ok := store.Get(opts.key)
			if !ok {
				return fmt.Errorf("no publication %q in %s", opts.key, opts.records)
			}
			conv.PushNamespace(p.Namespace())
			defer conv.Pop()
		}
	}

	out, err := conv.Convert(text, opts.sentenceCase)
	if err != nil {
		return err
	}
	if opts.markdown {
		if out, err = markup.FromHTML(out); err != nil {
			return err
		}
	}

	renderer := view.NewRenderer(view.FormatPlain, opts.noColor)
	renderer.SetWriter(opts.out)
	renderer.RenderText(out)
	return nil
}

func templateText(opts *convertOptions) (string, error) {
	switch {
	case opts.text != "" && opts.file != "":
		return "", fmt.Errorf("give either a template or --file, not both")
	case opts.text != "":
		return opts.text, nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read template: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	data, err := io.ReadAll(opts.in)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
