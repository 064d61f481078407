// Package init provides the init command for bibweb.
package init

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/config"
	"github.com/open-cli-collective/bibweb/internal/view"
)

type initOptions struct {
	author       string
	stylesheet   string
	format       string
	sentenceCase bool
	noInput      bool
	force        bool
	configPath   string
	noColor      bool
	out          io.Writer
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize bibweb configuration",
		Long: `Initialize bibweb with the defaults used by every script run.

This command will guide you through setting the author shown in page
titles, the stylesheet the pages link to, the default output format and
whether titles are sentence-cased. The configuration will be saved to
~/.config/bibweb/config.yml.`,
		Example: `  # Interactive setup
  bibweb init

  # Pre-populate the author
  bibweb init --author "Ada Lovelace"

  # Non-interactive setup
  bibweb init --no-input --author "Ada Lovelace" --format markdown`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.author, "author", "", "author shown in page titles and banners")
	cmd.Flags().StringVar(&opts.stylesheet, "stylesheet", "", "stylesheet the generated pages link to")
	cmd.Flags().StringVar(&opts.format, "format", "html", "default output format: html, markdown")
	cmd.Flags().BoolVar(&opts.sentenceCase, "sentence-case", false, "sentence-case publication titles")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "do not prompt; use the flag values")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing configuration without asking")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	renderer := view.NewRenderer(view.FormatTable, opts.noColor)
	renderer.SetWriter(opts.out)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noInput {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			renderer.RenderText("Initialization cancelled.")
			return nil
		}
	}

	// Keep macros from an existing file
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = &config.Config{}
	}
	if opts.author != "" {
		cfg.Author = opts.author
	}
	if opts.stylesheet != "" {
		cfg.Stylesheet = opts.stylesheet
	}
	cfg.OutputFormat = opts.format
	cfg.SentenceCaseTitles = cfg.SentenceCaseTitles || opts.sentenceCase

	if !opts.noInput {
		if err := newForm(cfg).Run(); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	renderer.Success("Configuration saved to " + configPath)
	renderer.RenderText("\nYou're all set! Try running:")
	renderer.RenderText("  bibweb defns")
	renderer.RenderText("  bibweb run <script>")

	return nil
}

func newForm(cfg *config.Config) *huh.Form {
	formats := make([]huh.Option[string], len(config.OutputFormats))
	for i, f := range config.OutputFormats {
		formats[i] = huh.NewOption(f, f)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Author").
				Description("Shown in page titles and banners").
				Placeholder("Ada Lovelace").
				Value(&cfg.Author),

			huh.NewInput().
				Title("Stylesheet (optional)").
				Description("URL or path the generated pages link to").
				Placeholder("pubs.css").
				Value(&cfg.Stylesheet),

			huh.NewSelect[string]().
				Title("Output format").
				Description("Used when a script does not choose one").
				Options(formats...).
				Value(&cfg.OutputFormat),

			huh.NewConfirm().
				Title("Sentence-case titles?").
				Description("Lower-case title letters after the first, except inside braces").
				Value(&cfg.SentenceCaseTitles),
		),
	)
}
