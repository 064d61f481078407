package configcmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/config"
	"github.com/open-cli-collective/bibweb/internal/view"
	"github.com/open-cli-collective/bibweb/pkg/tex"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current bibweb configuration with value source indicators.`,
		Example: `  # Show current config
  bibweb config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(path string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(path)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar, fallback string) {
		_, _ = bold.Fprintf(w, "%-16s", label+":")
		if value == "" {
			_, _ = dim.Fprintf(w, "%s  (default)\n", fallback)
			return
		}
		fmt.Fprint(w, value)

		source := "config"
		if v := os.Getenv(envVar); v != "" && v == value && v != fileValue {
			source = envVar
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	itoa := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	printField("Author", cfg.Author, fileCfg.Author, "BIBWEB_AUTHOR", "Unknown Author")
	printField("Stylesheet", cfg.Stylesheet, fileCfg.Stylesheet, "BIBWEB_STYLESHEET", "default.css")
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "BIBWEB_OUTPUT_FORMAT", "html")
	printField("Max depth", itoa(cfg.MaxDepth), itoa(fileCfg.MaxDepth), "BIBWEB_MAX_DEPTH", strconv.Itoa(tex.DefaultMaxDepth))
	printField("Max expansions", itoa(cfg.MaxExpansions), itoa(fileCfg.MaxExpansions), "", strconv.Itoa(tex.DefaultMaxExpansions))
	_, _ = bold.Fprintf(w, "%-16s", "Sentence case:")
	fmt.Fprintln(w, cfg.SentenceCaseTitles)

	if len(cfg.Macros) > 0 {
		names := make([]string, 0, len(cfg.Macros))
		for name := range cfg.Macros {
			names = append(names, name)
		}
		sort.Strings(names)
		_, _ = bold.Fprintf(w, "%-16s", "Macros:")
		fmt.Fprintln(w, view.Count(len(names), "definition"))
		for _, name := range names {
			fmt.Fprintf(w, "  \\%s = %s\n", name, view.Truncate(cfg.Macros[name], 50))
		}
	}

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", path)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
