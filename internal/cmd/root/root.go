// Package root provides the root command for the bibweb CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/cmd/completion"
	"github.com/open-cli-collective/bibweb/internal/cmd/configcmd"
	"github.com/open-cli-collective/bibweb/internal/cmd/convert"
	"github.com/open-cli-collective/bibweb/internal/cmd/defns"
	initcmd "github.com/open-cli-collective/bibweb/internal/cmd/init"
	"github.com/open-cli-collective/bibweb/internal/cmd/run"
	"github.com/open-cli-collective/bibweb/internal/version"
)

// NewCmdRoot creates the root command for bibweb.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bibweb",
		Short: "Generate publication list pages from TeX-style templates",
		Long: `bibweb expands TeX-style macro templates over a file of publication
records and writes the resulting publication list pages as HTML or Markdown.

A script names the record file, defines macros, and lists the pages to
generate with their sections.

Get started by running: bibweb init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/bibweb/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	cmd.SetVersionTemplate(version.Template())

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(run.NewCmdRun())
	cmd.AddCommand(convert.NewCmdConvert())
	cmd.AddCommand(defns.NewCmdDefns())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
