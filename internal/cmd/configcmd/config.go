// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// envVars are the environment variables that override the config file.
var envVars = []string{"BIBWEB_AUTHOR", "BIBWEB_STYLESHEET", "BIBWEB_OUTPUT_FORMAT", "BIBWEB_MAX_DEPTH"}

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bibweb configuration",
		Long:  `Commands for viewing, testing, and clearing bibweb configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
