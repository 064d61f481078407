package configcmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bibweb/internal/config"
	"github.com/open-cli-collective/bibweb/internal/view"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that the configuration is valid and its macros expand",
		Long: `Validate the current configuration, then expand every configured macro
with the configured limits and report the ones that fail.`,
		Example: `  # Test configuration
  bibweb config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runTest(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(path string, noColor bool, w io.Writer) error {
	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(w)

	cfg, err := config.Resolve(path)
	if err != nil {
		renderer.Error(err.Error())
		renderer.RenderText("\nReconfigure with: bibweb init")
		return err
	}
	renderer.Success("Configuration is valid")

	seeds := cfg.SeedMacros()
	names := make([]string, 0, len(seeds))
	for name := range seeds {
		names = append(names, name)
	}
	sort.Strings(names)

	conv := cfg.NewConverter()
	failed := 0
	for _, name := range names {
		if _, err := conv.Convert(`\`+name, false); err != nil {
			renderer.Error(fmt.Sprintf("\\%s: %v", name, err))
			failed++
		}
	}
	for _, msg := range conv.Warnings() {
		renderer.Warning(msg)
	}
	if failed > 0 {
		return fmt.Errorf("%s failed to expand", view.Count(failed, "macro definition"))
	}
	renderer.Success(fmt.Sprintf("%s expanded", view.Count(len(names), "macro definition")))
	return nil
}
