package cli

import (
	"fmt"

	"github.com/ariel-frischer/ai-changelog/internal/build"
	"github.com/ariel-frischer/ai-changelog/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for ai-changelog",
		Example: `  # Show version info
  ai-changelog version

  # Plain output (for scripts)
  ai-changelog version --plain`,
		GroupID: GroupInfo,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprintf(out, "ai-changelog %s\n", build.Version)
				for _, kv := range build.Info()[1:] {
					fmt.Fprintf(out, "%s: %s\n", kv[0], kv[1])
				}
				return
			}

			output.PrintRule(out, "ai-changelog", 40)
			label := color.New(color.FgCyan).SprintFunc()
			for _, kv := range build.Info() {
				fmt.Fprintf(out, "  %s %s\n", label(fmt.Sprintf("%-9s", kv[0]+":")), kv[1])
			}
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}
