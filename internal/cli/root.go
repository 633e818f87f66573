// Package cli implements the ai-changelog command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	clierrors "github.com/ariel-frischer/ai-changelog/internal/errors"
	"github.com/ariel-frischer/ai-changelog/internal/git"
	"github.com/ariel-frischer/ai-changelog/internal/provider"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	repo       string
	debug      bool
}

// newRootCmd builds the command tree. The root command itself generates a
// changelog section.
func newRootCmd() *cobra.Command {
	root := &rootOptions{}
	gen := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "ai-changelog",
		Short: "Generate a Keep a Changelog section from git history with an LLM",
		Long: `ai-changelog reads the commits since the last tag, asks an LLM backend
(OpenAI or xAI) to summarize them, and prints or writes a single
Keep a Changelog section.

Configuration is loaded with the following priority (highest to lowest):
  1. --config file
  2. Environment variables (AI_CHANGELOG_*)
  3. Project config (.ai-changelog.yml)
  4. User config (~/.config/ai-changelog/config.yml)
  5. Built-in defaults

Credentials: OPENAI_API_KEY for openai; XAI_API_KEY or GITHUB_TOKEN for xai.`,
		Example: `  # Preview the section for everything since the last tag
  ai-changelog

  # Prepend the section to CHANGELOG.md
  ai-changelog --write

  # Explicit range and version with OpenAI
  ai-changelog --from v1.1.0 --to main --version-label 1.2.0 --provider openai

  # Write only the new section, e.g. for release notes
  ai-changelog --out RELEASE_NOTES.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureDebug(cmd.ErrOrStderr(), root.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, gen)
		},
	}

	cmd.PersistentFlags().StringVarP(&root.configPath, "config", "c", "", "Path to a config file (overrides all other sources)")
	cmd.PersistentFlags().StringVarP(&root.repo, "repo", "C", ".", "Run as if started in this directory")
	cmd.PersistentFlags().BoolVar(&root.debug, "debug", false, "Print debug logs to stderr")

	gen.register(cmd)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return withExitCode(ExitInvalidArguments, err)
	})

	cmd.AddGroup(
		&cobra.Group{ID: GroupGenerate, Title: "Generation:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupInfo, Title: "Info:"},
	)
	cmd.AddCommand(
		newCommitsCmd(root),
		newConfigCmd(root),
		newVersionCmd(),
	)

	return cmd
}

// configureDebug wires the package debug hooks to w, or disables them.
func configureDebug(w io.Writer, enabled bool) {
	if !enabled {
		git.SetDebugLogger(nil)
		provider.SetDebugLogger(nil)
		return
	}
	logger := func(format string, args ...any) {
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	}
	git.SetDebugLogger(logger)
	provider.SetDebugLogger(logger)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := newRootCmd()
	err := cmd.ExecuteContext(context.Background())
	reportError(cmd.ErrOrStderr(), err)
	return ExitCode(err)
}

// reportError prints err with its category and remediation, if it has any.
func reportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	if exitErr, ok := err.(*ExitError); ok && exitErr.Err == nil {
		return
	}
	clierrors.FprintSimpleError(w, err, clierrors.Runtime)
}
