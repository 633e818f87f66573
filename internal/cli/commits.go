package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newCommitsCmd builds the command that prints the request a backend would receive.
func newCommitsCmd(root *rootOptions) *cobra.Command {
	opts := &rangeOptions{}
	var format string

	cmd := &cobra.Command{
		Use:   "commits",
		Short: "Print the commits that would be sent to the backend",
		Long: `Print the normalized request (version, date and commit subjects/bodies)
that ai-changelog would send to the backend, without calling it.

Hashes, authors and merge commits are never part of the request.`,
		Example: `  # Commits since the last tag as YAML
  ai-changelog commits

  # A specific range as JSON
  ai-changelog commits --from v1.0.0 --to v1.1.0 --format json`,
		GroupID: GroupGenerate,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return withExitCode(ExitInvalidArguments, fmt.Errorf("invalid --format %q (valid options: yaml, json)", format))
			}

			sess, err := openSession(root)
			if err != nil {
				return err
			}
			req, err := sess.buildRequest(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(req)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(req); err != nil {
				return fmt.Errorf("encoding request: %w", err)
			}
			return enc.Close()
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")

	return cmd
}
