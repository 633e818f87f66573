package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/ai-changelog/internal/config"
	clierrors "github.com/ariel-frischer/ai-changelog/internal/errors"
	"github.com/ariel-frischer/ai-changelog/internal/git"
	"github.com/ariel-frischer/ai-changelog/internal/output"
	"github.com/spf13/cobra"
)

// newConfigCmd builds the config command and its subcommands.
func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ai-changelog configuration",
		Long: `Manage ai-changelog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. --config file
  2. Environment variables (AI_CHANGELOG_*, nested keys use __)
  3. Project config (.ai-changelog.yml)
  4. User config (~/.config/ai-changelog/config.yml)
  5. Built-in defaults`,
		Example: `  # Show the effective configuration
  ai-changelog config show

  # List all keys
  ai-changelog config keys

  # Create a project config
  ai-changelog config init`,
		GroupID: GroupConfiguration,
	}

	cmd.AddCommand(
		newConfigShowCmd(root),
		newConfigKeysCmd(),
		newConfigInitCmd(root),
		newConfigMigrateCmd(root),
	)
	return cmd
}

// projectDir returns the repository root containing opts.repo, or opts.repo
// itself outside a repository.
func projectDir(opts *rootOptions) string {
	if root, err := git.GetRepositoryRoot(opts.repo); err == nil {
		return root
	}
	return opts.repo
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML (credentials redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, projectDir(root))
			if err != nil {
				return err
			}
			data, err := cfg.ToYAML()
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-18s  %-18s  %s\n", "KEY", "TYPE", "DESCRIPTION")
			for _, key := range config.SortedKeys() {
				typ := key.Type.String()
				if len(key.AllowedValues) > 0 {
					typ = fmt.Sprintf("%s(%s)", typ, strings.Join(key.AllowedValues, "|"))
				}
				fmt.Fprintf(out, "%-18s  %-18s  %s\n", key.Path, typ, key.Description)
			}
			return nil
		},
	}
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var user, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config template",
		Long: `Write a commented configuration template.

By default, creates .ai-changelog.yml at the repository root.
Use --user to create the user-level config instead.
An existing file is left unchanged unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(projectDir(root), config.ProjectConfigPath())
			if user {
				var err error
				if path, err = config.UserConfigPath(); err != nil {
					return withExitCode(ExitConfigError, clierrors.Wrap(err, clierrors.Configuration))
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				output.PrintWarning(cmd.ErrOrStderr(), "%s already exists (use --force to overwrite)", path)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			output.PrintSuccess(cmd.ErrOrStderr(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user-level config")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	return cmd
}

func newConfigMigrateCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert a legacy .ai-changelog.json to .ai-changelog.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(root)
			result, err := config.MigrateJSONToYAML(
				filepath.Join(dir, config.LegacyProjectConfigPath()),
				filepath.Join(dir, config.ProjectConfigPath()),
				dryRun,
			)
			if err != nil {
				return withExitCode(ExitConfigError, clierrors.Wrap(err, clierrors.Configuration))
			}
			if result.Success {
				output.PrintSuccess(cmd.ErrOrStderr(), "%s", result.Message)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be migrated without writing")
	return cmd
}
