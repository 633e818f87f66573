package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/ai-changelog/internal/changelog"
	"github.com/ariel-frischer/ai-changelog/internal/config"
	clierrors "github.com/ariel-frischer/ai-changelog/internal/errors"
	"github.com/ariel-frischer/ai-changelog/internal/output"
	"github.com/ariel-frischer/ai-changelog/internal/progress"
	"github.com/ariel-frischer/ai-changelog/internal/provider"
	"github.com/spf13/cobra"
)

// generateOptions holds the root command's generation flags.
type generateOptions struct {
	rangeOptions
	write    bool
	out      string
	dryRun   bool
	provider string
	plain    bool
}

func (o *generateOptions) register(cmd *cobra.Command) {
	o.rangeOptions.register(cmd)
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "Prepend the section to the changelog file (config changelog_file)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Write only the section to this file")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the section instead of writing any file")
	cmd.Flags().StringVarP(&o.provider, "provider", "p", "", "Backend: openai or xai (default: config provider)")
	cmd.Flags().BoolVar(&o.plain, "plain", false, "Plain text status output (no colors/icons)")
}

// runGenerate reads the commit range, asks the selected backend for a
// changelog section and previews or writes it.
func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	status := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	sess, err := openSession(root)
	if err != nil {
		return err
	}

	name := sess.cfg.Provider
	if opts.provider != "" {
		name = opts.provider
	}
	apiKey := sess.cfg.APIKey(name)

	p, err := provider.New(name, apiKey,
		provider.WithModel(sess.cfg.Models.For(name)),
		provider.WithBaseURL(sess.cfg.BaseURLs.For(name)),
	)
	if err != nil {
		var unknown *provider.UnknownProviderError
		if errors.As(err, &unknown) {
			return withExitCode(ExitInvalidArguments, clierrors.UnknownProvider(unknown.Name, unknown.Available))
		}
		return err
	}

	req, err := sess.buildRequest(cmd.Context(), &opts.rangeOptions, status)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if sess.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sess.cfg.Timeout)
		defer cancel()
	}

	caps := detectCapabilities(status)
	spin := progress.NewSpinner(status, caps, fmt.Sprintf("Generating %s with %s", req.Heading(), name))
	spin.Start()
	section, err := p.GenerateChangelog(ctx, req)
	if err != nil {
		spin.Fail("")
		return providerFailure(name, apiKey, err)
	}
	spin.Succeed(fmt.Sprintf("%d commits", len(req.Commits)))

	if err := emit(stdout, status, sess, opts, section); err != nil {
		return err
	}

	summary := changelog.Inspect(section)
	return changelog.FormatSummary(summary, status, changelog.FormatOptions{
		Plain: opts.plain || !caps.SupportsColor,
	})
}

// emit previews section or writes it to the requested files.
func emit(stdout, status io.Writer, sess *session, opts *generateOptions, section string) error {
	if opts.dryRun || (!opts.write && opts.out == "") {
		return changelog.FormatPreview(stdout, section)
	}

	if opts.out != "" {
		if err := changelog.WriteSection(opts.out, section); err != nil {
			return withExitCode(ExitGenerationFailed, clierrors.ChangelogWriteFailed(opts.out, err))
		}
		output.PrintSuccess(status, "Wrote %s", opts.out)
	}

	if opts.write {
		path := sess.cfg.ChangelogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(sess.root, path)
		}
		created, err := changelog.Update(path, section)
		if err != nil {
			return withExitCode(ExitGenerationFailed, clierrors.ChangelogWriteFailed(path, err))
		}
		verb := "Updated"
		if created {
			verb = "Created"
		}
		output.PrintSuccess(status, "%s %s", verb, path)
	}
	return nil
}

// providerFailure maps a provider error to a CLI error and exit code.
func providerFailure(name, apiKey string, err error) error {
	var perr *provider.Error
	if !errors.As(err, &perr) {
		return withExitCode(ExitGenerationFailed, clierrors.Wrap(err, clierrors.Runtime))
	}

	envVars := config.CredentialEnvVars(name)
	switch perr.Kind {
	case provider.KindAuthentication:
		if apiKey == "" {
			cliErr := clierrors.MissingAPIKey(name, envVars)
			cliErr.Cause = err
			return withExitCode(ExitConfigError, cliErr)
		}
		return withExitCode(ExitConfigError, clierrors.AuthenticationFailed(err, envVars))
	case provider.KindNetwork:
		code := ExitGenerationFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = ExitTimeout
		}
		return withExitCode(code, clierrors.BackendUnreachable(err))
	case provider.KindEmptyResponse:
		return withExitCode(ExitGenerationFailed, clierrors.EmptyChangelog(err))
	default:
		return withExitCode(ExitGenerationFailed, clierrors.UpstreamFailure(err))
	}
}

// detectCapabilities returns the capabilities of w if it is a file.
func detectCapabilities(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}
