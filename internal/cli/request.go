package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ariel-frischer/ai-changelog/internal/config"
	clierrors "github.com/ariel-frischer/ai-changelog/internal/errors"
	"github.com/ariel-frischer/ai-changelog/internal/git"
	"github.com/ariel-frischer/ai-changelog/internal/output"
	"github.com/ariel-frischer/ai-changelog/internal/provider"
	"github.com/ariel-frischer/ai-changelog/internal/release"
	"github.com/spf13/cobra"
)

// now is the clock used for the default section date.
var now = time.Now

// rangeOptions selects the commits and labels that make up a request.
type rangeOptions struct {
	from         string
	to           string
	versionLabel string
	date         string
	linkCommits  bool
	fetch        bool
}

func (o *rangeOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.from, "from", "", "Start of the range, exclusive (default: last tag)")
	cmd.Flags().StringVar(&o.to, "to", "HEAD", "End of the range, inclusive")
	cmd.Flags().StringVar(&o.versionLabel, "version-label", "", "Version for the heading (default: config, package.json, VERSION)")
	cmd.Flags().StringVar(&o.date, "date", "", "Date for the heading, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&o.linkCommits, "link-commits", false, "Append a link to each commit on the origin remote")
	cmd.Flags().BoolVar(&o.fetch, "fetch", false, "Fetch tags from remotes before resolving the range")
}

// session is the loaded state shared by commands that work on a repository.
type session struct {
	root string
	cfg  *config.Configuration
}

// openSession locates the repository and loads configuration relative to it.
func openSession(opts *rootOptions) (*session, error) {
	if !git.IsGitRepository(opts.repo) {
		return nil, withExitCode(ExitMissingDependencies, clierrors.NotGitRepository(opts.repo))
	}
	root, err := git.GetRepositoryRoot(opts.repo)
	if err != nil {
		return nil, withExitCode(ExitMissingDependencies, clierrors.Wrap(err, clierrors.Prerequisite))
	}

	cfg, err := loadConfig(opts, root)
	if err != nil {
		return nil, err
	}
	return &session{root: root, cfg: cfg}, nil
}

// loadConfig loads configuration with the project config taken from dir.
func loadConfig(opts *rootOptions, dir string) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ExplicitPath:      opts.configPath,
		ProjectConfigPath: filepath.Join(dir, config.ProjectConfigPath()),
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, clierrors.Wrap(err, clierrors.Configuration,
			"Check the file and line reported above",
			"Run 'ai-changelog config keys' to list valid keys",
		))
	}
	return cfg, nil
}

// buildRequest resolves the commit range and labels into a provider request.
// Progress notes go to status.
func (s *session) buildRequest(ctx context.Context, opts *rangeOptions, status io.Writer) (provider.Request, error) {
	if opts.fetch {
		fetchCtx, cancel := context.WithTimeout(ctx, git.DefaultFetchTimeout)
		ok, err := git.FetchTags(fetchCtx, s.root)
		cancel()
		if err != nil {
			return provider.Request{}, withExitCode(ExitGenerationFailed, clierrors.WrapWithMessage(err, clierrors.Runtime, "fetching tags"))
		}
		if !ok {
			output.PrintWarning(status, "some remotes could not be fetched; tags may be incomplete")
		}
	}

	from := opts.from
	if from == "" {
		tag, err := git.LastTag(s.root)
		if err != nil {
			return provider.Request{}, withExitCode(ExitGenerationFailed, clierrors.WrapWithMessage(err, clierrors.Runtime, "finding last tag"))
		}
		if tag == "" {
			output.PrintWarning(status, "no tags found; using the entire history")
		}
		from = tag
	}

	commits, err := git.Commits(s.root, from, opts.to)
	if err != nil {
		return provider.Request{}, rangeError(err, from, opts.to)
	}
	if len(commits) == 0 {
		return provider.Request{}, withExitCode(ExitInvalidArguments, clierrors.NoCommits(from, opts.to))
	}
	output.PrintStep(status, "Found %d commits in %s", len(commits), describeRange(from, opts.to))

	version, err := release.Resolve(s.root, opts.versionLabel, s.cfg.Version)
	if err != nil {
		if errors.Is(err, release.ErrVersionNotFound) {
			return provider.Request{}, withExitCode(ExitInvalidArguments, clierrors.VersionNotFound())
		}
		return provider.Request{}, withExitCode(ExitMissingDependencies, clierrors.Wrap(err, clierrors.Prerequisite))
	}

	date := now()
	if opts.date != "" {
		date, err = time.Parse(provider.DateLayout, opts.date)
		if err != nil {
			return provider.Request{}, withExitCode(ExitInvalidArguments, clierrors.InvalidDate(opts.date))
		}
	}

	entries := toEntries(commits, s.commitLinker(opts.linkCommits || s.cfg.LinkCommits, status))

	req, err := provider.NewRequest(version.Label, date, entries)
	if err != nil {
		return provider.Request{}, withExitCode(ExitInvalidArguments, clierrors.NoCommits(from, opts.to))
	}
	return req, nil
}

// commitLinker returns a function producing the web URL of a commit, or nil
// when linking is disabled or the origin remote is not a known host form.
func (s *session) commitLinker(enabled bool, status io.Writer) func(hash string) string {
	if !enabled {
		return nil
	}
	remote, err := git.RemoteURL(s.root, "origin")
	if err != nil || git.WebURL(remote) == "" {
		output.PrintWarning(status, "cannot link commits: no usable 'origin' remote")
		return nil
	}
	return func(hash string) string { return git.CommitURL(remote, hash) }
}

// toEntries converts commits to request entries, appending a markdown link to
// each subject when link is non-nil.
func toEntries(commits []git.Commit, link func(hash string) string) []provider.CommitEntry {
	entries := make([]provider.CommitEntry, len(commits))
	for i, c := range commits {
		subject := c.Subject
		if link != nil {
			subject = fmt.Sprintf("%s ([%s](%s))", subject, c.ShortHash(), link(c.Hash))
		}
		entries[i] = provider.CommitEntry{Subject: subject, Body: c.Body}
	}
	return entries
}

// rangeError maps a git range failure to a CLI error naming the bad ref.
func rangeError(err error, from, to string) error {
	if !errors.Is(err, git.ErrRefNotFound) {
		return withExitCode(ExitGenerationFailed, clierrors.WrapWithMessage(err, clierrors.Runtime, "reading commits"))
	}
	ref := to
	if from != "" && strings.Contains(err.Error(), strconv.Quote(from)) {
		ref = from
	}
	return withExitCode(ExitInvalidArguments, clierrors.RefNotFound(ref, err))
}

func describeRange(from, to string) string {
	if from == "" {
		return to
	}
	return from + ".." + to
}
