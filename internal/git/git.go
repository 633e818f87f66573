// Package git reads commit history and tags for ai-changelog. It uses the
// go-git library for all operations, so no git CLI installation is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Commit is a single non-merge commit read from history.
// Subject and Body are trimmed of surrounding whitespace.
type Commit struct {
	Hash    string
	Date    string // author date, RFC 3339
	Subject string
	Body    string
}

// ShortHash returns the first seven characters of the commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// ErrRefNotFound is returned when a range endpoint cannot be resolved.
var ErrRefNotFound = errors.New("reference not found")

// openRepo opens a git repository at the specified path or current working directory.
// DetectDotGit lets callers pass any directory inside the worktree.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsGitRepository checks if dir is within a git repository.
func IsGitRepository(dir string) bool {
	_, err := openRepo(dir)
	result := err == nil
	logDebug("[git] IsGitRepository: %v", result)
	return result
}

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] GetRepositoryRoot: %s", root)
	return root, nil
}

// LastTag returns the nearest tag reachable from HEAD, like
// `git describe --tags --abbrev=0`. Returns "" when no tag is reachable.
// When several tags point at the same commit the greatest name wins.
func LastTag(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	tagsByCommit, err := collectTags(repo)
	if err != nil {
		return "", err
	}
	if len(tagsByCommit) == 0 {
		logDebug("[git] LastTag: repository has no tags")
		return "", nil
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history from HEAD: %w", err)
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if names, ok := tagsByCommit[c.Hash]; ok {
			sort.Strings(names)
			found = names[len(names)-1]
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history from HEAD: %w", err)
	}

	logDebug("[git] LastTag: %q", found)
	return found, nil
}

// collectTags maps each tagged commit to its tag names, peeling annotated tags.
func collectTags(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tags := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tagObj, err := repo.TagObject(hash); err == nil {
			commit, err := tagObj.Commit()
			if err != nil {
				// Tags on trees or blobs cannot appear in commit history.
				return nil
			}
			hash = commit.Hash
		}
		tags[hash] = append(tags[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

// Commits returns the non-merge commits reachable from to but not from from,
// newest first (like `git log --no-merges from..to`). An empty from selects
// the whole history of to; an empty to means HEAD.
func Commits(dir, from, to string) ([]Commit, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return nil, err
	}

	if to == "" {
		to = "HEAD"
	}
	toHash, err := resolve(repo, to)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	if from != "" {
		fromHash, err := resolve(repo, from)
		if err != nil {
			return nil, err
		}
		if err := walk(repo, fromHash, func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		}); err != nil {
			return nil, err
		}
	}

	var commits []Commit
	err = walk(repo, toHash, func(c *object.Commit) error {
		if excluded[c.Hash] || c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logDebug("[git] Commits %s..%s: %d commits (%d excluded)", from, to, len(commits), len(excluded))
	return commits, nil
}

// resolve turns a tag, branch, HEAD or (abbreviated) hash into a commit hash.
func resolve(repo *git.Repository, rev string) (plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %q: %w: %v", rev, ErrRefNotFound, err)
	}
	return *hash, nil
}

// walk visits every commit reachable from start in committer-time order.
func walk(repo *git.Repository, start plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("walking history from %s: %w", start, err)
	}
	defer iter.Close()

	if err := iter.ForEach(fn); err != nil {
		return fmt.Errorf("walking history from %s: %w", start, err)
	}
	return nil
}

// toCommit splits the message into subject (first line) and body (the rest).
func toCommit(c *object.Commit) Commit {
	subject, body, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return Commit{
		Hash:    c.Hash.String(),
		Date:    c.Author.When.Format(time.RFC3339),
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
	}
}

// RemoteURL returns the first URL configured for the named remote.
func RemoteURL(dir, name string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("getting remote '%s': %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote '%s' has no URL", name)
	}
	return urls[0], nil
}

// WebURL converts a remote URL into a browsable https URL.
// Handles SCP-style (git@host:owner/repo.git), ssh:// and https:// forms.
func WebURL(remoteURL string) string {
	u := strings.TrimSpace(remoteURL)
	u = strings.TrimSuffix(u, ".git")

	switch {
	case strings.HasPrefix(u, "git@"):
		u = "https://" + strings.Replace(strings.TrimPrefix(u, "git@"), ":", "/", 1)
	case strings.HasPrefix(u, "ssh://"), strings.HasPrefix(u, "git+ssh://"):
		u = u[strings.Index(u, "://")+3:]
		if at := strings.Index(u, "@"); at >= 0 {
			u = u[at+1:]
		}
		if host, path, ok := strings.Cut(u, "/"); ok {
			host, _, _ = strings.Cut(host, ":")
			u = "https://" + host + "/" + path
		}
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		if scheme, rest, ok := strings.Cut(u, "://"); ok {
			if at := strings.Index(rest, "@"); at >= 0 && at < strings.Index(rest+"/", "/") {
				rest = rest[at+1:]
			}
			u = scheme + "://" + rest
		}
	default:
		return ""
	}
	return u
}

// CommitURL returns the web URL of a commit for the given remote URL,
// or "" when the remote URL is not recognized.
func CommitURL(remoteURL, hash string) string {
	base := WebURL(remoteURL)
	if base == "" {
		return ""
	}
	return base + "/commit/" + hash
}

// DefaultFetchTimeout is the default timeout for fetch operations.
const DefaultFetchTimeout = 60 * time.Second

// FetchTags fetches tags from all configured remotes so LastTag sees releases
// cut elsewhere. It continues on failure and returns true if all fetches succeeded.
func FetchTags(ctx context.Context, dir string) (bool, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return false, err
	}

	remotes, err := repo.Remotes()
	if err != nil || len(remotes) == 0 {
		logDebug("[git] FetchTags: no remotes configured")
		return true, nil
	}

	allSucceeded := true
	for _, remote := range remotes {
		if err := ctx.Err(); err != nil {
			logDebug("[git] FetchTags: context cancelled, stopping fetch")
			return allSucceeded, nil
		}
		if err := fetchTagsFromRemote(ctx, repo, remote); err != nil {
			logDebug("[git] FetchTags: failed to fetch tags from remote '%s': %v", remote.Config().Name, err)
			allSucceeded = false
		}
	}

	logDebug("[git] FetchTags: completed, all succeeded: %v", allSucceeded)
	return allSucceeded, nil
}

// fetchTagsFromRemote fetches refs/tags/* from a single remote.
// Skips SSH remotes when no SSH agent is available.
func fetchTagsFromRemote(ctx context.Context, repo *git.Repository, remote *git.Remote) error {
	remoteConfig := remote.Config()
	if len(remoteConfig.URLs) == 0 {
		return nil
	}

	url := remoteConfig.URLs[0]
	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remoteConfig.Name)
		return nil
	}

	logDebug("[git] fetching tags from remote '%s' (%s)", remoteConfig.Name, url)
	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteConfig.Name,
		Auth:       getAuthForURL(url),
		Tags:       git.AllTags,
		RefSpecs:   []config.RefSpec{"+refs/tags/*:refs/tags/*"},
	})

	if ctx.Err() != nil {
		logDebug("[git] fetch from remote '%s' timed out or cancelled", remoteConfig.Name)
		return nil
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL detects git@ (SCP-style), ssh:// and git+ssh:// URLs.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
