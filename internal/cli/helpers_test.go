// Package cli test helpers: on-disk repositories and a fake chat backend.
// Related: internal/cli/root.go, internal/cli/generate.go
// Tags: cli, testutil

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo is a repository on disk with a deterministic clock.
type testRepo struct {
	t     *testing.T
	dir   string
	repo  *gogit.Repository
	clock time.Time
	n     int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commit writes a file change and commits it with msg.
func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	r.n++
	r.clock = r.clock.Add(time.Minute)

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)

	name := "file.txt"
	require.NoError(r.t, os.WriteFile(filepath.Join(r.dir, name), []byte(msg), 0o644))
	_, err = wt.Add(name)
	require.NoError(r.t, err)

	sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.clock}
	hash, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func (r *testRepo) remote(url string) {
	r.t.Helper()
	_, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{url}})
	require.NoError(r.t, err)
}

// releasedRepo returns a repository with a v1.0.0 tag followed by two commits.
func releasedRepo(t *testing.T) *testRepo {
	t.Helper()
	r := newTestRepo(t)
	r.tag("v1.0.0", r.commit("chore: initial import"))
	r.commit("feat: add login")
	r.commit("fix: null pointer on logout\n\nHappened when the session had expired.")
	return r
}

// fakeChat is a chat-completions backend that records requests.
type fakeChat struct {
	server *httptest.Server
	mu     sync.Mutex
	hits   int
	bodies []string
}

func newFakeChat(t *testing.T, status int, response string) *fakeChat {
	t.Helper()
	fc := &fakeChat{}
	fc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		fc.mu.Lock()
		fc.hits++
		fc.bodies = append(fc.bodies, string(body))
		fc.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(fc.server.Close)
	return fc
}

func (fc *fakeChat) Hits() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.hits
}

func (fc *fakeChat) LastBody() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.bodies) == 0 {
		return ""
	}
	return fc.bodies[len(fc.bodies)-1]
}

// chatResponse builds a minimal chat-completions success body.
func chatResponse(t *testing.T, content string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "grok-3",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	require.NoError(t, err)
	return string(b)
}

const generatedSection = `## [1.1.0] - 2024-01-01

### Added
- Add login

### Fixed
- Fix null pointer on logout`

// isolateEnv keeps the user's real config and credentials out of a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{"OPENAI_API_KEY", "XAI_API_KEY", "GITHUB_TOKEN", "NO_COLOR"} {
		t.Setenv(name, "")
	}
}

// writeConfig writes an explicit config file pointing xai at baseURL.
func writeConfig(t *testing.T, baseURL, apiKey string, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "provider: xai\nbase_urls:\n  xai: " + baseURL + "\n"
	if apiKey != "" {
		content += "api_keys:\n  xai: " + apiKey + "\n"
	}
	content += extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes a fresh command tree and captures its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
