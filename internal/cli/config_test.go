// Package cli tests the config command and its subcommands.
// Related: internal/cli/config.go
// Tags: cli, config, show, keys, init, migrate

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShow_RedactsKeys(t *testing.T) {
	isolateEnv(t)
	repo := releasedRepo(t)
	cfg := writeConfig(t, "https://proxy.example.com/v1", "xai-super-secret", "")

	stdout, _, err := runCLI(t, "config", "show", "--config", cfg, "--repo", repo.dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "provider: xai")
	assert.Contains(t, stdout, "xai: https://proxy.example.com/v1")
	assert.Contains(t, stdout, "********")
	assert.NotContains(t, stdout, "xai-super-secret")
}

func TestConfigShow_ProjectConfig(t *testing.T) {
	isolateEnv(t)
	repo := releasedRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo.dir, ".ai-changelog.yml"), []byte("changelog_file: HISTORY.md\n"), 0o644))

	stdout, _, err := runCLI(t, "config", "show", "--repo", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "changelog_file: HISTORY.md")
}

func TestConfigKeys(t *testing.T) {
	stdout, _, err := runCLI(t, "config", "keys")
	require.NoError(t, err)

	for _, key := range []string{"provider", "models.openai", "base_urls.xai", "api_keys.xai", "timeout", "changelog_file", "link_commits"} {
		assert.Contains(t, stdout, key)
	}
	assert.Contains(t, stdout, "enum(openai|xai)")
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	repo := releasedRepo(t)
	path := filepath.Join(repo.dir, ".ai-changelog.yml")

	_, stderr, err := runCLI(t, "config", "init", "--repo", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Created")
	assert.FileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte("provider: openai\n"), 0o644))
	_, stderr, err = runCLI(t, "config", "init", "--repo", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "provider: openai\n", string(data))

	_, _, err = runCLI(t, "config", "init", "--repo", repo.dir, "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# ai-changelog configuration")
}

func TestConfigInit_User(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "config", "init", "--user", "--repo", t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "ai-changelog", "config.yml"))
}

func TestConfigMigrate(t *testing.T) {
	isolateEnv(t)
	repo := releasedRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo.dir, ".ai-changelog.json"), []byte(`{"provider":"openai"}`), 0o644))

	_, stderr, err := runCLI(t, "config", "migrate", "--repo", repo.dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Would migrate")
	assert.NoFileExists(t, filepath.Join(repo.dir, ".ai-changelog.yml"))

	_, _, err = runCLI(t, "config", "migrate", "--repo", repo.dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(repo.dir, ".ai-changelog.yml"))
	assert.FileExists(t, filepath.Join(repo.dir, ".ai-changelog.json.bak"))

	stdout, _, err := runCLI(t, "config", "show", "--repo", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "provider: openai")
}
