// Package config provides layered configuration for ai-changelog using koanf.
// Configuration is loaded with priority: explicit --config file > environment
// variables (AI_CHANGELOG_*) > project config (.ai-changelog.yml) > user config
// (~/.config/ai-changelog/config.yml) > defaults. A legacy project JSON file
// (.ai-changelog.json) is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the configuration.
const EnvPrefix = "AI_CHANGELOG_"

// Configuration represents the ai-changelog configuration
type Configuration struct {
	// Provider selects the backend: "openai" or "xai".
	// Can be set via AI_CHANGELOG_PROVIDER env var.
	Provider string `koanf:"provider" yaml:"provider" validate:"oneof=openai xai"`

	// Models overrides the model used by each backend.
	Models Backends `koanf:"models" yaml:"models"`
	// BaseURLs overrides the API endpoint of each backend, e.g. for a proxy.
	BaseURLs Backends `koanf:"base_urls" yaml:"base_urls"`
	// APIKeys holds credentials. Environment credentials are used when empty.
	APIKeys Backends `koanf:"api_keys" yaml:"api_keys"`

	// Timeout bounds the provider call. 0 disables the timeout.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" validate:"min=0"`

	// ChangelogFile is the file updated by --write.
	ChangelogFile string `koanf:"changelog_file" yaml:"changelog_file" validate:"required"`
	// Version pins the version label, overriding package.json and VERSION.
	Version string `koanf:"version" yaml:"version,omitempty"`
	// LinkCommits appends a link to each commit's web page to its subject.
	LinkCommits bool `koanf:"link_commits" yaml:"link_commits"`
}

// Backends holds one string value per provider.
type Backends struct {
	OpenAI string `koanf:"openai" yaml:"openai,omitempty"`
	XAI    string `koanf:"xai" yaml:"xai,omitempty"`
}

// For returns the value for the named provider, or "" for unknown names.
func (b Backends) For(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return b.OpenAI
	case "xai":
		return b.XAI
	default:
		return ""
	}
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ExplicitPath is a config file passed with --config. It must exist and
	// takes precedence over every other source.
	ExplicitPath string
	// ProjectConfigPath overrides the project config path (default: .ai-changelog.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: see UserConfigPath)
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	if err := loadExplicitConfig(k, opts.ExplicitPath); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyProjectExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyProjectPath, projectYAMLPath)
			fmt.Fprintf(warningWriter, "  Run 'ai-changelog config migrate' to remove the legacy file.\n\n")
		}
	} else if legacyProjectExists {
		if err := loadLegacyJSONConfig(k, legacyProjectPath, warningWriter, skipWarnings); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
	}
	return nil
}

// loadExplicitConfig loads the file passed with --config. Unlike the implicit
// sources, a missing explicit file is an error.
func loadExplicitConfig(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	if !fileExists(path) {
		return &ValidationError{FilePath: path, Message: "config file not found"}
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return nil
	}
	return loadYAMLConfig(k, path, "explicit")
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, path string, warningWriter io.Writer, skipWarnings bool) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy project config %s: %w", path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'ai-changelog config migrate' to migrate to YAML format.\n\n")
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, normalizes and validates the merged configuration
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.Version = strings.TrimSpace(cfg.Version)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// A double underscore separates nesting levels.
// Example: AI_CHANGELOG_MODELS__OPENAI -> models.openai
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
