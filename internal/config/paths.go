package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/ai-changelog/config.yml
// - macOS: ~/Library/Application Support/ai-changelog/config.yml
// - Windows: %APPDATA%\ai-changelog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ai-changelog"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .ai-changelog.yml relative to the current directory.
func ProjectConfigPath() string {
	return ".ai-changelog.yml"
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON config file.
func LegacyProjectConfigPath() string {
	return ".ai-changelog.json"
}
