package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# ai-changelog configuration
# See 'ai-changelog config keys' for all options

# Backend selection
provider: xai                         # openai | xai

# Model per backend (empty = built-in default)
models:
  openai: ""                          # default: gpt-4o-mini
  xai: ""                             # default: grok-3

# API endpoint per backend (empty = official API)
base_urls:
  openai: ""
  xai: ""

# Credentials (prefer OPENAI_API_KEY / XAI_API_KEY in the environment)
api_keys:
  openai: ""
  xai: ""

timeout: 2m                           # Provider call timeout (0 = no timeout)
changelog_file: CHANGELOG.md          # File updated by --write
version: ""                           # Pin the version label (empty = detect)
link_commits: false                   # Append a link to each commit
`
}

// GetDefaults returns the default configuration values as koanf keys.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"provider":         "xai",
		"models.openai":    "",
		"models.xai":       "",
		"base_urls.openai": "",
		"base_urls.xai":    "",
		"api_keys.openai":  "",
		"api_keys.xai":     "",
		"timeout":          2 * time.Minute,
		"changelog_file":   "CHANGELOG.md",
		"version":          "",
		"link_commits":     false,
	}
}
