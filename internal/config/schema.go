package config

import "sort"

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeDuration
	TypeString
	TypeEnum
	TypeURL
	TypeSecret
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeURL:
		return "url"
	case TypeSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes a known configuration key.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "models.openai")
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
}

// KnownKeys is the registry of all known configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"provider": {
		Path:          "provider",
		Type:          TypeEnum,
		AllowedValues: []string{"openai", "xai"},
		Description:   "Backend used to generate the changelog",
	},
	"models.openai": {
		Path:        "models.openai",
		Type:        TypeString,
		Description: "OpenAI model (default gpt-4o-mini)",
	},
	"models.xai": {
		Path:        "models.xai",
		Type:        TypeString,
		Description: "xAI model (default grok-3)",
	},
	"base_urls.openai": {
		Path:        "base_urls.openai",
		Type:        TypeURL,
		Description: "OpenAI API base URL",
	},
	"base_urls.xai": {
		Path:        "base_urls.xai",
		Type:        TypeURL,
		Description: "xAI API base URL",
	},
	"api_keys.openai": {
		Path:        "api_keys.openai",
		Type:        TypeSecret,
		Description: "OpenAI API key (fallback: OPENAI_API_KEY)",
	},
	"api_keys.xai": {
		Path:        "api_keys.xai",
		Type:        TypeSecret,
		Description: "xAI API key (fallback: XAI_API_KEY, GITHUB_TOKEN)",
	},
	"timeout": {
		Path:        "timeout",
		Type:        TypeDuration,
		Description: "Provider call timeout, 0 disables it",
	},
	"changelog_file": {
		Path:        "changelog_file",
		Type:        TypeString,
		Description: "Changelog updated by --write",
	},
	"version": {
		Path:        "version",
		Type:        TypeString,
		Description: "Version label, overrides package.json and VERSION",
	},
	"link_commits": {
		Path:        "link_commits",
		Type:        TypeBool,
		Description: "Append a link to each commit's web page",
	},
}

// SortedKeys returns the known key schemas ordered by path.
func SortedKeys() []ConfigKeySchema {
	keys := make([]ConfigKeySchema, 0, len(KnownKeys))
	for _, k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Path < keys[j].Path })
	return keys
}
