package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// credentialEnv lists the environment variables consulted for each provider,
// in order.
var credentialEnv = map[string][]string{
	"openai": {"OPENAI_API_KEY"},
	"xai":    {"XAI_API_KEY", "GITHUB_TOKEN"},
}

// CredentialEnvVars returns the environment variables read for provider.
func CredentialEnvVars(provider string) []string {
	return append([]string(nil), credentialEnv[strings.ToLower(provider)]...)
}

// APIKey returns the credential for provider: api_keys.<provider> from the
// configuration if set, otherwise the first non-empty credential environment
// variable. Returns "" if none is set.
func (c *Configuration) APIKey(provider string) string {
	return c.apiKey(provider, os.Getenv)
}

func (c *Configuration) apiKey(provider string, getenv func(string) string) string {
	if key := strings.TrimSpace(c.APIKeys.For(provider)); key != "" {
		return key
	}
	for _, name := range credentialEnv[strings.ToLower(provider)] {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// redactedValue replaces credentials in displayed configuration.
const redactedValue = "********"

// Redacted returns a copy of c with credentials masked.
func (c *Configuration) Redacted() *Configuration {
	out := *c
	out.APIKeys = Backends{
		OpenAI: redact(c.APIKeys.OpenAI),
		XAI:    redact(c.APIKeys.XAI),
	}
	return &out
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redactedValue
}

// ToYAML encodes the configuration as YAML with credentials masked.
func (c *Configuration) ToYAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}
