package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the ai-changelog CLI.
// These templates ensure consistent, actionable error messages.

// MissingAPIKey creates an error for a provider without a credential.
func MissingAPIKey(provider string, envVars []string) *CLIError {
	steps := make([]string, 0, len(envVars)+1)
	for _, v := range envVars {
		steps = append(steps, fmt.Sprintf("export %s=<your key>", v))
	}
	steps = append(steps, fmt.Sprintf("Or set api_keys.%s in .ai-changelog.yml", provider))
	return NewConfigError(fmt.Sprintf("no API key configured for provider %q", provider), steps...)
}

// UnknownProvider creates an error for an unsupported --provider value.
func UnknownProvider(name string, available []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown provider %q", name),
		"ai-changelog --provider <"+strings.Join(available, "|")+">",
		"Available providers: "+strings.Join(available, ", "),
	)
}

// NoCommits creates an error for an empty commit range.
func NoCommits(from, to string) *CLIError {
	rangeDesc := to
	if from != "" {
		rangeDesc = from + ".." + to
	}
	return NewArgumentError(
		fmt.Sprintf("no commits found in range %s", rangeDesc),
		"Check the --from and --to refs: git log --no-merges "+rangeDesc,
		"Merge commits are skipped; the range must contain at least one regular commit",
	)
}

// NotGitRepository creates an error when the working directory is not in a repository.
func NotGitRepository(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s is not inside a git repository", dir),
		"Run ai-changelog from within a git working tree",
		"Or initialize one with: git init",
	)
}

// RefNotFound creates an error for a --from/--to value that does not resolve.
func RefNotFound(ref string, err error) *CLIError {
	e := NewArgumentError(
		fmt.Sprintf("cannot resolve git ref %q", ref),
		"Use a tag, branch, HEAD or commit hash",
		"Fetch missing tags with: ai-changelog --fetch",
	)
	e.Cause = err
	return e
}

// VersionNotFound creates an error when no version label can be determined.
func VersionNotFound() *CLIError {
	return NewArgumentErrorWithUsage(
		"could not determine the release version",
		"ai-changelog --version-label <version>",
		"Pass --version-label",
		"Or set version in .ai-changelog.yml",
		"Or add a \"version\" field to package.json or a VERSION file",
	)
}

// InvalidDate creates an error for a --date value that is not YYYY-MM-DD.
func InvalidDate(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid date %q", value),
		"ai-changelog --date YYYY-MM-DD",
		"Use the ISO 8601 calendar date format, e.g. 2024-01-31",
	)
}

// ChangelogWriteFailed creates an error when the output file cannot be written.
func ChangelogWriteFailed(path string, err error) *CLIError {
	e := NewRuntimeError(
		fmt.Sprintf("failed to write %s: %v", path, err),
		"Check that the directory exists and is writable",
		"Or use --dry-run to print the section instead",
	)
	e.Cause = err
	return e
}

// AuthenticationFailed creates an error for a rejected or missing credential.
func AuthenticationFailed(err error, envVars []string) *CLIError {
	e := NewConfigError(err.Error(),
		"Check that "+strings.Join(envVars, " or ")+" holds a valid, unexpired key",
	)
	e.Cause = err
	return e
}

// BackendUnreachable creates an error for transport failures and timeouts.
func BackendUnreachable(err error) *CLIError {
	e := NewRuntimeError(err.Error(),
		"Check your network connection and the configured base URL",
		"Increase the timeout with AI_CHANGELOG_TIMEOUT (e.g. 5m)",
	)
	e.Cause = err
	return e
}

// UpstreamFailure creates an error for a failed or malformed backend response.
func UpstreamFailure(err error) *CLIError {
	e := NewRuntimeError(err.Error(),
		"Check the backend status page and your account quota",
		"Or try the other provider with --provider",
	)
	e.Cause = err
	return e
}

// EmptyChangelog creates an error when the backend returned no content.
func EmptyChangelog(err error) *CLIError {
	e := NewRuntimeError(err.Error(),
		"Run again; the model occasionally returns an empty answer",
		"Or pick another model via models.<provider> in the config",
	)
	e.Cause = err
	return e
}
