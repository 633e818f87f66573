package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the ai-changelog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitGenerationFailed indicates the backend failed or returned nothing usable
	ExitGenerationFailed = 1

	// ExitConfigError indicates invalid configuration or a rejected credential
	ExitConfigError = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates a required repository or file is missing
	ExitMissingDependencies = 4

	// ExitTimeout indicates the backend could not be reached in time
	ExitTimeout = 5
)

// ExitError carries a process exit code alongside the error that caused it.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError returns an ExitError with no underlying error.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// withExitCode attaches an exit code to err. Returns nil for a nil err.
func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for err: the code of the first ExitError in
// its chain, ExitSuccess for nil, and ExitGenerationFailed otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGenerationFailed
}
