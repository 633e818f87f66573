package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a provider failure.
type Kind string

const (
	// KindAuthentication covers a missing or rejected credential.
	KindAuthentication Kind = "AuthenticationError"
	// KindNetwork covers transport failures: dial, DNS, timeouts, cancellation.
	KindNetwork Kind = "NetworkError"
	// KindUpstream covers non-success statuses, error payloads and malformed envelopes.
	KindUpstream Kind = "UpstreamError"
	// KindEmptyResponse covers a successful call that produced no usable text.
	KindEmptyResponse Kind = "EmptyResponseError"
)

// Error is the single error type returned by adapters for backend failures.
type Error struct {
	// Backend is the display name used as the message prefix ("OpenAI", "XAI").
	Backend string
	Kind    Kind
	// Message is the human-readable cause, including the backend's own error
	// text when it reported one.
	Message string
	// Err is the underlying transport or SDK error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Backend, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a provider Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

func newError(backend string, kind Kind, message string, err error) *Error {
	return &Error{Backend: backend, Kind: kind, Message: message, Err: err}
}
