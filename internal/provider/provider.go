package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Provider generates a single Keep a Changelog section from a Request.
//
// Implementations issue exactly one backend call per invocation, return the
// trimmed Markdown on success, and report backend failures as *Error.
// A request without commits fails with ErrNoCommits before any I/O.
type Provider interface {
	GenerateChangelog(ctx context.Context, req Request) (string, error)
}

// Provider names accepted by New.
const (
	NameOpenAI = "openai"
	NameXAI    = "xai"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for provider calls.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// settings holds the tunables shared by the adapters. Each adapter ignores the
// fields it has no use for.
type settings struct {
	model         string
	baseURL       string
	httpClient    *http.Client
	maxTokens     int64
	temperature   float64
	breakingRules []BreakingRule
}

// Option configures an adapter.
type Option func(*settings)

// WithModel overrides the adapter's default model.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithBaseURL points the adapter at a different API root (e.g. a proxy or a test server).
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for the backend call.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithMaxTokens caps the completion length (chat-completions backends only).
func WithMaxTokens(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature (chat-completions backends only).
func WithTemperature(t float64) Option {
	return func(s *settings) {
		s.temperature = t
	}
}

// WithBreakingRules replaces the rules used to flag breaking commits
// (backends with a BREAKING subsection only).
func WithBreakingRules(rules ...BreakingRule) Option {
	return func(s *settings) {
		s.breakingRules = rules
	}
}

func applyOptions(s settings, opts []Option) settings {
	for _, opt := range opts {
		opt(&s)
	}
	s.baseURL = withTrailingSlash(s.baseURL)
	return s
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// constructors maps provider names to adapter constructors.
var constructors = map[string]func(apiKey string, opts ...Option) Provider{
	NameOpenAI: func(apiKey string, opts ...Option) Provider { return NewOpenAI(apiKey, opts...) },
	NameXAI:    func(apiKey string, opts ...Option) Provider { return NewXAI(apiKey, opts...) },
}

// UnknownProviderError is returned by New for an unregistered name.
type UnknownProviderError struct {
	Name      string
	Available []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// New returns the adapter registered under name. The credential is not
// checked here; an empty key surfaces as an authentication error on first use.
func New(name, apiKey string, opts ...Option) (Provider, error) {
	ctor, ok := constructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownProviderError{Name: name, Available: Names()}
	}
	return ctor(apiKey, opts...), nil
}

// Names returns the registered provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
