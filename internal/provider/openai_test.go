// Package provider tests the OpenAI Responses adapter against a fake backend.
// Related: internal/provider/openai.go, internal/provider/classify.go
// Tags: provider, openai, responses, errors

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_GenerateChangelog_ScenarioA(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, http.StatusOK, responsesEnvelope(t, "\n  "+scenarioASection+"\n\n"))
	p := NewOpenAI("sk-test", WithBaseURL(fb.URL))

	got, err := p.GenerateChangelog(context.Background(), scenarioARequest())
	require.NoError(t, err)

	assert.NotEmpty(t, got)
	assert.Equal(t, scenarioASection, got, "output should be trimmed")
	assert.True(t, strings.HasPrefix(got, "## [1.2.0] - 2024-01-01"))
	assert.Contains(t, got, "### Added")
	assert.Contains(t, got, "### Fixed")
	assert.False(t, hasHexHash(got), "output should not contain commit hashes")

	require.Equal(t, 1, fb.Hits(), "exactly one backend call per invocation")
	assert.Equal(t, "/responses", fb.paths[0])
	assert.Equal(t, "Bearer sk-test", fb.authz[0])
}

func TestOpenAI_RequestBodyEncodesEveryCommitInOrder(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, http.StatusOK, responsesEnvelope(t, scenarioASection))
	p := NewOpenAI("sk-test", WithBaseURL(fb.URL), WithModel("gpt-4.1-mini"))

	req := Request{
		Version: "2.0.0",
		Date:    "2025-03-04",
		Commits: []CommitEntry{
			{Subject: "feat(api)!: drop v1 endpoints", Body: "BREAKING CHANGE: v1 removed"},
			{Subject: "docs: update README", Body: ""},
			{Subject: "fix: handle nil config", Body: "Closes a crash on startup."},
		},
	}
	_, err := p.GenerateChangelog(context.Background(), req)
	require.NoError(t, err)

	body := fb.LastBody(t)
	assert.Equal(t, "gpt-4.1-mini", body["model"])

	input, ok := body["input"].(string)
	require.True(t, ok, "input should be a JSON string")

	var sent Request
	require.NoError(t, json.Unmarshal([]byte(input), &sent))
	assert.Equal(t, req, sent, "the whole request is sent verbatim and in order")

	instructions, ok := body["instructions"].(string)
	require.True(t, ok)
	assert.Contains(t, instructions, "## [2.0.0] - 2025-03-04")
	assert.Contains(t, instructions, "**BREAKING**")
	assert.Contains(t, instructions, "- feat(api)!: drop v1 endpoints")
	assert.NotContains(t, instructions, "- docs: update README")
}

func TestOpenAI_Instructions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts           []Option
		commits        []CommitEntry
		wantBreaking   bool
		wantBreakingOn string
	}{
		"no breaking commits": {
			commits: []CommitEntry{{Subject: "feat: add login"}},
		},
		"bang marker": {
			commits:        []CommitEntry{{Subject: "refactor!: rename config keys"}},
			wantBreaking:   true,
			wantBreakingOn: "refactor!: rename config keys",
		},
		"footer token": {
			commits:        []CommitEntry{{Subject: "feat: new parser", Body: "BREAKING-CHANGE: old syntax rejected"}},
			wantBreaking:   true,
			wantBreakingOn: "feat: new parser",
		},
		"custom rule replaces defaults": {
			opts: []Option{WithBreakingRules(BreakingRuleFunc(func(c CommitEntry) bool {
				return strings.Contains(c.Subject, "[major]")
			}))},
			commits: []CommitEntry{
				{Subject: "feat!: ignored by custom rule"},
				{Subject: "[major] switch storage engine"},
			},
			wantBreaking:   true,
			wantBreakingOn: "[major] switch storage engine",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := NewOpenAI("sk-test", tt.opts...)
			got := p.Instructions(Request{Version: "1.0.0", Date: "2024-05-06", Commits: tt.commits})

			assert.Contains(t, got, "## [1.0.0] - 2024-05-06")
			assert.Contains(t, got, "Do NOT include commit hashes, authors, or PR numbers.")
			for _, cat := range []string{"Added", "Changed", "Fixed", "Deprecated", "Removed", "Security"} {
				assert.Contains(t, got, cat)
			}

			if tt.wantBreaking {
				assert.Contains(t, got, "MUST appear under **BREAKING**")
				assert.Contains(t, got, "- "+tt.wantBreakingOn)
			} else {
				assert.NotContains(t, got, "MUST appear under **BREAKING**")
			}
		})
	}
}

func TestOpenAI_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status      int
		response    string
		wantKind    Kind
		wantMessage string
	}{
		"empty output text": {
			status:      http.StatusOK,
			response:    "",
			wantKind:    KindEmptyResponse,
			wantMessage: "no changelog content generated",
		},
		"invalid key": {
			status:      http.StatusUnauthorized,
			response:    `{"error":{"message":"Incorrect API key provided: sk-bad","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantKind:    KindAuthentication,
			wantMessage: "Incorrect API key provided: sk-bad",
		},
		"server error with message": {
			status:      http.StatusInternalServerError,
			response:    `{"error":{"message":"The server had an error while processing your request.","type":"server_error"}}`,
			wantKind:    KindUpstream,
			wantMessage: "The server had an error while processing your request.",
		},
		"rate limited": {
			status:      http.StatusTooManyRequests,
			response:    `{"error":{"message":"Rate limit reached for gpt-4o-mini","type":"requests"}}`,
			wantKind:    KindUpstream,
			wantMessage: "Rate limit reached for gpt-4o-mini",
		},
		"error without message falls back to status": {
			status:      http.StatusBadGateway,
			response:    `{}`,
			wantKind:    KindUpstream,
			wantMessage: "502",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			response := tt.response
			if tt.status == http.StatusOK {
				response = responsesEnvelope(t, "  \n\t ")
			}
			fb := newFakeBackend(t, tt.status, response)
			p := NewOpenAI("sk-test", WithBaseURL(fb.URL))

			got, err := p.GenerateChangelog(context.Background(), scenarioARequest())
			require.Error(t, err)
			assert.Empty(t, got)

			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantKind, pe.Kind)
			assert.Equal(t, "OpenAI", pe.Backend)
			assert.True(t, strings.HasPrefix(err.Error(), "OpenAI API error: "))
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.Equal(t, 1, fb.Hits(), "no retries")
		})
	}
}

func TestOpenAI_EmptyCommitsRejectedBeforeNetwork(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, http.StatusOK, responsesEnvelope(t, scenarioASection))
	p := NewOpenAI("sk-test", WithBaseURL(fb.URL))

	got, err := p.GenerateChangelog(context.Background(), Request{Version: "1.0.0", Date: "2024-01-01"})
	require.ErrorIs(t, err, ErrNoCommits)
	assert.Empty(t, got)
	assert.Equal(t, 0, fb.Hits())
}

func TestOpenAI_EmptyKeyFailsLazily(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, http.StatusOK, responsesEnvelope(t, scenarioASection))
	p := NewOpenAI("", WithBaseURL(fb.URL))
	require.NotNil(t, p, "construction never validates the key")

	_, err := p.GenerateChangelog(context.Background(), scenarioARequest())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthentication))
	assert.Contains(t, err.Error(), "OpenAI API error")
	assert.Equal(t, 0, fb.Hits())
}

func TestOpenAI_ConnectionFailure_ScenarioC(t *testing.T) {
	t.Parallel()

	p := NewOpenAI("sk-test", WithBaseURL(closedServerURL(t)))

	_, err := p.GenerateChangelog(context.Background(), scenarioARequest())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "OpenAI API error"))
	assert.Contains(t, err.Error(), "error")
	assert.True(t, IsKind(err, KindNetwork), "got %v", err)
}

func TestOpenAI_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := newBlockingServer(t, release)

	p := NewOpenAI("sk-test",
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)

	_, err := p.GenerateChangelog(context.Background(), scenarioARequest())
	close(release)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork), "got %v", err)
	assert.Contains(t, err.Error(), "OpenAI API error")
}
