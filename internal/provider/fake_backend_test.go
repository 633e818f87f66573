package provider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an httptest server that records every request it receives
// and replies with a canned status and body.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	hits     int
	paths    []string
	bodies   [][]byte
	authz    []string
	headers  []http.Header
	status   int
	response string
}

func newFakeBackend(t *testing.T, status int, response string) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{status: status, response: response}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		fb.mu.Lock()
		fb.hits++
		fb.paths = append(fb.paths, r.URL.Path)
		fb.bodies = append(fb.bodies, body)
		fb.authz = append(fb.authz, r.Header.Get("Authorization"))
		fb.headers = append(fb.headers, r.Header.Clone())
		fb.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fb.status)
		_, _ = io.WriteString(w, fb.response)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) Hits() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits
}

func (fb *fakeBackend) LastBody(t *testing.T) map[string]any {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.bodies, "backend received no requests")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(fb.bodies[len(fb.bodies)-1], &decoded))
	return decoded
}

func (fb *fakeBackend) LastHeader(t *testing.T) http.Header {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.headers, "backend received no requests")
	return fb.headers[len(fb.headers)-1]
}

// responsesEnvelope builds a minimal Responses API success body.
func responsesEnvelope(t *testing.T, text string) string {
	t.Helper()
	env := map[string]any{
		"id":         "resp_test",
		"object":     "response",
		"created_at": 1700000000,
		"status":     "completed",
		"model":      defaultOpenAIModel,
		"output": []any{
			map[string]any{
				"type":   "message",
				"id":     "msg_test",
				"status": "completed",
				"role":   "assistant",
				"content": []any{
					map[string]any{"type": "output_text", "text": text, "annotations": []any{}},
				},
			},
		},
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return string(b)
}

// chatEnvelope builds a minimal chat-completions success body.
func chatEnvelope(t *testing.T, contents ...string) string {
	t.Helper()
	choices := make([]any, len(contents))
	for i, c := range contents {
		choices[i] = map[string]any{
			"index":         i,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": c},
		}
	}
	env := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   defaultXAIModel,
		"choices": choices,
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return string(b)
}

// closedServerURL returns the URL of a server that is no longer listening.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func scenarioARequest() Request {
	return Request{
		Version: "1.2.0",
		Date:    "2024-01-01",
		Commits: []CommitEntry{
			{Subject: "feat: add login", Body: ""},
			{Subject: "fix: null pointer on logout", Body: ""},
		},
	}
}

const scenarioASection = `## [1.2.0] - 2024-01-01

### Added
- Add login

### Fixed
- Fix null pointer on logout`

func hasHexHash(s string) bool {
	for _, word := range strings.Fields(s) {
		if len(word) >= 7 && strings.Trim(word, "0123456789abcdef") == "" {
			return true
		}
	}
	return false
}

// newBlockingServer returns a server whose handler never answers until release
// is closed or the client goes away.
func newBlockingServer(t *testing.T, release <-chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}
