package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/tidwall/gjson"
)

// errorMessagePaths are the envelope fields checked for a backend's own error
// text, in order. OpenAI nests it under error.message; xAI sometimes sends a
// bare string in error.
var errorMessagePaths = []string{"error.message", "error", "message"}

// classify maps an SDK or transport failure onto the shared taxonomy.
func classify(backend string, err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := upstreamMessage(apiErr)
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return newError(backend, KindAuthentication, msg, err)
		}
		return newError(backend, KindUpstream, msg, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newError(backend, KindNetwork, err.Error(), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return newError(backend, KindNetwork, err.Error(), err)
	}

	// Anything else came out of decoding a 2xx response.
	return newError(backend, KindUpstream, fmt.Sprintf("malformed response: %v", err), err)
}

// upstreamMessage extracts the backend's error text, falling back to the
// HTTP status when the body carries none.
func upstreamMessage(apiErr *openai.Error) string {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		if body, err := io.ReadAll(apiErr.Response.Body); err == nil {
			if msg := errorMessageFromBody(body); msg != "" {
				return msg
			}
		}
	}
	if msg := errorMessageFromBody([]byte(apiErr.RawJSON())); msg != "" {
		return msg
	}
	if strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("request failed with status %d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
}

// errorMessageFromBody returns the first non-empty string found at one of
// errorMessagePaths, or "" if the body is not JSON or has none.
func errorMessageFromBody(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range errorMessagePaths {
		res := gjson.GetBytes(body, path)
		if res.Type == gjson.String && strings.TrimSpace(res.Str) != "" {
			return res.Str
		}
	}
	return ""
}
