package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const (
	openAIBackend        = "OpenAI"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com/v1/"
)

// OpenAI generates changelogs through the OpenAI Responses API. The whole
// Request is sent as a JSON input alongside a system instruction string, and
// the response's output_text is returned.
type OpenAI struct {
	apiKey string
	cfg    settings
}

// NewOpenAI returns an OpenAI adapter. The key is not validated here; an empty
// key fails the first GenerateChangelog call with an authentication error.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	cfg := applyOptions(settings{
		model:         defaultOpenAIModel,
		baseURL:       defaultOpenAIBaseURL,
		breakingRules: DefaultBreakingRules(),
	}, opts)
	return &OpenAI{apiKey: apiKey, cfg: cfg}
}

// GenerateChangelog implements Provider.
func (o *OpenAI) GenerateChangelog(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(o.apiKey) == "" {
		return "", newError(openAIBackend, KindAuthentication, "API key is not set", nil)
	}

	input, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding changelog request: %w", err)
	}

	svc := responses.NewResponseService(sdkOptions(o.apiKey, o.cfg)...)

	logDebug("[provider] openai: POST %sresponses model=%s commits=%d", o.cfg.baseURL, o.cfg.model, len(req.Commits))
	resp, err := svc.New(ctx, responses.ResponseNewParams{
		Model:        shared.ResponsesModel(o.cfg.model),
		Instructions: openai.String(o.Instructions(req)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(string(input)),
		},
	})
	if err != nil {
		return "", classify(openAIBackend, err)
	}

	if !resp.JSON.Output.Valid() {
		return "", newError(openAIBackend, KindUpstream, "malformed response: missing output", nil)
	}
	generated := strings.TrimSpace(resp.OutputText())
	if generated == "" {
		return "", newError(openAIBackend, KindEmptyResponse, "no changelog content generated", nil)
	}
	logDebug("[provider] openai: received %d bytes", len(generated))
	return generated, nil
}

// Instructions returns the system instruction string for req.
func (o *OpenAI) Instructions(req Request) string {
	lines := []string{
		"You generate concise release notes from git commits.",
		"Output ONLY a Markdown section for Keep a Changelog format:",
		req.Heading(),
		"",
		"Group by: Added, Changed, Fixed, Deprecated, Removed, Security, Performance, Docs, Build/CI.",
		"Infer groups from Conventional Commits when possible (feat, fix, perf, docs, chore, refactor, build, ci).",
		"If nothing fits, put under Changed.",
		"Omit any group that has no entries.",
		"If a commit includes BREAKING CHANGE (footer or bang), add a bold **BREAKING** subsection at the top with bullet points.",
		"Use short, user-facing phrasing. Prefer imperative verb phrases (e.g., \"Add X\", \"Fix Y\").",
		"De-duplicate similar commits; collapse tiny refactors unless user-facing.",
		"Do NOT include commit hashes, authors, or PR numbers.",
		"Do NOT add any text outside the section.",
	}

	if breaking := BreakingCommits(req.Commits, o.cfg.breakingRules); len(breaking) > 0 {
		lines = append(lines, "", "These commits are breaking changes and MUST appear under **BREAKING**:")
		for _, c := range breaking {
			lines = append(lines, "- "+c.Subject)
		}
	}

	return strings.Join(lines, "\n")
}

// sdkOptions binds openai-go request options to one backend. Services are
// built from these alone so the SDK's OPENAI_* environment defaults never
// apply. SDK retries are disabled so each invocation is exactly one HTTP
// request.
func sdkOptions(apiKey string, cfg settings) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.httpClient))
	}
	return opts
}
