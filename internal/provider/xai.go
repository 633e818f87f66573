package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

const (
	xaiBackend            = "XAI"
	defaultXAIModel       = "grok-3"
	defaultXAIBaseURL     = "https://api.x.ai/v1/"
	defaultXAIMaxTokens   = 1000
	defaultXAITemperature = 0.3

	xaiSystemPrompt = "You are a helpful assistant that generates changelogs in keep-a-changelog format."
)

// XAI generates changelogs through xAI's chat-completions endpoint. Commits
// are flattened into a git-log style string embedded in the user message, and
// the first choice's message content is returned.
type XAI struct {
	apiKey string
	cfg    settings
}

// NewXAI returns an xAI adapter. The key is not validated here; an empty key
// fails the first GenerateChangelog call with an authentication error.
func NewXAI(apiKey string, opts ...Option) *XAI {
	cfg := applyOptions(settings{
		model:       defaultXAIModel,
		baseURL:     defaultXAIBaseURL,
		maxTokens:   defaultXAIMaxTokens,
		temperature: defaultXAITemperature,
	}, opts)
	return &XAI{apiKey: apiKey, cfg: cfg}
}

// GenerateChangelog implements Provider.
func (x *XAI) GenerateChangelog(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(x.apiKey) == "" {
		return "", newError(xaiBackend, KindAuthentication, "API key is not set", nil)
	}

	svc := openai.NewChatCompletionService(sdkOptions(x.apiKey, x.cfg)...)

	logDebug("[provider] xai: POST %schat/completions model=%s commits=%d", x.cfg.baseURL, x.cfg.model, len(req.Commits))
	resp, err := svc.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(x.cfg.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(xaiSystemPrompt),
			openai.UserMessage(x.Prompt(req)),
		},
		MaxTokens:   openai.Int(x.cfg.maxTokens),
		Temperature: openai.Float(x.cfg.temperature),
	})
	if err != nil {
		return "", classify(xaiBackend, err)
	}

	if !resp.JSON.Choices.Valid() {
		return "", newError(xaiBackend, KindUpstream, "malformed response: missing choices", nil)
	}
	if len(resp.Choices) == 0 {
		return "", newError(xaiBackend, KindEmptyResponse, "response contained no choices", nil)
	}
	generated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if generated == "" {
		return "", newError(xaiBackend, KindEmptyResponse, "no changelog content generated", nil)
	}
	logDebug("[provider] xai: received %d bytes", len(generated))
	return generated, nil
}

// Prompt returns the user message for req.
func (x *XAI) Prompt(req Request) string {
	return fmt.Sprintf(`Generate a changelog entry in keep-a-changelog format for version %s based on this git log:

%s

Format it as:
%s

### Added
- List new features

### Changed
- List changes in existing functionality

### Deprecated
- List soon-to-be removed features

### Removed
- List now removed features

### Fixed
- List any bug fixes

### Security
- List security improvements

Only include sections that have actual changes. Be concise and clear.
Output only the changelog section. Do not include commit hashes, authors, or PR numbers.`,
		req.Version, FlattenLog(req.Commits), req.Heading())
}

// FlattenLog renders commits as "subject\nbody" blocks separated by blank lines,
// omitting the body line when it is empty.
func FlattenLog(commits []CommitEntry) string {
	blocks := make([]string, len(commits))
	for i, c := range commits {
		if c.Body != "" {
			blocks[i] = c.Subject + "\n" + c.Body
		} else {
			blocks[i] = c.Subject
		}
	}
	return strings.Join(blocks, "\n\n")
}
