// Package provider defines the changelog generation contract shared by every
// LLM backend and the adapters that implement it.
//
// The package supports:
//   - A normalized Request (version, date, ordered commit subjects and bodies)
//   - The Provider interface with a single GenerateChangelog operation
//   - An OpenAI adapter built on the Responses API
//   - An xAI adapter built on the chat-completions API
//   - A shared error taxonomy (authentication, network, upstream, empty response)
//   - Pluggable breaking-change detection rules
//
// Adapters never read the environment. Credentials are injected at construction
// and validated lazily on the first call.
package provider
