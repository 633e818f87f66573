// Package changelog maintains CHANGELOG.md files in Keep a Changelog format
// and inspects generated sections for display.
//
// This package implements:
//   - Inserting a generated section into a new or existing CHANGELOG.md
//   - The standard Keep a Changelog / Semantic Versioning preamble for new files
//   - Read-only inspection of a generated section (heading, categories, entries)
//   - Terminal formatting of section summaries and previews
//
// Generated sections are treated as opaque Markdown. Inspect never rejects
// input; it only reports what it recognizes.
package changelog
