package provider

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the day-precision ISO date used in changelog headings.
const DateLayout = "2006-01-02"

// ErrNoCommits is returned when a request carries no commits. It is a caller
// precondition failure, not a provider error: no backend is ever contacted.
var ErrNoCommits = errors.New("no commits to summarize")

// CommitEntry is the model-facing view of a commit. Hashes, authors and dates
// are deliberately absent so they never leak into generated prose.
type CommitEntry struct {
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body" yaml:"body"`
}

// Request is the normalized input handed to every provider.
// Commits keep the order they were supplied in; providers never sort or dedupe.
type Request struct {
	Version string        `json:"version" yaml:"version"`
	Date    string        `json:"date" yaml:"date"`
	Commits []CommitEntry `json:"commits" yaml:"commits"`
}

// NewRequest builds a Request from the given commits, trimming subjects and
// bodies and formatting date with DateLayout. The commit slice is copied.
// Returns ErrNoCommits if commits is empty.
func NewRequest(version string, date time.Time, commits []CommitEntry) (Request, error) {
	if len(commits) == 0 {
		return Request{}, ErrNoCommits
	}

	entries := make([]CommitEntry, len(commits))
	for i, c := range commits {
		entries[i] = CommitEntry{
			Subject: strings.TrimSpace(c.Subject),
			Body:    strings.TrimSpace(c.Body),
		}
	}

	return Request{
		Version: strings.TrimSpace(version),
		Date:    date.Format(DateLayout),
		Commits: entries,
	}, nil
}

// Validate checks the request precondition shared by all adapters.
func (r Request) Validate() error {
	if len(r.Commits) == 0 {
		return ErrNoCommits
	}
	return nil
}

// Heading returns the Keep a Changelog section heading for the request.
func (r Request) Heading() string {
	return "## [" + r.Version + "] - " + r.Date
}
