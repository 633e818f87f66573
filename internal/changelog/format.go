package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps lowercased category names to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"breaking":    {Color: color.New(color.FgRed, color.Bold), Icon: "‼"},
	"added":       {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":     {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated":  {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":     {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":       {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":    {Color: color.New(color.FgMagenta), Icon: "🔒"},
	"performance": {Color: color.New(color.FgCyan), Icon: "»"},
	"docs":        {Color: color.New(color.FgWhite), Icon: "¶"},
	"build/ci":    {Color: color.New(color.FgWhite), Icon: "⚙"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.FgWhite), Icon: "•"}

func styleFor(category string) CategoryStyle {
	if s, ok := categoryStyles[strings.ToLower(category)]; ok {
		return s
	}
	return defaultStyle
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain bool // Disable colors and icons
}

// Preview markers printed around a section that was not written anywhere.
const (
	PreviewBegin = "----- BEGIN CHANGELOG PREVIEW -----"
	PreviewEnd   = "----- END CHANGELOG PREVIEW -----"
)

// FormatPreview writes markdown between the preview markers.
func FormatPreview(w io.Writer, markdown string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", PreviewBegin, strings.TrimSpace(markdown), PreviewEnd)
	return err
}

// FormatSummary writes a one-line-per-category overview of s:
// the version header followed by each non-empty category and its entry count.
func FormatSummary(s Section, w io.Writer, opts FormatOptions) error {
	if err := writeVersionHeader(s.Version, s.Date, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if len(s.Breaking) > 0 {
		if err := writeCategoryCount("BREAKING", len(s.Breaking), w, opts); err != nil {
			return err
		}
	}
	for _, c := range s.Categories {
		if len(c.Entries) == 0 {
			continue
		}
		if err := writeCategoryCount(c.Name, len(c.Entries), w, opts); err != nil {
			return err
		}
	}

	if s.IsEmpty() {
		_, err := fmt.Fprintln(w, "  (no categorized entries recognized)")
		return err
	}
	return nil
}

// writeVersionHeader writes the version header line.
func writeVersionHeader(version, date string, w io.Writer, opts FormatOptions) error {
	var header string
	switch {
	case version == "":
		header = "Changelog section"
	case date != "":
		header = fmt.Sprintf("%s (%s)", version, date)
	default:
		header = version
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeCategoryCount writes a single category line with its entry count.
func writeCategoryCount(category string, n int, w io.Writer, opts FormatOptions) error {
	noun := "entries"
	if n == 1 {
		noun = "entry"
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "  %s: %d %s\n", category, n, noun)
		return err
	}

	style := styleFor(category)
	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "  %s %s: %d %s\n", colored(style.Icon), colored(category), n, noun)
	return err
}
