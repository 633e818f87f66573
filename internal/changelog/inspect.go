package changelog

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// headingPattern matches "[1.2.0] - 2024-01-01" as well as "1.2.0 - 2024-01-01",
// which is what the heading text looks like when [1.2.0] resolved to a link.
var headingPattern = regexp.MustCompile(`^\[?([^\]\s]+)\]?\s*[-–]\s*(\d{4}-\d{2}-\d{2})\s*$`)

// breakingCategory is the pseudo category that collects BREAKING entries.
const breakingCategory = "BREAKING"

// Inspect parses markdown and reports the first version section it contains.
// Content after the next "##" heading is ignored. Inspect never fails: text it
// does not recognize is skipped.
func Inspect(markdown string) Section {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		section     Section
		current     string
		seenVersion bool
	)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := nodeText(node, source)
			switch {
			case node.Level == 1:
				current = ""
			case node.Level == 2:
				if seenVersion {
					return section
				}
				seenVersion = true
				if m := headingPattern.FindStringSubmatch(title); m != nil {
					section.Version, section.Date = m[1], m[2]
				}
				current = ""
			case strings.Contains(strings.ToUpper(title), breakingCategory):
				current = breakingCategory
			default:
				current = title
			}
		case *ast.Paragraph:
			if isBreakingLabel(node, source) {
				current = breakingCategory
			}
		case *ast.List:
			if current == "" {
				continue
			}
			entries := listEntries(node, source)
			if current == breakingCategory {
				section.Breaking = append(section.Breaking, entries...)
				continue
			}
			section.addEntries(current, entries)
		}
	}

	return section
}

// addEntries appends entries to the named category, creating it on first use.
func (s *Section) addEntries(name string, entries []string) {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			s.Categories[i].Entries = append(s.Categories[i].Entries, entries...)
			return
		}
	}
	s.Categories = append(s.Categories, Category{Name: name, Entries: entries})
}

// isBreakingLabel reports whether a paragraph is a bold "BREAKING" label.
func isBreakingLabel(p *ast.Paragraph, source []byte) bool {
	strong, ok := p.FirstChild().(*ast.Emphasis)
	if !ok || strong.Level != 2 {
		return false
	}
	return strings.Contains(strings.ToUpper(nodeText(strong, source)), breakingCategory)
}

// listEntries returns the text of each item of a list.
func listEntries(list *ast.List, source []byte) []string {
	var entries []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if t := nodeText(item, source); t != "" {
			entries = append(entries, t)
		}
	}
	return entries
}

// nodeText concatenates the inline text under n, joining soft line breaks
// with a space.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
