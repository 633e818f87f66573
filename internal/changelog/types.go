package changelog

import "strings"

// Section is what Inspect recognized in a generated changelog section.
type Section struct {
	// Version and Date come from the "## [version] - date" heading.
	// Both are empty if no such heading was found.
	Version string
	Date    string
	// Breaking holds the entries of a bold BREAKING block or BREAKING heading.
	Breaking []string
	// Categories are the "###" groups in document order.
	Categories []Category
}

// Category is a single "###" group and its bullet entries.
type Category struct {
	Name    string
	Entries []string
}

// HasHeading reports whether a version heading was recognized.
func (s Section) HasHeading() bool {
	return s.Version != ""
}

// Count returns the total number of entries, including breaking ones.
func (s Section) Count() int {
	n := len(s.Breaking)
	for _, c := range s.Categories {
		n += len(c.Entries)
	}
	return n
}

// IsEmpty returns true if no entries were recognized.
func (s Section) IsEmpty() bool {
	return s.Count() == 0
}

// CategoryNames returns the names of the non-empty categories in order.
func (s Section) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		if len(c.Entries) > 0 {
			names = append(names, c.Name)
		}
	}
	return names
}

// StandardCategories returns the Keep a Changelog categories in their
// standard rendering order.
func StandardCategories() []string {
	return []string{"Added", "Changed", "Deprecated", "Removed", "Fixed", "Security"}
}

// ExtendedCategories returns the additional categories some providers emit.
func ExtendedCategories() []string {
	return []string{"Performance", "Docs", "Build/CI"}
}

// IsKnownCategory reports whether name is a standard or extended category,
// ignoring case.
func IsKnownCategory(name string) bool {
	for _, c := range append(StandardCategories(), ExtendedCategories()...) {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
