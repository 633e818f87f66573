package changelog

import (
	"regexp"
	"strings"
)

// Preamble is the header written at the top of a new CHANGELOG.md.
const Preamble = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).
`

// titlePattern matches a top-level "# Changelog" heading line.
var titlePattern = regexp.MustCompile(`(?m)^#[ \t]*Changelog[ \t]*\r?$`)

// RenderNew returns the content of a new changelog file holding one section.
func RenderNew(section string) string {
	return Preamble + "\n" + strings.TrimSpace(section) + "\n"
}

// Prepend inserts section into existing changelog content.
//
// If existing has a top-level "# Changelog" heading, the section goes
// immediately after the heading line, above anything that followed it.
// Otherwise the section is prepended verbatim. Empty existing content
// produces a new file with the standard preamble.
func Prepend(existing, section string) string {
	section = strings.TrimSpace(section)
	if strings.TrimSpace(existing) == "" {
		return RenderNew(section)
	}

	loc := titlePattern.FindStringIndex(existing)
	if loc == nil {
		return section + "\n\n" + existing
	}

	head := strings.TrimRight(existing[:loc[1]], "\r\t ")
	rest := strings.TrimLeft(existing[loc[1]:], "\r\n\t ")

	out := head + "\n\n" + section + "\n"
	if rest != "" {
		out += "\n" + rest
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
