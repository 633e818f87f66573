package provider

import (
	"regexp"
	"strings"
)

// BreakingRule decides whether a commit announces a breaking change.
type BreakingRule interface {
	IsBreaking(c CommitEntry) bool
}

// BreakingRuleFunc adapts a plain function to BreakingRule.
type BreakingRuleFunc func(c CommitEntry) bool

// IsBreaking implements BreakingRule.
func (f BreakingRuleFunc) IsBreaking(c CommitEntry) bool {
	return f(c)
}

var (
	footerPattern = regexp.MustCompile(`(?m)^BREAKING[ -]CHANGE:`)
	bangPattern   = regexp.MustCompile(`^[A-Za-z]+(\([^)]*\))?!:`)
)

// FooterRule matches a "BREAKING CHANGE:" or "BREAKING-CHANGE:" token at the
// start of any line of the subject or body.
var FooterRule BreakingRule = BreakingRuleFunc(func(c CommitEntry) bool {
	return footerPattern.MatchString(c.Subject) || footerPattern.MatchString(c.Body)
})

// BangRule matches the Conventional Commits "type(scope)!:" subject marker.
var BangRule BreakingRule = BreakingRuleFunc(func(c CommitEntry) bool {
	return bangPattern.MatchString(strings.TrimSpace(c.Subject))
})

// DefaultBreakingRules returns the footer and bang rules.
func DefaultBreakingRules() []BreakingRule {
	return []BreakingRule{FooterRule, BangRule}
}

// BreakingCommits returns the commits matched by any rule, in input order.
func BreakingCommits(commits []CommitEntry, rules []BreakingRule) []CommitEntry {
	var out []CommitEntry
	for _, c := range commits {
		for _, rule := range rules {
			if rule.IsBreaking(c) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
