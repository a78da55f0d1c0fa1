package domain

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether the group's matcher applies to a tool name.
// An empty matcher or "*" matches everything. Pipe-separated patterns
// ("Edit|Write") match any alternative; each alternative is compared
// exactly first, then as a glob pattern.
func (g MatcherGroup) Matches(tool string) bool {
	return matchesPattern(g.Matcher, tool)
}

// AppliesTo reports whether the flattened hook would fire for a tool,
// by the same rules as its owning group's matcher.
func (h Hook) AppliesTo(tool string) bool {
	return matchesPattern(h.Matcher, tool)
}

func matchesPattern(pattern, tool string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	for _, alt := range strings.Split(pattern, "|") {
		alt = strings.TrimSpace(alt)
		if alt == tool {
			return true
		}
		if ok, err := doublestar.Match(alt, tool); err == nil && ok {
			return true
		}
	}
	return false
}
