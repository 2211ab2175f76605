package category

import (
	"regexp"
	"strings"
)

// matcher is a rule with its pattern compiled once. Rule matching is on the
// tracker's hot path, so regexes are never compiled per call.
type matcher struct {
	rule    Rule
	re      *regexp.Regexp // nil for substring rules and invalid regexes
	pattern string         // lowercased substring pattern
	valid   bool
}

// ValidatePattern reports whether a rule pattern is usable. Substring
// patterns are always valid; regex patterns must compile.
func ValidatePattern(pattern string, isRegex bool) bool {
	if !isRegex {
		return true
	}
	_, err := regexp.Compile("(?i)" + pattern)
	return err == nil
}

func compileRule(rule Rule) matcher {
	m := matcher{rule: rule}
	if rule.IsRegex {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			// Malformed pattern: flagged invalid, treated as non-matching.
			return m
		}
		m.re = re
		m.valid = true
		return m
	}
	m.pattern = strings.ToLower(rule.Pattern)
	m.valid = true
	return m
}

// matches evaluates the rule against a sample. Invalid rules and empty
// patterns never match.
func (m *matcher) matches(appName, windowTitle string, url *string) bool {
	if !m.valid || m.rule.Pattern == "" {
		return false
	}

	var field string
	switch m.rule.Type {
	case RuleApp:
		field = appName
	case RuleTitle:
		field = windowTitle
	case RuleURL:
		if url == nil {
			return false
		}
		field = *url
	default:
		return false
	}

	if m.re != nil {
		return m.re.MatchString(field)
	}
	return strings.Contains(strings.ToLower(field), m.pattern)
}
