package filter

import (
	"regexp"
	"strings"
)

// CompiledTerm holds either a plain phrase or a compiled regex for matching.
type CompiledTerm struct {
	plain string         // lowercased phrase, matched on word boundaries
	regex *regexp.Regexp // compiled regex (nil for plain terms)
}

// CompileTerms pre-compiles a list of term strings into CompiledTerms.
// Terms wrapped in /slashes/ are treated as case-insensitive regex.
// Invalid regex falls back to a plain match on the entire string (including slashes).
// Empty/whitespace-only terms are skipped.
func CompileTerms(terms []string) []CompiledTerm {
	compiled := make([]CompiledTerm, 0, len(terms))
	for _, raw := range terms {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		if len(trimmed) >= 3 && trimmed[0] == '/' && trimmed[len(trimmed)-1] == '/' {
			pattern := trimmed[1 : len(trimmed)-1]
			re, err := regexp.Compile("(?i)" + pattern)
			if err == nil {
				compiled = append(compiled, CompiledTerm{regex: re})
				continue
			}
		}

		compiled = append(compiled, CompiledTerm{plain: strings.Join(strings.Fields(strings.ToLower(trimmed)), " ")})
	}
	return compiled
}

// Matches reports whether text contains the term. Plain terms only match
// whole words, so "ro" does not match "horror".
func (t CompiledTerm) Matches(text string) bool {
	if t.regex != nil {
		return t.regex.MatchString(text)
	}
	if t.plain == "" {
		return false
	}
	padded := " " + strings.Join(strings.Fields(strings.ToLower(text)), " ") + " "
	return strings.Contains(padded, " "+t.plain+" ")
}

// MatchesAnyTerm checks if text matches any of the compiled terms.
// Returns false if terms is empty.
func MatchesAnyTerm(text string, terms []CompiledTerm) bool {
	for _, t := range terms {
		if t.Matches(text) {
			return true
		}
	}
	return false
}
