// Package scoring computes match scores between job postings and candidate
// profiles, and ATS-style structural scores for generated documents. Matching
// is deliberately literal: a skill counts as present only when its name
// occurs in the text at word boundaries. False negatives are acceptable;
// semantic matching is out of scope.
package scoring

import (
	"strings"
	"unicode"
)

// skillVariants maps a skill to the spellings that count as the same skill.
// Intentionally small; extend as needed.
var skillVariants = map[string][]string{
	"go":         {"golang"},
	"golang":     {"go"},
	"javascript": {"js"},
	"js":         {"javascript"},
	"typescript": {"ts"},
	"ts":         {"typescript"},
	"postgresql": {"postgres"},
	"postgres":   {"postgresql"},
	"kubernetes": {"k8s"},
	"k8s":        {"kubernetes"},
	"ci/cd":      {"cicd", "ci cd"},
}

// ContainsSkill reports whether skill occurs literally in text, ignoring
// case and requiring word boundaries on both sides. Known variants of the
// skill name are accepted.
func ContainsSkill(text, skill string) bool {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return false
	}
	lower := strings.ToLower(text)
	if containsToken(lower, skill) {
		return true
	}
	for _, variant := range skillVariants[skill] {
		if containsToken(lower, variant) {
			return true
		}
	}
	return false
}

// ContainsKeyword reports whether keyword occurs in text, case-insensitive.
// Used for excluded-keyword rejection, which is substring based like the
// rest of the filter semantics.
func ContainsKeyword(text, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), keyword)
}

// containsToken scans haystack (already lowercased) for needle occurrences
// bounded by non-alphanumeric runes. This handles terms like "c++" and
// "ci/cd" that defeat regexp \b boundaries.
func containsToken(haystack, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		if boundaryBefore(haystack, idx) && boundaryAfter(haystack, end) {
			return true
		}
		start = idx + 1
	}
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	r := rune(s[idx-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	r := rune(s[idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
