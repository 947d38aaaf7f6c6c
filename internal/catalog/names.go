package catalog

import (
	"fmt"
	"strings"
)

// Naming convention: pattern names are exactly two Title Case words
// (hyphenated compounds count as one word), avoid generic filler words,
// and antipattern names lead with a negative indicator.

// negativePrefixes mark a name as describing a failure mode.
var negativePrefixes = []string{
	"broken", "blind", "over", "under", "false", "un", "premature",
	"reckless", "static", "manual", "scattered", "chaotic", "unsafe",
	"reactive", "confused", "ignored", "wasteful", "overwhelming",
	"unchecked", "redundant", "shallow", "hardcoded", "contextless",
	"unprotected", "overlapping", "unplanned", "isolated", "monolithic",
	"bloated", "unconstrained", "constraint", "delayed", "undocumented",
	"random", "unrestricted",
}

// avoidWords are too generic or redundant in an AI-patterns catalog.
var avoidWords = map[string]bool{
	"ai": true, "pattern": true, "helper": true, "utility": true,
	"common": true, "general": true, "manager": true, "handler": true,
	"service": true,
}

// NameIssue is one violation of the naming convention.
type NameIssue struct {
	Name    string
	Line    int
	Rule    string
	Message string
}

func (i NameIssue) String() string {
	return fmt.Sprintf("%s: %q (line %d): %s", i.Rule, i.Name, i.Line, i.Message)
}

// WordCount counts words in a name; hyphenated compounds are one word.
func WordCount(name string) int {
	return len(strings.Fields(name))
}

// IsTitleCase reports whether every word, including hyphenated parts,
// starts with an uppercase letter.
func IsTitleCase(name string) bool {
	for _, word := range strings.Fields(name) {
		for _, part := range strings.Split(word, "-") {
			if part == "" {
				continue
			}
			r := rune(part[0])
			if r >= 'a' && r <= 'z' {
				return false
			}
		}
	}
	return true
}

// HasNegativeIndicator reports whether a name's first word carries a
// negative prefix or modifier, as antipattern names must.
func HasNegativeIndicator(name string) bool {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return false
	}
	first := strings.ReplaceAll(words[0], "-", "")
	for _, prefix := range negativePrefixes {
		if strings.HasPrefix(first, prefix) {
			return true
		}
	}
	return false
}

// AvoidedWords returns the generic filler words present in a name.
func AvoidedWords(name string) []string {
	var found []string
	for _, word := range strings.Fields(name) {
		w := strings.ToLower(strings.ReplaceAll(word, "-", ""))
		if avoidWords[w] {
			found = append(found, w)
		}
	}
	return found
}

// ValidatePatternName checks a single pattern name against the convention.
func ValidatePatternName(name string, line int) []NameIssue {
	var issues []NameIssue

	if n := WordCount(name); n != 2 {
		issues = append(issues, NameIssue{
			Name: name, Line: line, Rule: "word-count",
			Message: fmt.Sprintf("must be exactly 2 words, found %d (hyphenated compounds count as one)", n),
		})
	}
	if !IsTitleCase(name) {
		issues = append(issues, NameIssue{
			Name: name, Line: line, Rule: "title-case",
			Message: "every word must start uppercase",
		})
	}
	if avoided := AvoidedWords(name); len(avoided) > 0 {
		issues = append(issues, NameIssue{
			Name: name, Line: line, Rule: "avoid-words",
			Message: fmt.Sprintf("contains generic words: %s", strings.Join(avoided, ", ")),
		})
	}
	if strings.TrimRight(name, ".,:;!") != name {
		issues = append(issues, NameIssue{
			Name: name, Line: line, Rule: "punctuation",
			Message: "must not end with punctuation",
		})
	}
	return issues
}

// ValidateAntipatternName checks an antipattern name: same base rules plus
// a required negative indicator.
func ValidateAntipatternName(name string, line int) []NameIssue {
	issues := ValidatePatternName(name, line)
	if !HasNegativeIndicator(name) {
		issues = append(issues, NameIssue{
			Name: name, Line: line, Rule: "negative-indicator",
			Message: "antipattern names must lead with a negative prefix or modifier",
		})
	}
	return issues
}
