package catalog

import (
	"regexp"
	"strings"
)

var (
	boldRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe  = regexp.MustCompile(`\*(.+?)\*`)
	codeRe    = regexp.MustCompile("`(.+?)`")
	nonAlnum  = regexp.MustCompile(`[^a-z0-9\s-]`)
	spacesRe  = regexp.MustCompile(`\s+`)
	hyphensRe = regexp.MustCompile(`-+`)
)

// Anchor converts heading text to its GitHub-style anchor: markdown
// formatting stripped, lowercased, special characters removed, spaces to
// hyphens, runs of hyphens collapsed.
func Anchor(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")

	anchor := strings.ToLower(text)
	anchor = nonAlnum.ReplaceAllString(anchor, "")
	anchor = spacesRe.ReplaceAllString(anchor, "-")
	anchor = hyphensRe.ReplaceAllString(anchor, "-")
	return strings.Trim(anchor, "-")
}

// ValidateAnchor reports whether anchor is the expected target for a
// pattern name.
func ValidateAnchor(patternName, anchor string) bool {
	return anchor == "#"+Anchor(patternName)
}
