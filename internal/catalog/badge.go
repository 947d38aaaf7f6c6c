package catalog

import (
	"fmt"
	"regexp"
)

var badgeRe = regexp.MustCompile(`(\[!\[Patterns\]\(https://img\.shields\.io/badge/patterns-)(\d+)(-blue\.svg\)\]\(#complete-pattern-reference\))`)

// BadgeCount returns the pattern count currently shown in the shields.io
// badge, or -1 when no badge is present.
func BadgeCount(content string) int {
	m := badgeRe.FindStringSubmatch(content)
	if m == nil {
		return -1
	}
	var n int
	fmt.Sscanf(m[2], "%d", &n)
	return n
}

// UpdateBadge rewrites the pattern count badge to count. The second return
// is false when the document has no badge to update.
func UpdateBadge(content string, count int) (string, bool) {
	if !badgeRe.MatchString(content) {
		return content, false
	}
	updated := badgeRe.ReplaceAllString(content, fmt.Sprintf("${1}%d${3}", count))
	return updated, true
}
