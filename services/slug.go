package services

import (
	"regexp"
	"strings"
)

var (
	slugApostrophes = regexp.MustCompile(`['’]`)
	slugNonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL-safe slug: lowercase, apostrophes dropped, runs of
// any other non-alphanumeric characters collapsed to a single hyphen, no
// leading or trailing hyphen. Applying it to its own output is a no-op.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = slugApostrophes.ReplaceAllString(s, "")
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTags trims and drops empty entries, preserving order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
