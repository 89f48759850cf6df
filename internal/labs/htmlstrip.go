package labs

import "regexp"

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from lab fields that are stored as rich text
// (reference ranges and practitioner comments).
func stripHTML(s string) string {
	if s == "" {
		return s
	}
	return htmlTagPattern.ReplaceAllString(s, "")
}
