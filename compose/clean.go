package compose

import (
	"regexp"
	"strings"
)

// urlPattern matches http(s) and bare-domain URLs. It intentionally favors
// recall over precision: narrated text reads badly with any URL left in.
var urlPattern = regexp.MustCompile(`\b(?:https?://|www\.)\S+|\b[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/[^\s]*)?\b`)

// StripURLs removes URLs from text and trims the whitespace they leave
// behind. The returned string may be empty.
func StripURLs(text string) string {
	return strings.TrimSpace(urlPattern.ReplaceAllString(text, ""))
}

// CollapseWhitespace normalizes all whitespace runs to single spaces.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
