// Package sanitize cleans visitor-supplied text before it is stored or
// relayed. Contact submissions are plain text: every tag is stripped with a
// bluemonday strict policy and entities are decoded again so templ escapes
// the result exactly once on output.
package sanitize

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton strict policy. Initialized once via sync.Once.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from input, removes control characters other than
// newline and tab, normalizes line endings and trims surrounding space.
func Text(input string) string {
	if input == "" {
		return ""
	}
	s := html.UnescapeString(getPolicy().Sanitize(input))
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Line is Text for single-line fields such as a name or an email address:
// runs of whitespace, including newlines, collapse to one space.
func Line(input string) string {
	return strings.Join(strings.Fields(Text(input)), " ")
}
