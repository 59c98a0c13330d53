// pkg/validation/sanitize.go
package validation

import (
	"regexp"
	"strings"
)

var (
	// Quotes, angle brackets, SQL/URL metacharacters and C0/C1 control characters.
	dangerousChars = regexp.MustCompile(`[<>"'%;()&+\x00-\x1f\x7f-\x9f]`)

	// Script-injection fragments, matched case-insensitively.
	injectionFragments = regexp.MustCompile(`(?i)(javascript:?|vbscript:?|script|on\w+=|data:|expression|url\()`)
)

// Sanitize strips dangerous characters and known script-injection substrings
// from raw and trims surrounding whitespace. Removal repeats until the value is
// stable so nested fragments such as "scrscriptipt" cannot reassemble.
func Sanitize(raw string) string {
	out := raw
	for {
		next := dangerousChars.ReplaceAllString(out, "")
		next = injectionFragments.ReplaceAllString(next, "")
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
