package keyword

import (
	"strings"
	"unicode/utf8"
)

// Normalize prepares raw message text for keyword and pattern matching.
// Matching is case-insensitive, so all rule input goes through here first.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ContainsAny reports whether any of the given keywords is a substring of
// text, returning the first one that matches. Assumes text is already
// normalized; keywords are normalized per-call.
func ContainsAny(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		kw = Normalize(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// HasRepeatedRun reports whether text contains a run of at least n identical
// consecutive runes. Multi-byte safe.
func HasRepeatedRun(text string, n int) bool {
	if n <= 1 {
		return len(text) > 0
	}
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

// Preview truncates text to at most max runes for storage in violation and
// audit records. Never splits a multi-byte character.
func Preview(text string, max int) string {
	if max <= 0 || text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}
