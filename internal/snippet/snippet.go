// ABOUTME: Bounded context-window extraction around a search-term match
// ABOUTME: Produces snippets with ellipsis markers for omitted text

package snippet

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis marks omitted text at either end of a snippet.
const Ellipsis = "..."

// Extract returns a bounded view of body centered on the first
// case-insensitive occurrence of term, plus whether the body was cut.
//
// Bodies no longer than radius are returned whole. Longer bodies are
// reduced to a window of radius characters split evenly before and after
// the match span, clamped to the body boundaries, with an ellipsis on
// each side that omits text. If the term cannot be located literally
// (the storage engine's pattern match and a literal substring search can
// disagree), the first radius characters are returned instead. That
// fallback is deliberate; callers should not treat it as an error.
//
// All indices are in runes so multi-byte text never gets split.
func Extract(body, term string, radius int) (string, bool) {
	runes := []rune(body)
	if len(runes) <= radius {
		return body, false
	}

	start, end, found := findMatch(body, term)
	if !found {
		return string(runes[:radius]) + Ellipsis, true
	}

	half := radius / 2
	windowStart := start - half
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := end + half
	if windowEnd > len(runes) {
		windowEnd = len(runes)
	}

	out := string(runes[windowStart:windowEnd])
	if windowStart > 0 {
		out = Ellipsis + out
	}
	if windowEnd < len(runes) {
		out += Ellipsis
	}
	return out, true
}

// findMatch locates the first case-insensitive literal occurrence of term
// in body and returns its span as rune offsets.
func findMatch(body, term string) (start, end int, found bool) {
	if term == "" {
		return 0, 0, false
	}

	lowerBody := strings.ToLower(body)
	lowerTerm := strings.ToLower(term)

	idx := strings.Index(lowerBody, lowerTerm)
	if idx < 0 {
		return 0, 0, false
	}

	start = utf8.RuneCountInString(lowerBody[:idx])
	end = start + utf8.RuneCountInString(lowerTerm)
	return start, end, true
}
