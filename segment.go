package transmem

import (
	"strings"
	"unicode"
)

// Split decomposes raw document text into an ordered sequence of trimmed,
// non-empty segments. A segment boundary occurs after sentence punctuation
// (`.`, `!`, `?`) followed by whitespace and an uppercase letter, or after a
// line break followed by optional whitespace and an uppercase letter.
// The operation is pure and deterministic; Split never filters by length.
func Split(text string) []string {
	runes := []rune(text)
	segments := make([]string, 0, 8)

	emit := func(lo, hi int) {
		s := strings.TrimSpace(string(runes[lo:hi]))
		if s != "" {
			segments = append(segments, s)
		}
	}

	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' && r != '\n' {
			continue
		}

		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}

		// The sentence rule needs at least one whitespace rune after the
		// punctuation; the line-break rule does not.
		if r == '\n' || j > i+1 {
			emit(start, i+1)
			start = j
			i = j - 1
		}
	}
	emit(start, len(runes))

	return segments
}

// HasTranslatableText reports whether text contains at least one letter or
// digit. Inputs without any are passed through translation unchanged.
func HasTranslatableText(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
