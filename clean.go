package transmem

import (
	"regexp"
	"strings"
)

// Seq2seq models occasionally emit apologetic or labelling boilerplate in
// front of the actual translation.
var (
	boilerplatePrefix = regexp.MustCompile(`^(?:I'm sorry|I apologize|Translation:|Translated text:),?\s*`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,!?])`)
)

// CleanTranslation normalizes raw provider output: strips a leading
// boilerplate prefix, collapses whitespace runs to single spaces, removes
// spaces before closing punctuation, and trims the result.
func CleanTranslation(text string) string {
	text = boilerplatePrefix.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
