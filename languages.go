package transmem

import "strings"

// SupportedPairs enumerates the language pairs the engine accepts, mapped to
// human-readable descriptions for provider prompts. The set is fixed: an
// unsupported pair is a configuration error, signaled before any work.
var SupportedPairs = map[string]string{
	"fr-en": "French to English",
	"en-fr": "English to French",
	"en-es": "English to Spanish",
	"es-en": "Spanish to English",
}

// languageNames maps the pair constituents to names used in prompts.
var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
}

// IsSupportedPair reports whether pair is in the supported set.
func IsSupportedPair(pair string) bool {
	_, ok := SupportedPairs[pair]
	return ok
}

// ValidatePair returns an UnsupportedPairError when pair is outside the
// supported set.
func ValidatePair(pair string) error {
	if !IsSupportedPair(pair) {
		return &UnsupportedPairError{Pair: pair}
	}
	return nil
}

// Pairs returns the supported pair codes in lexical order.
func Pairs() []string {
	out := make([]string, 0, len(SupportedPairs))
	for _, p := range []string{"en-es", "en-fr", "es-en", "fr-en"} {
		if _, ok := SupportedPairs[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SplitPair splits a pair code into its source and target language codes.
// The second return is false when the code is not of the form "xx-yy".
func SplitPair(pair string) (source, target string, ok bool) {
	parts := strings.SplitN(pair, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// LanguageName returns the human-readable name of a language code, falling
// back to the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
