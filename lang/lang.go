// Package lang provides lightweight, script-based language classification
// for text fragments. It needs no external services: the primary classifier
// counts characters in a small set of Unicode script ranges, and a secondary
// regex-based detector covers a few additional scripts as a fallback only.
package lang

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// Unknown is returned when no script evidence is found.
const Unknown = "unknown"

// Share of counted characters a script must exceed to win.
// Checked in a fixed priority order (ar, hi, zh); first match wins,
// which deliberately biases toward flagging non-Latin scripts even
// when mixed with majority Latin text.
const scriptThreshold = 0.3

// Classify assigns a language code to a text fragment by counting
// characters in four script ranges: Latin (ASCII alpha), Arabic,
// Devanagari and CJK. It is deterministic for a given input. Empty or
// whitespace-only input yields "unknown". When no single non-Latin
// script exceeds the threshold the result defaults to "en"; mixed-script
// text below every threshold therefore classifies as "en" even without
// Latin evidence.
func Classify(text string) string {
	var latin, arabic, devanagari, cjk int

	for _, r := range text {
		switch {
		case r < 128 && isASCIIAlpha(r):
			latin++
		case r >= 0x0600 && r <= 0x06FF:
			arabic++
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case r >= 0x4E00 && r <= 0x9FFF:
			cjk++
		}
	}

	total := latin + arabic + devanagari + cjk
	if total == 0 {
		return Unknown
	}

	switch {
	case float64(arabic)/float64(total) > scriptThreshold:
		return "ar"
	case float64(devanagari)/float64(total) > scriptThreshold:
		return "hi"
	case float64(cjk)/float64(total) > scriptThreshold:
		return "zh"
	default:
		return "en"
	}
}

func isASCIIAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Fallback regex heuristics for scripts the primary classifier does not
// separate. Tried in order; the first hit wins.
var fallbackChecks = []struct {
	code string
	re   *regexp.Regexp
}{
	{"ru", regexp.MustCompile(`[а-яё]`)},
	{"zh", regexp.MustCompile(`\p{Han}`)},
	{"es", regexp.MustCompile(`[ñáéíóúü]`)},
	{"fr", regexp.MustCompile(`[àâäçèéêëïîôöùûüÿ]`)},
}

// DetectFallback applies the secondary regex heuristics to lowercased
// text. It returns "" when nothing matches; callers decide the default.
// It must only be consulted when the primary classifier produced no
// confident non-Latin match; it never overrides one.
func DetectFallback(text string) string {
	lower := strings.ToLower(text)
	for _, c := range fallbackChecks {
		if c.re.MatchString(lower) {
			return c.code
		}
	}
	return ""
}

// Normalize canonicalizes a language code through the BCP 47 machinery,
// lowercased. Unparseable or empty codes pass through unchanged.
func Normalize(code string) string {
	if code == "" || code == Unknown {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == language.No {
		return code
	}
	return strings.ToLower(base.String())
}
