package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reStripChars = regexp.MustCompile(`[-*/().,]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reCurrency   = regexp.MustCompile(`(?i)^(S/|US\$|USD|EUR|\$|€|£)`)
	reDigits     = regexp.MustCompile(`\D`)
)

// Normalize canonicalizes free text for comparison: accents stripped, the
// common punctuation set removed, whitespace collapsed, one leading currency
// marker dropped, upper-cased, trimmed. Total over any input.
func Normalize(input string) string {
	s := stripMarks(input)
	s = reStripChars.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reCurrency.ReplaceAllString(s, "")
	s = strings.ToUpper(s)
	return strings.TrimSpace(s)
}

func stripMarks(s string) string {
	decomposed := norm.NFD.String(s)
	out := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func SplitWords(text string) []string {
	return strings.Fields(text)
}

func FilterWords(words []string, ignore map[string]struct{}) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := ignore[w]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Tokenize splits normalized text and drops ignore-words. If filtering would
// drop every token the unfiltered list is kept, so callers never divide by
// an empty token set.
func Tokenize(text string, ignore map[string]struct{}) []string {
	words := SplitWords(text)
	filtered := FilterWords(words, ignore)
	if len(filtered) == 0 {
		return words
	}
	return filtered
}

func DigitsOnly(s string) string {
	return reDigits.ReplaceAllString(s, "")
}

func HasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
