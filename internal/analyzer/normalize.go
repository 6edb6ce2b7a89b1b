package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into raw tokens.
type Tokenizer func(text string) []string

// Normalizer rewrites a single raw token.
type Normalizer func(token string) string

var whitespace = regexp.MustCompile(`[\s\v\p{Z}]+`)

// WhitespaceTokenizer splits on runs of whitespace. Unlike strings.Fields it
// keeps empty edge tokens, so "" becomes [""] and " a" becomes ["", "a"].
func WhitespaceTokenizer(text string) []string {
	return whitespace.Split(text, -1)
}

// StripNormalizer removes every rune that is not a letter, digit or dash and
// lower-cases what is left.
func StripNormalizer(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// FoldNormalizer applies NFKC compatibility folding before stripping, so
// ligatures and full-width forms collapse to their plain equivalents.
func FoldNormalizer(token string) string {
	return StripNormalizer(norm.NFKC.String(token))
}
