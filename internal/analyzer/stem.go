package analyzer

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
	"github.com/kljensen/snowball/english"
)

// Stemmer reduces a token to its root form.
type Stemmer func(token string) string

// NoStem returns the token unchanged.
func NoStem(token string) string { return token }

// EnglishStemmer applies the English (Porter2) snowball stemmer.
func EnglishStemmer(token string) string {
	if token == "" {
		return token
	}
	return english.Stem(token, true)
}

// SnowballStemmer returns the snowball stemmer for language. "none" and ""
// return NoStem.
func SnowballStemmer(language string) (Stemmer, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	switch language {
	case "", "none":
		return NoStem, nil
	case "english":
		return EnglishStemmer, nil
	}
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("unsupported stemmer language %q: %w", language, err)
	}
	return func(token string) string {
		if token == "" {
			return token
		}
		stemmed, err := snowball.Stem(token, language, true)
		if err != nil {
			return token
		}
		return stemmed
	}, nil
}
