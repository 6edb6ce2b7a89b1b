package analyzer

import (
	"sort"
	"strings"
)

// StopWords is a case-insensitive set of words dropped by the pipeline. The
// zero value is an empty set.
type StopWords struct {
	words map[string]struct{}
}

// NewStopWords builds a set from the given words.
func NewStopWords(words ...string) StopWords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return StopWords{words: set}
}

// Contains reports whether the lowered token is a stop-word. Matching is exact.
func (s StopWords) Contains(token string) bool {
	if len(s.words) == 0 {
		return false
	}
	_, ok := s.words[strings.ToLower(token)]
	return ok
}

// Len returns the number of words in the set.
func (s StopWords) Len() int {
	return len(s.words)
}

// Words returns the set sorted alphabetically.
func (s StopWords) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the words of both sets.
func (s StopWords) Union(other StopWords) StopWords {
	return NewStopWords(append(s.Words(), other.Words()...)...)
}

// EnglishStopWords returns a common English stop-word list.
func EnglishStopWords() StopWords {
	return NewStopWords(
		"a", "an", "and", "are", "as", "at",
		"be", "by", "for", "from", "has", "he",
		"in", "is", "it", "its", "of", "on",
		"or", "that", "the", "to", "was", "were",
		"will", "with", "this", "but", "they",
		"have", "had", "what", "when", "where",
		"who", "which", "their", "if", "each",
		"do", "not", "no", "so", "can",
	)
}
