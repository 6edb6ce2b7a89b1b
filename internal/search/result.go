package search

import (
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/document"
)

// Result pairs a document with its TF-IDF score.
type Result struct {
	Doc   *document.Document
	Score float64
}

func (r Result) String() string {
	return fmt.Sprintf("doc=%s score=%g", r.Doc, r.Score)
}

// Results holds one Result per indexed document in index order, plus the
// positive-score matches sorted by score descending. Ties keep index order.
type Results struct {
	all     []Result
	matches []Result
}

func newResults(all []Result) *Results {
	matches := make([]Result, 0, len(all))
	for _, r := range all {
		if r.Score > 0.0 {
			matches = append(matches, r)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return &Results{all: all, matches: matches}
}

// Count is the number of matches.
func (r *Results) Count() int {
	return len(r.matches)
}

// Matches returns the positive-score results, best first.
func (r *Results) Matches() []Result {
	out := make([]Result, len(r.matches))
	copy(out, r.matches)
	return out
}

// All returns every result in index order, including zero scores.
func (r *Results) All() []Result {
	out := make([]Result, len(r.all))
	copy(out, r.all)
	return out
}

// Top returns at most limit matches. limit <= 0 returns all of them.
func (r *Results) Top(limit int) []Result {
	if limit <= 0 || limit > len(r.matches) {
		limit = len(r.matches)
	}
	out := make([]Result, limit)
	copy(out, r.matches[:limit])
	return out
}

func (r *Results) String() string {
	return fmt.Sprint(r.all)
}
