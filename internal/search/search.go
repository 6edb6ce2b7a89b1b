// Package search scores every document of an Index against a query with
// TF-IDF and exposes the ranked Results.
//
// Document frequency is found by scanning the whole Index once per distinct
// query term. That is fine for small corpora; larger ones would want an
// inverted postings index (term -> documents) so df becomes a lookup.
package search

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/document"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/errors"
)

// Search is a scored query. Scoring happens in the constructor; the value is
// read-only afterwards.
type Search struct {
	query       string
	queryTokens []string
	index       *index.Index
	analyzer    analyzer.Analyzer
	results     *Results
}

type options struct {
	analyzer analyzer.Analyzer
	workers  int
}

// Option configures a Search.
type Option func(*options)

// WithAnalyzer overrides the analyzer used for the query. It must be the one
// the Index was built with or query and document terms will not line up;
// that is the caller's responsibility and is not checked.
func WithAnalyzer(a analyzer.Analyzer) Option {
	return func(o *options) {
		o.analyzer = a
	}
}

// WithWorkers scores documents on up to n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 1 {
			o.workers = n
		}
	}
}

// New scores every document of idx against query.
func New(idx *index.Index, query string, opts ...Option) (*Search, error) {
	if idx == nil {
		return nil, apperrors.Invalid("search needs an index")
	}
	o := options{analyzer: idx.Analyzer(), workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.analyzer == nil {
		return nil, apperrors.Invalid("search needs an analyzer")
	}

	s := &Search{
		query:    query,
		index:    idx,
		analyzer: o.analyzer,
	}
	if err := s.run(o.workers); err != nil {
		return nil, err
	}
	return s, nil
}

// NewNullable is New for a query that may be absent. A nil query is a
// validation error.
func NewNullable(idx *index.Index, query *string, opts ...Option) (*Search, error) {
	if query == nil {
		return nil, apperrors.Invalid("query must be text")
	}
	return New(idx, *query, opts...)
}

// FromDocs indexes docs with a and searches them.
func FromDocs(docs []string, query string, a analyzer.Analyzer, opts ...Option) (*Search, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	idx, err := index.New(a, index.WithWorkers(o.workers))
	if err != nil {
		return nil, err
	}
	if _, err := idx.IndexDocs(docs); err != nil {
		return nil, fmt.Errorf("indexing documents: %w", err)
	}
	return New(idx, query, opts...)
}

func (s *Search) run(workers int) error {
	start := time.Now()
	s.queryTokens = s.analyzer.Analyze(s.query)
	docs := s.index.Docs()
	df := documentFrequencies(s.queryTokens, docs)
	n := len(docs)

	all := make([]Result, n)
	var g errgroup.Group
	g.SetLimit(workers)
	for i, d := range docs {
		g.Go(func() error {
			all[i] = Result{Doc: d, Score: score(d, s.queryTokens, df, n)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scoring documents: %w", err)
	}
	s.results = newResults(all)

	slog.Debug("query scored",
		"component", "search",
		"query", s.query,
		"tokens", s.queryTokens,
		"docs", n,
		"matches", s.results.Count(),
		"elapsed", time.Since(start),
	)
	return nil
}

// documentFrequencies counts, for each distinct query term, the documents
// that contain it.
func documentFrequencies(queryTokens []string, docs []*document.Document) map[string]int {
	df := make(map[string]int, len(queryTokens))
	for _, term := range queryTokens {
		if _, done := df[term]; done {
			continue
		}
		var count int
		for _, d := range docs {
			if d.Tokens().Has(term) {
				count++
			}
		}
		df[term] = count
	}
	return df
}

// score sums tf*idf over the query tokens. Repeated query tokens count once
// per occurrence.
func score(d *document.Document, queryTokens []string, df map[string]int, totalDocs int) float64 {
	var sum float64
	for _, term := range queryTokens {
		sum += computeTF(d.Tokens().Count(term), d.Len()) * computeIDF(totalDocs, df[term])
	}
	return sum
}

func computeTF(termCount, docLength int) float64 {
	if docLength == 0 {
		return 0
	}
	return float64(termCount) / float64(docLength)
}

func computeIDF(totalDocs, docFreq int) float64 {
	if docFreq == 0 || totalDocs == 0 {
		return 0
	}
	return math.Log(float64(totalDocs) / float64(docFreq))
}

// Query returns the raw query string.
func (s *Search) Query() string {
	return s.query
}

// QueryTokens returns the analyzed query.
func (s *Search) QueryTokens() []string {
	out := make([]string, len(s.queryTokens))
	copy(out, s.queryTokens)
	return out
}

// Index returns the index that was searched.
func (s *Search) Index() *index.Index {
	return s.index
}

// Results returns the scored results.
func (s *Search) Results() *Results {
	return s.results
}

func (s *Search) String() string {
	return fmt.Sprintf("Search[query=%q, matches=%d]", s.query, s.results.Count())
}
