// Package index keeps an ordered collection of Documents that were all
// analyzed by the same Analyzer, so term normalisation is consistent across
// the corpus.
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/document"
	apperrors "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/errors"
)

type Index struct {
	mu          sync.RWMutex
	analyzer    analyzer.Analyzer
	docs        []*document.Document
	fingerprint string
	workers     int
	logger      *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithWorkers analyzes documents on up to n goroutines. n <= 1 is sequential.
func WithWorkers(n int) Option {
	return func(i *Index) {
		if n > 1 {
			i.workers = n
		}
	}
}

// New creates an empty Index bound to a.
func New(a analyzer.Analyzer, opts ...Option) (*Index, error) {
	if a == nil {
		return nil, apperrors.Invalid("index needs an analyzer")
	}
	i := &Index{
		analyzer:    a,
		docs:        []*document.Document{},
		fingerprint: fingerprint(nil),
		workers:     1,
		logger:      slog.Default().With("component", "index"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// IndexDocs builds one Document per string, replaces the current collection
// with them and returns the new collection in input order. On error the
// current collection is left untouched.
func (i *Index) IndexDocs(docs []string) ([]*document.Document, error) {
	processed := make([]*document.Document, len(docs))
	var g errgroup.Group
	g.SetLimit(i.workers)
	for n, text := range docs {
		g.Go(func() error {
			d, err := document.New(text, i.analyzer)
			if err != nil {
				return err
			}
			processed[n] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building documents: %w", err)
	}
	i.replace(processed, docs)
	return processed, nil
}

// IndexNullable is IndexDocs for input that may hold absent entries. Every
// entry is checked first; a nil entry fails the whole call and leaves the
// current collection untouched.
func (i *Index) IndexNullable(docs []*string) ([]*document.Document, error) {
	texts := make([]string, len(docs))
	for n, text := range docs {
		if text == nil {
			return nil, apperrors.Invalid("document %d needs to be text", n)
		}
		texts[n] = *text
	}
	return i.IndexDocs(texts)
}

func (i *Index) replace(docs []*document.Document, originals []string) {
	var tokens int
	for _, d := range docs {
		tokens += d.Len()
	}
	fp := fingerprint(originals)

	i.mu.Lock()
	i.docs = docs
	i.fingerprint = fp
	i.mu.Unlock()

	i.logger.Debug("documents indexed",
		"docs", len(docs),
		"tokens", tokens,
		"fingerprint", fp[:12],
	)
}

// Docs returns the indexed documents in input order. The slice must not be
// modified.
func (i *Index) Docs() []*document.Document {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.docs
}

// Len returns the number of indexed documents.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.docs)
}

// Analyzer returns the analyzer every document was built with.
func (i *Index) Analyzer() analyzer.Analyzer {
	return i.analyzer
}

// Fingerprint identifies the current collection; it changes whenever the
// originals or their order change.
func (i *Index) Fingerprint() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.fingerprint
}

func (i *Index) String() string {
	return fmt.Sprintf("Index[docs=%d, analyzer=%v]", i.Len(), i.analyzer)
}

func fingerprint(originals []string) string {
	h := sha256.New()
	for _, text := range originals {
		fmt.Fprintf(h, "%d:%s\x00", len(text), text)
	}
	return hex.EncodeToString(h.Sum(nil))
}
