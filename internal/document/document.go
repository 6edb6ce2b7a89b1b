// Package document holds a single raw text together with its term
// frequencies, computed once at construction through an Analyzer.
package document

import (
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	apperrors "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/errors"
)

// Document is immutable after New returns.
type Document struct {
	original string
	tokens   Frequencies
}

// New analyzes text with a and freezes the resulting term frequencies. Empty
// text is valid.
func New(text string, a analyzer.Analyzer) (*Document, error) {
	if a == nil {
		return nil, apperrors.Invalid("document needs an analyzer")
	}
	return &Document{
		original: text,
		tokens:   Count(a.Analyze(text)),
	}, nil
}

// NewNullable is New for callers whose text may be absent, such as decoded
// JSON. A nil text is a validation error.
func NewNullable(text *string, a analyzer.Analyzer) (*Document, error) {
	if text == nil {
		return nil, apperrors.Invalid("document needs to be text")
	}
	return New(*text, a)
}

// Original returns the raw text the document was built from.
func (d *Document) Original() string {
	return d.original
}

// Tokens returns the document's term frequencies.
func (d *Document) Tokens() Frequencies {
	return d.tokens
}

// Len returns the total number of tokens in the document.
func (d *Document) Len() int {
	return d.tokens.total
}

func (d *Document) String() string {
	return `"` + d.original + `"`
}
