// Package analyzer turns raw text into an ordered sequence of normalised
// tokens. A Pipeline splits on whitespace, strips everything but letters,
// digits and dashes, lower-cases, drops stop-words and finally stems. Each
// stage is a swappable strategy.
package analyzer

import (
	"fmt"
	"strings"
)

// Analyzer converts text into tokens. Implementations must be pure: the same
// input always yields the same output.
type Analyzer interface {
	Analyze(text string) []string
}

// Pipeline is the standard Analyzer. It holds no per-document state and is
// safe for concurrent use.
type Pipeline struct {
	tokenizer  Tokenizer
	normalizer Normalizer
	stopWords  StopWords
	stemmer    Stemmer
	stemName   string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTokenizer replaces the whitespace tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.tokenizer = t
		}
	}
}

// WithNormalizer replaces the strip-and-lowercase normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithStopWords sets the stop-word set. Entries must be unstemmed, since the
// comparison runs before stemming.
func WithStopWords(sw StopWords) Option {
	return func(p *Pipeline) {
		p.stopWords = sw
	}
}

// WithStemmer sets the stemming function. The name only shows up in String.
func WithStemmer(name string, s Stemmer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.stemmer = s
			p.stemName = name
		}
	}
}

// NewPipeline builds a Pipeline. Without options it tokenizes on whitespace,
// strips and lower-cases, keeps every token and does not stem.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		tokenizer:  WhitespaceTokenizer,
		normalizer: StripNormalizer,
		stemmer:    NoStem,
		stemName:   "none",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default returns the pipeline used when nothing else is configured: no
// stop-words and the English snowball stemmer.
func Default() *Pipeline {
	return NewPipeline(WithStemmer("english", EnglishStemmer))
}

// Analyze runs tokenize, normalize, stop-word filter and stem, in that order.
// An empty text yields a single empty token.
func (p *Pipeline) Analyze(text string) []string {
	raw := p.tokenizer(text)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = p.normalizer(tok)
		if p.stopWords.Contains(tok) {
			continue
		}
		tokens = append(tokens, p.stemmer(tok))
	}
	return tokens
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline[stopwords=%d, stemmer=%s]", p.stopWords.Len(), p.stemName)
}

// Describe returns a short key=value summary used by stats endpoints.
func (p *Pipeline) Describe() map[string]string {
	words := p.stopWords.Words()
	return map[string]string{
		"stemmer":   p.stemName,
		"stopwords": strings.Join(words, ","),
	}
}
