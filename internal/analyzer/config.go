package analyzer

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
)

// FromConfig builds a Pipeline from the analyzer section of the config.
func FromConfig(cfg config.AnalyzerConfig) (*Pipeline, error) {
	var sw StopWords
	switch cfg.StopWords {
	case "", "none":
	case "english":
		sw = EnglishStopWords()
	default:
		return nil, fmt.Errorf("unknown stop-word preset %q", cfg.StopWords)
	}
	if len(cfg.ExtraStopWords) > 0 {
		sw = sw.Union(NewStopWords(cfg.ExtraStopWords...))
	}

	stem, err := SnowballStemmer(cfg.Stemmer)
	if err != nil {
		return nil, err
	}
	name := cfg.Stemmer
	if name == "" {
		name = "none"
	}

	opts := []Option{WithStopWords(sw), WithStemmer(name, stem)}
	if cfg.FoldUnicode {
		opts = append(opts, WithNormalizer(FoldNormalizer))
	}
	return NewPipeline(opts...), nil
}
