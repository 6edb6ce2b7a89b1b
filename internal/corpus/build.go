package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
)

// Built is an index together with how long loading and indexing took.
type Built struct {
	Index   *index.Index
	Elapsed time.Duration
}

// BuildIndex loads the configured corpus and indexes it with a.
func BuildIndex(ctx context.Context, cfg *config.Config, a analyzer.Analyzer) (*Built, error) {
	start := time.Now()
	loader, closeFn, err := FromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s corpus: %w", cfg.Corpus.Source, err)
	}
	if cfg.Search.MaxDocuments > 0 && len(docs) > cfg.Search.MaxDocuments {
		slog.Warn("corpus truncated", "loaded", len(docs), "max_documents", cfg.Search.MaxDocuments)
		docs = docs[:cfg.Search.MaxDocuments]
	}

	idx, err := index.New(a, index.WithWorkers(cfg.Search.Workers))
	if err != nil {
		return nil, err
	}
	if _, err := idx.IndexDocs(docs); err != nil {
		return nil, fmt.Errorf("indexing corpus: %w", err)
	}
	built := &Built{Index: idx, Elapsed: time.Since(start)}
	slog.Info("corpus indexed",
		"source", cfg.Corpus.Source,
		"documents", idx.Len(),
		"fingerprint", idx.Fingerprint()[:12],
		"elapsed", built.Elapsed,
	)
	return built, nil
}
