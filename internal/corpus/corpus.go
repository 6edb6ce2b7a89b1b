// Package corpus supplies raw document strings to the index from a lines
// file, a directory of text/HTML/PDF files, or an SQL table.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/sqlite"
)

// Source names accepted by config.CorpusConfig.Source.
const (
	SourceLines    = "lines"
	SourceDir      = "dir"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Loader returns the documents of a corpus in a deterministic order.
type Loader interface {
	Load(ctx context.Context) ([]string, error)
}

// LinesLoader reads one document per line.
type LinesLoader struct {
	Path string
	// KeepBlank retains empty lines as empty documents.
	KeepBlank bool
}

func (l LinesLoader) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", l.Path, err)
	}
	defer f.Close()

	var docs []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" && !l.KeepBlank {
			continue
		}
		docs = append(docs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", l.Path, err)
	}
	return docs, nil
}

// Closer releases whatever FromConfig opened for the loader.
type Closer func() error

// FromConfig builds the loader selected by cfg.Corpus.Source. The returned
// Closer must be called once loading is done.
func FromConfig(ctx context.Context, cfg *config.Config) (Loader, Closer, error) {
	noop := func() error { return nil }
	switch cfg.Corpus.Source {
	case "", SourceLines:
		return LinesLoader{Path: cfg.Corpus.Path}, noop, nil
	case SourceDir:
		return DirLoader{Root: cfg.Corpus.Path}, noop, nil
	case SourcePostgres:
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLLoader(client.DB, cfg.Corpus.Query), client.Close, nil
	case SourceSQLite:
		sc := cfg.SQLite
		if cfg.Corpus.Path != "" {
			sc.Path = cfg.Corpus.Path
		}
		client, err := sqlite.Open(ctx, sc)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLLoader(client.DB, cfg.Corpus.Query), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
	}
}
