// Command tinysearch indexes a corpus and prints the documents that match a
// query, best first.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/search"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tinysearch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file")
	corpusPath := fs.String("corpus", "", "corpus file, directory or database path")
	source := fs.String("source", "", "corpus source: lines, dir, postgres or sqlite")
	query := fs.String("query", "", "query text")
	limit := fs.Int("limit", 0, "maximum matches to print (0 uses search.defaultLimit, -1 prints all)")
	stopWords := fs.String("stopwords", "", "stop-word preset: none or english")
	stemmer := fs.String("stemmer", "", "snowball stemmer language, or none")
	workers := fs.Int("workers", 0, "goroutines used for indexing and scoring")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	queryGiven := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "query" {
			queryGiven = true
		}
	})
	if !queryGiven {
		fmt.Fprintln(stderr, "tinysearch: -query is required")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}
	if *source != "" {
		cfg.Corpus.Source = *source
	}
	if *stopWords != "" {
		cfg.Analyzer.StopWords = *stopWords
	}
	if *stemmer != "" {
		cfg.Analyzer.Stemmer = *stemmer
	}
	if *workers > 0 {
		cfg.Search.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}
	logger.SetupWriter(stderr, cfg.Logging.Level, cfg.Logging.Format)

	a, err := analyzer.FromConfig(cfg.Analyzer)
	if err != nil {
		fmt.Fprintf(stderr, "invalid analyzer: %v\n", err)
		return 1
	}
	built, err := corpus.BuildIndex(ctx, cfg, a)
	if err != nil {
		fmt.Fprintf(stderr, "failed to build index: %v\n", err)
		return 1
	}

	start := time.Now()
	s, err := search.New(built.Index, *query, search.WithWorkers(cfg.Search.Workers))
	if err != nil {
		fmt.Fprintf(stderr, "search failed: %v\n", err)
		return 1
	}
	elapsed := time.Since(start)

	n := *limit
	if n == 0 {
		n = cfg.Search.DefaultLimit
	}
	results := s.Results()
	top := results.Top(n)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for i, r := range top {
		fmt.Fprintf(tw, "%d\t%.6f\t%s\n", i+1, r.Score, r.Doc.Original())
	}
	tw.Flush()
	fmt.Fprintf(stdout, "%d of %d documents matched %q (tokens %v), showing %d in %s\n",
		results.Count(), built.Index.Len(), *query, s.QueryTokens(), len(top), elapsed.Round(time.Microsecond))
	return 0
}
