// Command loadtest drives GET /api/v1/search on a running searcher and
// reports throughput, latency percentiles, status codes and cache hits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher/handler"
)

var defaultQueries = []string{
	"one",
	"day one",
	"tomato",
	"farm",
	"sleep little one",
	"bear",
	"brown bear",
	"bear hunt",
	"mountain",
	"",
}

type options struct {
	baseURL     string
	concurrency int
	duration    time.Duration
	limit       int
	queries     []string
}

type stats struct {
	total     atomic.Int64
	failed    atomic.Int64
	cacheHits atomic.Int64

	mu        sync.Mutex
	latencies []time.Duration
	codes     map[int]int64
}

func newStats() *stats {
	return &stats{
		latencies: make([]time.Duration, 0, 100000),
		codes:     make(map[int]int64),
	}
}

func (s *stats) record(d time.Duration, code int, cache string, err error) {
	s.total.Add(1)
	if err != nil {
		s.failed.Add(1)
		return
	}
	if code < 200 || code >= 300 {
		s.failed.Add(1)
	}
	if cache == "hit" {
		s.cacheHits.Add(1)
	}
	s.mu.Lock()
	s.latencies = append(s.latencies, d)
	s.codes[code]++
	s.mu.Unlock()
}

func main() {
	opts := options{}
	flag.StringVar(&opts.baseURL, "url", "http://localhost:8080", "base URL of the search service")
	flag.IntVar(&opts.concurrency, "concurrency", 10, "number of concurrent workers")
	flag.DurationVar(&opts.duration, "duration", 30*time.Second, "test duration")
	flag.IntVar(&opts.limit, "limit", 10, "limit sent with every query")
	queriesPath := flag.String("queries", "", "file with one query per line (default: built-in list)")
	flag.Parse()

	opts.queries = defaultQueries
	if *queriesPath != "" {
		queries, err := corpus.LinesLoader{Path: *queriesPath}.Load(context.Background())
		if err != nil || len(queries) == 0 {
			fmt.Fprintf(os.Stderr, "no queries loaded from %s: %v\n", *queriesPath, err)
			os.Exit(1)
		}
		opts.queries = queries
	}

	fmt.Println("=== tinysearch load test ===")
	fmt.Printf("Target:      %s\n", opts.baseURL)
	fmt.Printf("Concurrency: %d\n", opts.concurrency)
	fmt.Printf("Duration:    %s\n", opts.duration)
	fmt.Printf("Queries:     %d unique\n\n", len(opts.queries))

	s := runLoad(opts)
	if !report(os.Stdout, s, opts.duration) {
		os.Exit(1)
	}
}

func runLoad(opts options) *stats {
	s := newStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        opts.concurrency * 2,
			MaxIdleConnsPerHost: opts.concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	var g errgroup.Group
	for w := 0; w < opts.concurrency; w++ {
		g.Go(func() error {
			for i := w; ctx.Err() == nil; i++ {
				query := opts.queries[i%len(opts.queries)]
				target := fmt.Sprintf("%s/api/v1/search?q=%s&limit=%d", opts.baseURL, url.QueryEscape(query), opts.limit)
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
				if err != nil {
					return fmt.Errorf("building request: %w", err)
				}
				start := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(start)
				if err != nil {
					if ctx.Err() == nil {
						s.record(elapsed, 0, "", err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				s.record(elapsed, resp.StatusCode, resp.Header.Get(handler.CacheHeader), nil)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "load test aborted: %v\n", err)
	}
	return s
}

// report prints the summary and reports whether any request completed.
func report(w io.Writer, s *stats, duration time.Duration) bool {
	total := s.total.Load()
	failed := s.failed.Load()

	fmt.Fprintln(w, "=== Results ===")
	fmt.Fprintf(w, "Total Requests:  %d\n", total)
	fmt.Fprintf(w, "Failed:          %d\n", failed)
	fmt.Fprintf(w, "Cache Hits:      %d\n", s.cacheHits.Load())
	if total == 0 {
		fmt.Fprintln(w, "\nWARNING: no requests completed. Is the service running?")
		return false
	}
	fmt.Fprintf(w, "Error Rate:      %.2f%%\n", float64(failed)/float64(total)*100)
	fmt.Fprintf(w, "Requests/sec:    %.2f\n", float64(total)/duration.Seconds())

	s.mu.Lock()
	latencies := append([]time.Duration(nil), s.latencies...)
	codes := make([]int, 0, len(s.codes))
	for code := range s.codes {
		codes = append(codes, code)
	}
	s.mu.Unlock()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		fmt.Fprintln(w, "\n=== Latency ===")
		fmt.Fprintf(w, "Min:    %s\n", latencies[0])
		fmt.Fprintf(w, "Avg:    %s\n", sum/time.Duration(len(latencies)))
		for _, p := range []float64{50, 90, 95, 99} {
			fmt.Fprintf(w, "P%-5g %s\n", p, percentile(latencies, p))
		}
		fmt.Fprintf(w, "Max:    %s\n", latencies[len(latencies)-1])
	}

	sort.Ints(codes)
	fmt.Fprintln(w, "\n=== Status Codes ===")
	for _, code := range codes {
		fmt.Fprintf(w, "  %d: %d\n", code, s.codes[code])
	}
	return true
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
