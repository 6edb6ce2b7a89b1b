// Package handler serves the search HTTP API over a corpus indexed at
// startup, plus ad hoc searches over documents posted in the request.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/search"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/middleware"
)

const maxBodyBytes = 4 << 20

// CacheHeader reports how a search was served: hit, miss or bypass.
const CacheHeader = "X-Cache"

type Handler struct {
	index        *index.Index
	analyzerKey  string
	workers      int
	defaultLimit int
	maxResults   int
	maxDocuments int

	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*Handler)

// WithCache serves GET searches through the result cache.
func WithCache(c *cache.QueryCache) Option {
	return func(h *Handler) { h.cache = c }
}

// WithCollector reports every search to the analytics collector.
func WithCollector(c *analytics.Collector) Option {
	return func(h *Handler) { h.collector = c }
}

// WithMetrics records query counts and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(idx *index.Index, cfg config.SearchConfig, opts ...Option) *Handler {
	h := &Handler{
		index:        idx,
		workers:      cfg.Workers,
		defaultLimit: cfg.DefaultLimit,
		maxResults:   cfg.MaxResults,
		maxDocuments: cfg.MaxDocuments,
		logger:       slog.Default().With("component", "search-handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if d, ok := idx.Analyzer().(describer); ok {
		h.analyzerKey = fmt.Sprint(d.Describe())
	} else {
		h.analyzerKey = fmt.Sprint(idx.Analyzer())
	}
	return h
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("POST /api/v1/search", h.SearchDocs)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search handles GET /api/v1/search?q=&limit= over the startup corpus.
// An empty q is a valid query; a missing one is not.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	values, ok := r.URL.Query()["q"]
	if !ok {
		h.fail(ctx, w, apperrors.Invalid("query parameter 'q' is required"))
		return
	}
	query := values[0]
	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	compute := func() (*searcher.Response, error) {
		s, err := search.New(h.index, query, search.WithWorkers(h.workers))
		if err != nil {
			return nil, err
		}
		return searcher.NewResponse(s, limit), nil
	}

	var resp *searcher.Response
	cacheStatus := analytics.CacheBypass
	if h.cache != nil {
		key := cache.Key{
			Fingerprint: h.index.Fingerprint(),
			Analyzer:    h.analyzerKey,
			Query:       query,
			Limit:       limit,
		}
		var hit bool
		resp, hit, err = h.cache.GetOrCompute(ctx, key, compute)
		cacheStatus = analytics.CacheMiss
		if hit {
			cacheStatus = analytics.CacheHit
		}
	} else {
		resp, err = compute()
	}
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	h.observe(ctx, resp, h.index.Len(), cacheStatus, time.Since(start))
	w.Header().Set(CacheHeader, cacheStatus)
	h.writeJSON(w, http.StatusOK, resp)
}

type docsRequest struct {
	Docs  []*string `json:"docs"`
	Query *string   `json:"query"`
	Limit int       `json:"limit"`
}

// SearchDocs handles POST /api/v1/search: it indexes the posted documents
// with the service's analyzer and ranks them against the posted query. A
// null query or null document is rejected.
func (h *Handler) SearchDocs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req docsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.fail(ctx, w, apperrors.Invalid("invalid request body: %v", err))
		return
	}
	if h.maxDocuments > 0 && len(req.Docs) > h.maxDocuments {
		h.fail(ctx, w, apperrors.Invalid("at most %d documents per request, got %d", h.maxDocuments, len(req.Docs)))
		return
	}
	limit := h.defaultLimit
	if req.Limit != 0 {
		var err error
		if limit, err = h.parseLimit(strconv.Itoa(req.Limit)); err != nil {
			h.fail(ctx, w, err)
			return
		}
	}
	if req.Query == nil {
		h.fail(ctx, w, apperrors.Invalid("query must be text"))
		return
	}

	idx, err := index.New(h.index.Analyzer(), index.WithWorkers(h.workers))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	if _, err := idx.IndexNullable(req.Docs); err != nil {
		h.fail(ctx, w, err)
		return
	}
	s, err := search.NewNullable(idx, req.Query, search.WithWorkers(h.workers))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	resp := searcher.NewResponse(s, limit)
	h.observe(ctx, resp, idx.Len(), analytics.CacheBypass, time.Since(start))
	w.Header().Set(CacheHeader, analytics.CacheBypass)
	h.writeJSON(w, http.StatusOK, resp)
}

type describer interface {
	Describe() map[string]string
}

// IndexStats handles GET /api/v1/index/stats.
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"documents":   h.index.Len(),
		"fingerprint": h.index.Fingerprint(),
		"workers":     h.workers,
	}
	if d, ok := h.index.Analyzer().(describer); ok {
		stats["analyzer"] = d.Describe()
	} else {
		stats["analyzer"] = fmt.Sprint(h.index.Analyzer())
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
		"breaker":  h.cache.BreakerState().String(),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

// parseLimit accepts an empty string (default limit) or a positive integer,
// clamped to maxResults.
func (h *Handler) parseLimit(raw string) (int, error) {
	if raw == "" {
		return h.defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apperrors.Invalid("limit must be a positive integer")
	}
	if h.maxResults > 0 && limit > h.maxResults {
		limit = h.maxResults
	}
	return limit, nil
}

func (h *Handler) observe(ctx context.Context, resp *searcher.Response, docs int, cacheStatus string, elapsed time.Duration) {
	logger.FromContext(ctx).Info("search completed",
		"query", resp.Query,
		"matches", resp.Count,
		"returned", len(resp.Matches),
		"cache", cacheStatus,
		"latency_ms", elapsed.Milliseconds(),
	)
	if h.metrics != nil {
		h.metrics.ObserveQuery(cacheStatus, elapsed.Seconds(), resp.Count)
		switch cacheStatus {
		case analytics.CacheHit:
			h.metrics.CacheHitsTotal.Inc()
		case analytics.CacheMiss:
			h.metrics.CacheMissesTotal.Inc()
		}
	}
	if h.collector != nil {
		event := analytics.NewSearchEvent(resp.Query, resp.Tokens, docs, resp.Count, len(resp.Matches), elapsed, cacheStatus)
		event.RequestID = middleware.GetRequestID(ctx)
		h.collector.TrackSearch(event)
	}
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(ctx).Error("search failed", "error", err)
		if h.metrics != nil {
			h.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		}
		h.writeError(w, status, "search failed")
		return
	}
	logger.FromContext(ctx).Debug("search rejected", "error", err)
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues("invalid").Inc()
	}
	h.writeError(w, status, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
