package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/redis"
)

var farmDocs = []string{
	"I went to visit a farm one day",
	"Old McDonald had a farm",
	"One tomato, two tomatoes",
	"One, two, buckle my shoe",
	"Sleep, sleep, little one, sleep",
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, pkgredis.Nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.data))
	m.data = map[string][]byte{}
	return n, nil
}

type fixture struct {
	mux       *http.ServeMux
	metrics   *metrics.Metrics
	aggregate *analytics.Aggregator
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	idx, err := index.New(analyzer.Default())
	require.NoError(t, err)
	_, err = idx.IndexDocs(farmDocs)
	require.NoError(t, err)

	cfg := config.Default().Search
	cfg.MaxResults = 3
	cfg.DefaultLimit = 2
	cfg.MaxDocuments = 10

	f := &fixture{
		mux:       http.NewServeMux(),
		metrics:   metrics.New(prometheus.NewRegistry()),
		aggregate: analytics.NewAggregator(),
	}
	collector := analytics.NewCollector(nil, f.aggregate, 0)
	opts = append([]Option{WithMetrics(f.metrics), WithCollector(collector)}, opts...)
	New(idx, cfg, opts...).Register(f.mux)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) *searcher.Response {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp searcher.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return &resp
}

func TestSearchGET(t *testing.T) {
	f := newFixture(t)

	resp := decode(t, f.do(t, http.MethodGet, "/api/v1/search?q=one", ""))
	assert.Equal(t, "one", resp.Query)
	assert.Equal(t, []string{"one"}, resp.Tokens)
	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, 1, resp.Matches[0].Rank)
	assert.Equal(t, "One tomato, two tomatoes", resp.Matches[0].Text)
	assert.Greater(t, resp.Matches[0].Score, resp.Matches[1].Score)

	resp = decode(t, f.do(t, http.MethodGet, "/api/v1/search?q=one&limit=50", ""))
	assert.Len(t, resp.Matches, 3)

	resp = decode(t, f.do(t, http.MethodGet, "/api/v1/search?q=", ""))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Matches)

	stats := f.aggregate.Stats()
	assert.Equal(t, int64(3), stats.TotalSearches)
	assert.Equal(t, int64(1), stats.ZeroResultCount)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SearchQueriesTotal.WithLabelValues("match")))
}

func TestSearchGETInvalid(t *testing.T) {
	f := newFixture(t)
	for _, target := range []string{
		"/api/v1/search",
		"/api/v1/search?q=one&limit=abc",
		"/api/v1/search?q=one&limit=0",
	} {
		rec := f.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "error")
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.SearchQueriesTotal.WithLabelValues("invalid")))
}

func TestSearchPOST(t *testing.T) {
	f := newFixture(t)

	body := `{"docs": ["Goldilocks and the Three Bears", "Fuzzy Wuzzy", "The Bear Went Over The Mountain",
		"We're Going on a Bear Hunt", "Brown Bear, Brown Bear, What Do You See?"], "query": "bear", "limit": 10}`
	resp := decode(t, f.do(t, http.MethodPost, "/api/v1/search", body))
	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Matches, 3)
	assert.Equal(t, "Brown Bear, Brown Bear, What Do You See?", resp.Matches[0].Text)

	resp = decode(t, f.do(t, http.MethodPost, "/api/v1/search", `{"docs": [], "query": "bear"}`))
	assert.Equal(t, 0, resp.Count)
}

func TestSearchPOSTInvalid(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"null query", `{"docs": ["a"], "query": null}`, "query must be text"},
		{"missing query", `{"docs": ["a"]}`, "query must be text"},
		{"null doc", `{"docs": ["a", null], "query": "a"}`, "document 1 needs to be text"},
		{"bad json", `{"docs": `, "invalid request body"},
		{"negative limit", `{"docs": [], "query": "a", "limit": -1}`, "limit"},
		{"too many docs", `{"docs": ["1","2","3","4","5","6","7","8","9","10","11"], "query": "a"}`, "at most 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestSearchCached(t *testing.T) {
	qc := cache.New(&memStore{data: map[string][]byte{}}, time.Minute)
	f := newFixture(t, WithCache(qc))

	rec := f.do(t, http.MethodGet, "/api/v1/search?q=tomato", "")
	assert.Equal(t, "miss", rec.Header().Get(CacheHeader))
	first := decode(t, rec)
	rec = f.do(t, http.MethodGet, "/api/v1/search?q=tomato", "")
	assert.Equal(t, "hit", rec.Header().Get(CacheHeader))
	second := decode(t, rec)
	assert.Equal(t, first, second)

	hits, misses := qc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheHitsTotal))

	rec = f.do(t, http.MethodGet, "/api/v1/cache/stats", "")
	assert.Contains(t, rec.Body.String(), `"hit_rate":"50.0%"`)

	rec = f.do(t, http.MethodPost, "/api/v1/cache/invalidate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"keys_deleted":1`)
}

func TestCacheDisabled(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/cache/stats", "")
	assert.Contains(t, rec.Body.String(), "disabled")

	rec = f.do(t, http.MethodPost, "/api/v1/cache/invalidate", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIndexStats(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/index/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, float64(len(farmDocs)), stats["documents"])
	assert.Len(t, stats["fingerprint"], 64)
	assert.Contains(t, stats, "analyzer")
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodDelete, "/api/v1/search", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
