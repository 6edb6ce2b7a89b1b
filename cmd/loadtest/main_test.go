package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
)

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(sorted, 50))
	assert.Equal(t, time.Duration(10), percentile(sorted, 99))
	assert.Equal(t, time.Duration(0), percentile(nil, 50))
}

func TestRunLoadAgainstHandler(t *testing.T) {
	idx, err := index.New(analyzer.Default())
	require.NoError(t, err)
	_, err = idx.IndexDocs([]string{"Old McDonald had a farm", "One tomato, two tomatoes"})
	require.NoError(t, err)
	mux := http.NewServeMux()
	handler.New(idx, config.Default().Search).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := runLoad(options{
		baseURL:     srv.URL,
		concurrency: 2,
		duration:    200 * time.Millisecond,
		limit:       5,
		queries:     []string{"farm", "tomato"},
	})
	require.Positive(t, s.total.Load())
	assert.Zero(t, s.failed.Load())

	var out bytes.Buffer
	assert.True(t, report(&out, s, 200*time.Millisecond))
	assert.Contains(t, out.String(), "200:")
}

func TestReportEmpty(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, report(&out, newStats(), time.Second))
	assert.Contains(t, out.String(), "no requests completed")
}
