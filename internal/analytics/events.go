// Package analytics records what users search for. Events are aggregated in
// process for the stats endpoint and optionally published to Kafka.
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
	EventIndex      EventType = "index"
)

// Cache outcomes carried by SearchEvent.CacheStatus.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

// SearchEvent describes one executed query.
type SearchEvent struct {
	Type        EventType `json:"type"`
	Query       string    `json:"query"`
	Tokens      []string  `json:"tokens"`
	Documents   int       `json:"documents"`
	Matches     int       `json:"matches"`
	Returned    int       `json:"returned"`
	LatencyMs   float64   `json:"latency_ms"`
	CacheStatus string    `json:"cache_status"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
}

// NewSearchEvent fills Type from the match count and stamps the time.
func NewSearchEvent(query string, tokens []string, documents, matches, returned int, latency time.Duration, cacheStatus string) SearchEvent {
	typ := EventSearch
	if matches == 0 {
		typ = EventZeroResult
	}
	return SearchEvent{
		Type:        typ,
		Query:       query,
		Tokens:      tokens,
		Documents:   documents,
		Matches:     matches,
		Returned:    returned,
		LatencyMs:   float64(latency.Microseconds()) / 1000,
		CacheStatus: cacheStatus,
		Timestamp:   time.Now().UTC(),
	}
}

// IndexEvent describes one corpus (re)build.
type IndexEvent struct {
	Type        EventType `json:"type"`
	Documents   int       `json:"documents"`
	Fingerprint string    `json:"fingerprint"`
	LatencyMs   float64   `json:"latency_ms"`
	Timestamp   time.Time `json:"timestamp"`
}
