// Package searcher holds the HTTP search service: the JSON response shape
// shared by the result cache and the handlers.
package searcher

import (
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/search"
)

// Match is one ranked document in a Response.
type Match struct {
	Rank  int     `json:"rank"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Response is the body returned for a search. Count is the total number of
// matching documents, which may exceed len(Matches) when a limit applies.
type Response struct {
	Query   string   `json:"query"`
	Tokens  []string `json:"tokens"`
	Count   int      `json:"count"`
	Matches []Match  `json:"matches"`
}

// NewResponse renders the top limit matches of s. A limit of zero or less
// keeps every match.
func NewResponse(s *search.Search, limit int) *Response {
	results := s.Results()
	top := results.Top(limit)
	resp := &Response{
		Query:   s.Query(),
		Tokens:  s.QueryTokens(),
		Count:   results.Count(),
		Matches: make([]Match, len(top)),
	}
	if resp.Tokens == nil {
		resp.Tokens = []string{}
	}
	for i, r := range top {
		resp.Matches[i] = Match{Rank: i + 1, Text: r.Doc.Original(), Score: r.Score}
	}
	return resp
}
