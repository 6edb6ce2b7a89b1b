package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", New(ErrInternal, http.StatusTeapot, "brew"), http.StatusTeapot},
		{"invalid helper", Invalid("query is required"), http.StatusBadRequest},
		{"wrapped invalid", fmt.Errorf("indexing: %w", ErrInvalidInput), http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"unavailable", fmt.Errorf("redis: %w", ErrUnavailable), http.StatusServiceUnavailable},
		{"timeout", ErrTimeout, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("search: %w", Invalid("document %d has no text", 3))
	assert.True(t, IsInvalid(err))
	assert.EqualError(t, err, "search: invalid input: document 3 has no text")
}
