package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/resilience"
)

// SQLLoader runs a single-column query and returns each row as a document.
// Row order is the query's order, so queries should carry an ORDER BY.
type SQLLoader struct {
	db    *sql.DB
	query string
	retry resilience.RetryConfig
}

// NewSQLLoader creates a loader for query against db.
func NewSQLLoader(db *sql.DB, query string) *SQLLoader {
	return &SQLLoader{
		db:    db,
		query: query,
		retry: resilience.RetryConfig{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond},
	}
}

// Load runs the query. A NULL value in any row is rejected as invalid input,
// since every document must be text.
func (l *SQLLoader) Load(ctx context.Context) ([]string, error) {
	var docs []string
	err := resilience.Retry(ctx, "corpus-sql", l.retry, func(ctx context.Context) error {
		var err error
		docs, err = l.load(ctx)
		if apperrors.IsInvalid(err) {
			return resilience.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (l *SQLLoader) load(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, l.query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var body sql.NullString
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		if !body.Valid {
			return nil, apperrors.Invalid("document %d needs to be text", len(docs))
		}
		docs = append(docs, body.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}
	return docs, nil
}
