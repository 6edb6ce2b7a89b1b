// Package sqlite opens an SQLite database through the pure-Go glebarez driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
)

// Client holds the database handle.
type Client struct {
	DB   *sql.DB
	path string
}

// Open opens the database file at cfg.Path. The path ":memory:" gives a
// private in-memory database.
func Open(ctx context.Context, cfg config.SQLiteConfig) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", cfg.Path, err)
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", cfg.Path, err)
	}
	return &Client{DB: db, path: cfg.Path}, nil
}

// Path returns the database file path.
func (c *Client) Path() string {
	return c.path
}

// Close closes the database.
func (c *Client) Close() error {
	return c.DB.Close()
}
