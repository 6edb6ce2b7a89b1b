package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
)

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	c, err := Open(context.Background(), config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.DB.Exec(`CREATE TABLE documents (id INTEGER PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)
	_, err = c.DB.Exec(`INSERT INTO documents (body) VALUES (?)`, "The Brown Bear")
	require.NoError(t, err)

	var body string
	require.NoError(t, c.DB.QueryRow(`SELECT body FROM documents`).Scan(&body))
	assert.Equal(t, "The Brown Bear", body)
	assert.Equal(t, path, c.Path())
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), config.SQLiteConfig{})
	assert.Error(t, err)
}
