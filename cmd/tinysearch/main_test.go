package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "farm.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"I went to visit a farm one day",
		"Old McDonald had a farm",
		"One tomato, two tomatoes",
		"One, two, buckle my shoe",
		"Sleep, sleep, little one, sleep",
	}, "\n")), 0o644))
	return path
}

func TestRunPrintsRankedMatches(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-corpus", writeCorpus(t), "-query", "one", "-limit", "2"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "1"))
	assert.Contains(t, lines[0], "One tomato, two tomatoes")
	assert.Contains(t, lines[2], "4 of 5 documents matched \"one\"")
	assert.Contains(t, lines[2], "showing 2")
}

func TestRunNoMatches(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-corpus", writeCorpus(t), "-query", "bear"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "0 of 5 documents matched")
}

func TestRunStopWords(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-corpus", writeCorpus(t), "-query", "to a", "-stopwords", "english"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "tokens []")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing query", []string{"-corpus", "x"}, 2},
		{"bad flag", []string{"-nope"}, 2},
		{"missing corpus", []string{"-corpus", filepath.Join(t.TempDir(), "none.txt"), "-query", "a"}, 1},
		{"bad source", []string{"-source", "ftp", "-query", "a"}, 1},
		{"bad stemmer", []string{"-corpus", writeCorpus(t), "-stemmer", "klingon", "-query", "a"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(context.Background(), tt.args, &stdout, &stderr))
			assert.NotEmpty(t, stderr.String())
		})
	}
}
