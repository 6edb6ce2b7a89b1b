package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	apperrors "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/errors"
)

func TestNilDocument(t *testing.T) {
	d, err := NewNullable(nil, analyzer.Default())
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalid(err))
	assert.Nil(t, d)
}

func TestNilAnalyzer(t *testing.T) {
	_, err := New("text", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalid(err))
}

func TestDocumentTerms(t *testing.T) {
	a := analyzer.NewPipeline()
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{""}},
		{"foo", []string{"foo"}},
		{
			"There should be one-- and preferably only one --obvious way to do it.",
			[]string{
				"there", "should", "be", "one--", "and", "preferably",
				"only", "one", "--obvious", "way", "to", "do", "it",
			},
		},
	}
	for _, tc := range tests {
		d, err := New(tc.text, a)
		require.NoError(t, err)
		assert.Equal(t, tc.want, d.Tokens().Terms(), "text %q", tc.text)
		assert.Equal(t, tc.text, d.Original())
	}
}

func TestDocumentFrequencies(t *testing.T) {
	text := "Brown Bear, Brown Bear, What Do You See?"
	d, err := New(text, analyzer.Default())
	require.NoError(t, err)

	tokens := d.Tokens()
	assert.Equal(t, 2, tokens.Count("bear"))
	assert.Equal(t, 2, tokens.Count("brown"))
	assert.Equal(t, 0, tokens.Count("goldilocks"))
	assert.True(t, tokens.Has("see"))
	assert.Equal(t, 8, d.Len())
	assert.Equal(t, 6, tokens.Distinct())
}

func TestDocumentEmptyText(t *testing.T) {
	text := ""
	d, err := NewNullable(&text, analyzer.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 1, d.Tokens().Count(""))
}

func TestDocumentIsFrozen(t *testing.T) {
	d, err := New("one two two", analyzer.NewPipeline())
	require.NoError(t, err)

	m := d.Tokens().Map()
	m["two"] = 100
	terms := d.Tokens().Terms()
	terms[0] = "changed"

	assert.Equal(t, 2, d.Tokens().Count("two"))
	assert.Equal(t, []string{"one", "two"}, d.Tokens().Terms())
}

func TestDocumentString(t *testing.T) {
	d, err := New("Fuzzy Wuzzy", analyzer.NewPipeline())
	require.NoError(t, err)
	assert.Equal(t, `"Fuzzy Wuzzy"`, d.String())
}
