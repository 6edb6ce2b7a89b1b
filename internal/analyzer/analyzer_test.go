package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
)

func TestDefaultAnalyzer(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{""}},
		{"hello!", []string{"hello"}},
		{"Audacious, original and haunting", []string{"audaci", "origin", "and", "haunt"}},
		{"Bears BEAR bear's", []string{"bear", "bear", "bear"}},
	}
	a := Default()
	for _, tc := range tests {
		assert.Equal(t, tc.want, a.Analyze(tc.text), "text %q", tc.text)
	}
}

func TestPipelineWithoutStemming(t *testing.T) {
	a := NewPipeline()
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{""}},
		{"hello!", []string{"hello"}},
		{" leading and trailing ", []string{"", "leading", "and", "trailing", ""}},
		{"tabs\tand\nnewlines", []string{"tabs", "and", "newlines"}},
		{"one-- --obvious", []string{"one--", "--obvious"}},
		{"We're #1 !!!", []string{"were", "1", ""}},
		{"Café AU lait", []string{"café", "au", "lait"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, a.Analyze(tc.text), "text %q", tc.text)
	}
}

func TestStopWordsAreCaseInsensitive(t *testing.T) {
	a := NewPipeline(WithStopWords(NewStopWords("and", "to", "be", "or", "not")))
	assert.Equal(t, []string{}, a.Analyze("To be or not to be"))
	assert.Equal(t, []string{"the", "question"}, a.Analyze("TO BE, the question"))
}

func TestStopWordsCompareBeforeStemming(t *testing.T) {
	a := NewPipeline(
		WithStopWords(NewStopWords("bear")),
		WithStemmer("english", EnglishStemmer),
	)
	assert.Equal(t, []string{"bear"}, a.Analyze("bear Bears"))
}

func TestStopWordsSet(t *testing.T) {
	sw := NewStopWords(" The ", "AND", "")
	assert.Equal(t, 2, sw.Len())
	assert.True(t, sw.Contains("the"))
	assert.True(t, sw.Contains("And"))
	assert.False(t, sw.Contains("then"))
	assert.Equal(t, []string{"and", "the"}, sw.Words())

	var empty StopWords
	assert.False(t, empty.Contains("the"))
	assert.Equal(t, 3, sw.Union(NewStopWords("or")).Len())
	assert.True(t, EnglishStopWords().Contains("the"))
}

func TestFoldNormalizer(t *testing.T) {
	a := NewPipeline(WithNormalizer(FoldNormalizer))
	assert.Equal(t, []string{"fine", "abc"}, a.Analyze("ﬁne ＡＢＣ"))
}

func TestSnowballStemmer(t *testing.T) {
	stem, err := SnowballStemmer("english")
	require.NoError(t, err)
	assert.Equal(t, "tomato", stem("tomatoes"))

	stem, err = SnowballStemmer("none")
	require.NoError(t, err)
	assert.Equal(t, "tomatoes", stem("tomatoes"))

	stem, err = SnowballStemmer("spanish")
	require.NoError(t, err)
	assert.Equal(t, "", stem(""))
	assert.NotEmpty(t, stem("corriendo"))

	_, err = SnowballStemmer("klingon")
	assert.Error(t, err)
}

func TestAnalyzeIsPure(t *testing.T) {
	a := Default()
	text := "Sleep, sleep, little one, sleep"
	first := a.Analyze(text)
	second := a.Analyze(text)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"sleep", "sleep", "littl", "one", "sleep"}, first)
}

func TestFromConfig(t *testing.T) {
	a, err := FromConfig(config.AnalyzerConfig{
		StopWords:      "english",
		ExtraStopWords: []string{"Fuzzy"},
		Stemmer:        "english",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wuzzi", "bear"}, a.Analyze("Fuzzy Wuzzy and the bears"))
	assert.True(t, strings.Contains(a.String(), "stemmer=english"))
	assert.Equal(t, "english", a.Describe()["stemmer"])

	a, err = FromConfig(config.AnalyzerConfig{Stemmer: "none", FoldUnicode: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"bears"}, a.Analyze("ＢＥＡＲＳ"))

	_, err = FromConfig(config.AnalyzerConfig{StopWords: "latin"})
	assert.Error(t, err)
	_, err = FromConfig(config.AnalyzerConfig{Stemmer: "klingon"})
	assert.Error(t, err)
}

func BenchmarkAnalyze(b *testing.B) {
	text := strings.Repeat("Information retrieval systems combine tokenization, stemming, and stop word removal. ", 20)
	a := Default()
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = a.Analyze(text)
	}
}
