package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Search engines score documents by how often a query term appears in
        them and how rare that term is across the whole corpus. A term found in
        every document carries no weight, while one found in a single document
        singles it out. Stemming folds inflected words onto a shared root.`,
	"long": strings.Repeat(`Information retrieval combines tokenization, normalization,
        stop-word removal and stemming to turn free text into comparable terms.
        Term frequency rewards documents that repeat a term, inverse document
        frequency rewards terms that few documents share. `, 20),
}

func BenchmarkAnalyze(b *testing.B) {
	analyzers := map[string]analyzer.Analyzer{
		"raw":     analyzer.NewPipeline(),
		"stemmed": analyzer.Default(),
		"english": analyzer.NewPipeline(
			analyzer.WithStopWords(analyzer.EnglishStopWords()),
			analyzer.WithStemmer("english", analyzer.EnglishStemmer),
		),
	}
	for aname, a := range analyzers {
		for tname, text := range sampleTexts {
			b.Run(aname+"/"+tname, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(text)))
				for i := 0; i < b.N; i++ {
					_ = a.Analyze(text)
				}
			})
		}
	}
}

func BenchmarkAnalyzeParallel(b *testing.B) {
	a := analyzer.Default()
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = a.Analyze(text)
		}
	})
}

func BenchmarkStemming(b *testing.B) {
	words := []string{
		"running", "searching", "indexing", "tokenization", "normalization",
		"efficiently", "processing", "audacious", "haunting", "tomatoes",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			_ = analyzer.EnglishStemmer(w)
		}
	}
}

func BenchmarkAnalyzeVaryingSize(b *testing.B) {
	a := analyzer.Default()
	base := "term frequency inverse document frequency "
	for _, size := range []int{10, 100, 500, 1000, 5000} {
		text := strings.Repeat(base, size/len(base)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = a.Analyze(text)
			}
		})
	}
}
