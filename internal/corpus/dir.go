package corpus

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// DirLoader walks Root and loads every .txt, .md, .html/.htm and .pdf file
// as one document. Files are returned in lexical path order.
type DirLoader struct {
	Root string
}

func (d DirLoader) Load(ctx context.Context) ([]string, error) {
	logger := slog.Default().With("component", "corpus-dir", "root", d.Root)
	var paths []string
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() && extractorFor(path) != nil {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", d.Root, err)
	}
	sort.Strings(paths)

	docs := make([]string, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := extractorFor(path)(path)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", path, err)
		}
		docs = append(docs, text)
	}
	logger.Debug("directory loaded", "files", len(docs))
	return docs, nil
}

type extractor func(path string) (string, error)

func extractorFor(path string) extractor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return readText
	case ".html", ".htm", ".xhtml":
		return readHTML
	case ".pdf":
		return readPDF
	}
	return nil
}

func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return HTMLText(f)
}

// HTMLText returns the visible text of an HTML document, skipping script and
// style elements. Text nodes are joined with single spaces.
func HTMLText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " "), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
