// Package ingestion turns external content sources into travel documents
// ready for indexing. It fetches URLs and reads text files, splits long
// content into overlapping chunks, and tags each chunk with its provenance.
// The resulting documents are handed to the pipeline's fail-loud ingestion
// path; this package never touches the vector store directly.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/voyago/voyago-go/internal/rag"
)

// Config holds the configuration for the document loader.
type Config struct {
	// ChunkSize is the maximum number of bytes per document chunk.
	// Defaults to 1000 if zero.
	ChunkSize int

	// ChunkOverlap is the number of bytes to overlap between consecutive
	// chunks. Defaults to 100 if zero or out of range.
	ChunkOverlap int

	// HTTPTimeout is the timeout for each URL fetch. Defaults to 30s if zero.
	HTTPTimeout time.Duration

	// UserAgent is the HTTP User-Agent header sent with fetch requests.
	UserAgent string
}

// Loader produces rag.Document batches from URLs, files, and directories.
type Loader struct {
	// cfg holds the resolved loader configuration.
	cfg *Config

	// httpClient is the HTTP client used for URL fetches.
	httpClient *http.Client
}

// NewLoader constructs a Loader from the provided config.
func NewLoader(cfg *Config) *Loader {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 100
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 10
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "voyago-go/1.0 (travel document ingestion)"
	}

	return &Loader{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// FromURL fetches a page and returns its content as chunked documents tagged
// with the given destination and category. Empty tags receive the index
// defaults at ingestion time.
func (l *Loader) FromURL(ctx context.Context, url, destination, category string) ([]rag.Document, error) {
	content, err := l.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ingestion: fetch failed for %s: %w", url, err)
	}
	docs := l.documents(content, url, titleFromSource(url), destination, category)
	if len(docs) == 0 {
		return nil, fmt.Errorf("ingestion: %s contained no usable content", url)
	}
	return docs, nil
}

// FromFile reads a text file and returns its content as chunked documents.
func (l *Loader) FromFile(path, destination, category string) ([]rag.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingestion: read %s: %w", path, err)
	}
	docs := l.documents(string(raw), filepath.Base(path), titleFromSource(path), destination, category)
	if len(docs) == 0 {
		return nil, fmt.Errorf("ingestion: %s contained no usable content", path)
	}
	return docs, nil
}

// FromDirectory loads every .txt and .md file under dir, recursively.
// Unreadable or empty files are skipped.
func (l *Loader) FromDirectory(dir, destination, category string) ([]rag.Document, error) {
	var docs []rag.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".txt" && ext != ".md" {
			return nil
		}
		fileDocs, err := l.FromFile(path, destination, category)
		if err != nil {
			return nil // skip unreadable or empty files
		}
		docs = append(docs, fileDocs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ingestion: walk %s: %w", dir, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("ingestion: no .txt or .md files found under %s", dir)
	}
	return docs, nil
}

// documents chunks content and wraps each chunk as a tagged document.
func (l *Loader) documents(content, source, title, destination, category string) []rag.Document {
	chunks := l.chunk(content)
	docs := make([]rag.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, rag.Document{
			Content:     chunk,
			Source:      source,
			Title:       title,
			Destination: destination,
			Category:    category,
		})
	}
	return docs
}

// fetch retrieves the raw text content of a URL.
func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)
	req.Header.Set("Accept", "text/plain, text/html")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}

// chunk splits text into overlapping chunks of up to cfg.ChunkSize bytes.
// Chunk boundaries are backed off to rune starts so a multi-byte character is
// never split; every chunk is valid UTF-8 and stored verbatim.
func (l *Loader) chunk(text string) []string {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil
	}

	var chunks []string
	size := l.cfg.ChunkSize
	overlap := l.cfg.ChunkOverlap

	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			end = runeStart(text, end)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}

		next := end - overlap
		if next > start {
			next = runeStart(text, next)
		}
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// runeStart walks i back to the nearest rune start at or before it.
func runeStart(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// titleFromSource derives a readable title from a file path or URL: the base
// name without extension, underscores and hyphens replaced with spaces.
func titleFromSource(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}
