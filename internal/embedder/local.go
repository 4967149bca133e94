package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// defaultLocalDimensions is the vector length of the local embedder. Small
// enough to keep brute-force search cheap, large enough that unrelated texts
// rarely collide into similar vectors.
const defaultLocalDimensions = 256

// LocalEmbedder is a deterministic, dependency-free rag.Embedder that hashes
// word features into a fixed-length bag-of-words vector. It exists so the
// whole pipeline runs offline when no embedding backend is configured; the
// resulting similarity is lexical rather than semantic, which is adequate for
// the degraded mode and for tests. Safe for concurrent use (stateless).
type LocalEmbedder struct {
	// dimensions is the output vector length.
	dimensions int
}

// NewLocalEmbedder constructs a LocalEmbedder. A non-positive dimensions
// falls back to defaultLocalDimensions.
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = defaultLocalDimensions
	}
	return &LocalEmbedder{dimensions: dimensions}
}

// Dimensions returns the output vector length.
func (e *LocalEmbedder) Dimensions() int { return e.dimensions }

// Embed hashes each text's words into a term-frequency vector and
// L2-normalizes it, so dot products of outputs are cosine similarities.
// The same input always produces the same output.
func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

// embedOne builds the normalized feature-hash vector for one text.
func (e *LocalEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimensions)

	for _, word := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%uint32(e.dimensions)]++ //nolint:gosec // dimensions is a small positive constant
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

// tokenize lowercases the text and splits it on any non-letter, non-digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
