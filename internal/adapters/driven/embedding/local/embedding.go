// Package local provides a deterministic offline embedding service.
//
// It hashes token n-grams into a fixed-size vector, so equal texts
// always produce equal embeddings and lexically similar texts land
// near each other. Useful for development and tests where no Ollama or
// OpenAI endpoint is available; not a substitute for a real model.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 384
	modelName         = "local-hash"
)

// EmbeddingService generates deterministic hash-based embeddings.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a local embedding service. A
// non-positive dimensions value uses DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	tokens := tokenise(text)
	for i, token := range tokens {
		addFeature(vec, token, 1.0)
		// Bigrams give neighbouring word order some weight.
		if i+1 < len(tokens) {
			addFeature(vec, token+" "+tokens[i+1], 0.5)
		}
	}

	normalise(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return modelName
}

// Ping always succeeds; there is no remote dependency.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// tokenise lowercases and splits text on non-alphanumeric runes.
func tokenise(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		return !isLower && !isDigit
	})
}

// addFeature hashes a feature into the vector with the given weight,
// using a second hash bit to pick the sign so features cancel rather
// than only accumulate.
func addFeature(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(len(vec)))
	if (sum>>63)&1 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// normalise scales the vector to unit length. A zero vector is left
// unchanged.
func normalise(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	magnitude := float32(math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] /= magnitude
	}
}
