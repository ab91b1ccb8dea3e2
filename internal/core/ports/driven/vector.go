package driven

import "context"

// VectorIndex provides cosine similarity search over chunk vectors.
//
// The in-memory implementation is a linear scan, which is acceptable for
// the interactive corpus sizes this system targets. The contract is
// deliberately narrow so an approximate-nearest-neighbour index could
// satisfy it transparently later.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID. Idempotent per chunk
	// ID: re-adding replaces the stored vector without changing the
	// chunk's insertion sequence.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search finds the k most similar vectors to the query, ordered by
	// non-increasing cosine similarity with ties broken by insertion
	// sequence. Zero-magnitude vectors score 0, never NaN.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
