// Package memory provides an in-memory vector index using a brute-force
// cosine similarity scan. A linear scan is adequate for the interactive
// corpus sizes this system targets; the driven.VectorIndex contract
// leaves room for an approximate-nearest-neighbour replacement.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	chunkID string
	vector  []float32
	seq     int
}

// Index stores chunk vectors and ranks them by cosine similarity.
// Insertion order is carried as an explicit sequence used only to break
// ranking ties deterministically.
type Index struct {
	mu      sync.RWMutex
	dims    int
	entries []entry
	byID    map[string]int
	nextSeq int
}

// NewIndex creates an index with a fixed dimensionality. A dimensions
// value of 0 adopts the dimensionality of the first vector added.
func NewIndex(dimensions int) *Index {
	return &Index{
		dims: dimensions,
		byID: make(map[string]int),
	}
}

// Add inserts a vector for the given chunk ID. Re-adding the same chunk
// ID replaces the stored vector without changing its insertion sequence.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return domain.ErrInvalidInput
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims == 0 {
		idx.dims = len(embedding)
	}
	if len(embedding) != idx.dims {
		return fmt.Errorf("vector for %s has %d dimensions, index wants %d: %w",
			chunkID, len(embedding), idx.dims, domain.ErrDimensionMismatch)
	}

	if pos, ok := idx.byID[chunkID]; ok {
		idx.entries[pos].vector = embedding
		return nil
	}

	idx.entries = append(idx.entries, entry{chunkID: chunkID, vector: embedding, seq: idx.nextSeq})
	idx.byID[chunkID] = len(idx.entries) - 1
	idx.nextSeq++
	return nil
}

// Delete removes a vector from the index.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.byID[chunkID]
	if !ok {
		return nil
	}

	idx.entries = append(idx.entries[:pos], idx.entries[pos+1:]...)
	delete(idx.byID, chunkID)
	for i := pos; i < len(idx.entries); i++ {
		idx.byID[idx.entries[i].chunkID] = i
	}
	return nil
}

// Search returns the k most similar vectors to the query, ordered by
// non-increasing cosine similarity. Equal scores keep insertion order.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		hit driven.VectorHit
		seq int
	}
	results := make([]scored, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, scored{
			hit: driven.VectorHit{
				ChunkID:    e.chunkID,
				Similarity: cosineSimilarity(query, e.vector),
			},
			seq: e.seq,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].hit.Similarity == results[j].hit.Similarity {
			return results[i].seq < results[j].seq
		}
		return results[i].hit.Similarity > results[j].hit.Similarity
	})

	if k > len(results) {
		k = len(results)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = results[i].hit
	}
	return hits, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// cosineSimilarity is the normalised dot product of two vectors. Either
// vector having zero magnitude yields 0, never NaN, so ranking stays
// well defined.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
