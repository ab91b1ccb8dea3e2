package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexingService = (*Indexer)(nil)

// Indexer drives a dataset from extracted chunks to a queryable state:
// one batched embedding call, chunk persistence, vector index insertion,
// then the status flip that is the only externally observable completion
// signal.
type Indexer struct {
	datasetStore driven.DatasetStore
	chunkStore   driven.ChunkStore
	vectorIndex  driven.VectorIndex
	embedding    driven.EmbeddingService
}

// NewIndexer creates the indexing pipeline.
func NewIndexer(
	datasetStore driven.DatasetStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
	embedding driven.EmbeddingService,
) *Indexer {
	return &Indexer{
		datasetStore: datasetStore,
		chunkStore:   chunkStore,
		vectorIndex:  vectorIndex,
		embedding:    embedding,
	}
}

// Index embeds and stores all chunks for the dataset, then marks it
// ready. On any failure the dataset is marked error and the failure
// propagates to the caller. Indexing one dataset never affects others.
func (s *Indexer) Index(ctx context.Context, datasetID string, chunks []driving.TextChunk) error {
	logger.Section("Dataset Indexing")
	logger.Debug("Dataset %s: %d chunks", datasetID, len(chunks))

	ds, err := s.datasetStore.Get(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("get dataset %s: %w", datasetID, err)
	}

	if err := s.index(ctx, ds, chunks); err != nil {
		s.markError(ctx, datasetID)
		return err
	}

	if err := s.datasetStore.UpdateStatus(ctx, datasetID, domain.StatusReady); err != nil {
		return fmt.Errorf("mark dataset %s ready: %w", datasetID, err)
	}
	logger.Info("Dataset %s ready", ds.Name)
	return nil
}

func (s *Indexer) index(ctx context.Context, ds *domain.Dataset, chunks []driving.TextChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if s.embedding == nil {
		return domain.ErrEmbeddingUnavailable
	}

	// One batched call per dataset bounds outstanding network calls.
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("provider returned %d vectors for %d chunks: %w",
			len(vectors), len(chunks), domain.ErrMalformedEmbedding)
	}

	dims := s.embedding.Dimensions()
	stored := make([]domain.Chunk, len(chunks))
	now := time.Now().UTC()
	for i, chunk := range chunks {
		if len(vectors[i]) != dims {
			return fmt.Errorf("vector %d has %d dimensions, want %d: %w",
				i, len(vectors[i]), dims, domain.ErrMalformedEmbedding)
		}

		meta := chunk.Metadata
		if meta.SourceName == "" {
			meta.SourceName = ds.Name
		}

		stored[i] = domain.Chunk{
			ID:        uuid.New().String(),
			DatasetID: ds.ID,
			Content:   chunk.Content,
			Position:  i,
			Embedding: vectors[i],
			Metadata:  meta,
			CreatedAt: now,
		}
	}

	if err := s.chunkStore.SaveChunks(ctx, stored); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}

	if s.vectorIndex != nil {
		for i := range stored {
			if err := s.vectorIndex.Add(ctx, stored[i].ID, stored[i].Embedding); err != nil {
				return fmt.Errorf("index chunk %s: %w", stored[i].ID, err)
			}
		}
	}

	return nil
}

// markError is best-effort: the original failure is what propagates.
func (s *Indexer) markError(ctx context.Context, datasetID string) {
	if err := s.datasetStore.UpdateStatus(ctx, datasetID, domain.StatusError); err != nil {
		logger.Warn("Marking dataset %s as error failed: %v", datasetID, err)
	}
}
