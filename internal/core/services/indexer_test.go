package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest-labs/agrolens-cli/internal/adapters/driven/storage/memory"
	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
)

func newTestIndexer(t *testing.T) (*Indexer, *memory.DatasetStore, *memory.ChunkStore, *mockVectorIndex, *mockEmbeddingService) {
	t.Helper()

	datasetStore := memory.NewDatasetStore()
	chunkStore := memory.NewChunkStore()
	vectorIndex := &mockVectorIndex{}
	embedding := &mockEmbeddingService{embedding: []float32{1, 0, 0}}

	return NewIndexer(datasetStore, chunkStore, vectorIndex, embedding),
		datasetStore, chunkStore, vectorIndex, embedding
}

func seedDataset(t *testing.T, store *memory.DatasetStore, id string) domain.Dataset {
	t.Helper()
	ds := domain.Dataset{
		ID:             id,
		Name:           "crop_production",
		FileType:       domain.FileTypeCSV,
		SourceLocation: "/data/crop_production.csv",
		Status:         domain.StatusProcessing,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.Save(context.Background(), ds))
	return ds
}

func textChunks(contents ...string) []driving.TextChunk {
	chunks := make([]driving.TextChunk, len(contents))
	for i, content := range contents {
		chunks[i] = driving.TextChunk{
			Content:  content,
			Metadata: domain.ChunkMetadata{Kind: domain.ChunkKindText},
		}
	}
	return chunks
}

func TestIndexer_Index(t *testing.T) {
	indexer, datasetStore, chunkStore, vectorIndex, embedding := newTestIndexer(t)
	ds := seedDataset(t, datasetStore, "ds-1")

	err := indexer.Index(context.Background(), ds.ID, textChunks("first", "second", "third"))
	require.NoError(t, err)

	// Status flipped to ready.
	got, err := datasetStore.Get(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)

	// All chunks persisted with embeddings, in order.
	chunks, err := chunkStore.GetChunks(context.Background(), ds.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
		assert.True(t, chunk.HasEmbedding())
		assert.Equal(t, ds.Name, chunk.Metadata.SourceName)
		assert.NotEmpty(t, chunk.ID)
	}
	assert.Equal(t, "first", chunks[0].Content)

	// Each chunk entered the vector index.
	assert.Len(t, vectorIndex.added, 3)

	// Exactly one batched embedding call.
	assert.Equal(t, 1, embedding.batchCalls)
}

func TestIndexer_Index_EmptyChunks(t *testing.T) {
	indexer, datasetStore, _, _, embedding := newTestIndexer(t)
	ds := seedDataset(t, datasetStore, "ds-1")

	err := indexer.Index(context.Background(), ds.ID, nil)
	require.NoError(t, err)

	got, err := datasetStore.Get(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)
	assert.Zero(t, embedding.batchCalls)
}

func TestIndexer_Index_UnknownDataset(t *testing.T) {
	indexer, _, _, _, _ := newTestIndexer(t)

	err := indexer.Index(context.Background(), "missing", textChunks("chunk"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexer_Index_EmbeddingFailureMarksError(t *testing.T) {
	indexer, datasetStore, chunkStore, _, embedding := newTestIndexer(t)
	ds := seedDataset(t, datasetStore, "ds-1")
	embedding.batchErr = errors.New("connection refused")

	err := indexer.Index(context.Background(), ds.ID, textChunks("chunk"))
	require.Error(t, err)

	got, err := datasetStore.Get(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)

	chunks, err := chunkStore.GetChunks(context.Background(), ds.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIndexer_Index_VectorCountMismatch(t *testing.T) {
	indexer, datasetStore, _, _, embedding := newTestIndexer(t)
	ds := seedDataset(t, datasetStore, "ds-1")
	embedding.batchVectors = [][]float32{{1, 0, 0}} // one vector for two chunks

	err := indexer.Index(context.Background(), ds.ID, textChunks("first", "second"))

	assert.ErrorIs(t, err, domain.ErrMalformedEmbedding)

	got, getErr := datasetStore.Get(context.Background(), ds.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusError, got.Status)
}

func TestIndexer_Index_DimensionMismatch(t *testing.T) {
	indexer, datasetStore, _, _, embedding := newTestIndexer(t)
	ds := seedDataset(t, datasetStore, "ds-1")
	embedding.dims = 3
	embedding.batchVectors = [][]float32{{1, 0}} // wrong width

	err := indexer.Index(context.Background(), ds.ID, textChunks("chunk"))

	assert.ErrorIs(t, err, domain.ErrMalformedEmbedding)
}

func TestIndexer_Index_CallerMetadataPreserved(t *testing.T) {
	indexer, datasetStore, chunkStore, _, _ := newTestIndexer(t)
	ds := seedDataset(t, datasetStore, "ds-1")

	chunks := []driving.TextChunk{{
		Content: "Crop: Rice, State: Punjab",
		Metadata: domain.ChunkMetadata{
			Kind:       domain.ChunkKindRow,
			SourceName: "custom_name",
			Row:        &domain.RowMetadata{RowIndex: 7},
		},
	}}

	require.NoError(t, indexer.Index(context.Background(), ds.ID, chunks))

	stored, err := chunkStore.GetChunks(context.Background(), ds.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.ChunkKindRow, stored[0].Metadata.Kind)
	assert.Equal(t, "custom_name", stored[0].Metadata.SourceName)
	require.NotNil(t, stored[0].Metadata.Row)
	assert.Equal(t, 7, stored[0].Metadata.Row.RowIndex)
}

func TestIndexer_Index_FailureIsolatedPerDataset(t *testing.T) {
	indexer, datasetStore, _, _, embedding := newTestIndexer(t)
	healthy := seedDataset(t, datasetStore, "ds-healthy")
	broken := seedDataset(t, datasetStore, "ds-broken")

	embedding.batchErr = errors.New("connection refused")
	require.Error(t, indexer.Index(context.Background(), broken.ID, textChunks("chunk")))

	embedding.batchErr = nil
	require.NoError(t, indexer.Index(context.Background(), healthy.ID, textChunks("chunk")))

	gotBroken, err := datasetStore.Get(context.Background(), broken.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, gotBroken.Status)

	gotHealthy, err := datasetStore.Get(context.Background(), healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, gotHealthy.Status)
}
