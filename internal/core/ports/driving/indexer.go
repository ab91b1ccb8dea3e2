package driving

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// TextChunk is an extracted unit handed to the indexing pipeline before
// embedding.
type TextChunk struct {
	// Content is the chunk text.
	Content string

	// Metadata carries the typed chunk metadata.
	Metadata domain.ChunkMetadata
}

// IndexingService drives a dataset from extracted chunks to a queryable
// state.
type IndexingService interface {
	// Index batch-embeds the chunks, stores them with their vectors, and
	// flips the dataset status to ready on success or error on failure.
	// The status flip is the only externally observable completion
	// signal. Failures propagate to the caller.
	Index(ctx context.Context, datasetID string, chunks []TextChunk) error
}
