package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The core treats this as a fallible remote call: transient network
// failures are retryable by the caller, while output that violates the
// dimensionality contract maps to domain.ErrMalformedEmbedding and is
// escalated.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - The local deterministic fallback for offline development and tests
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// Indexing batches all chunks of a dataset through this method to
	// bound outstanding network calls.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	// This is determined by the model and must match the vector index
	// configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
