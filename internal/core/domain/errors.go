package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type with no extractor. This is
	// fatal before any chunk is produced.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrInvalidTransition indicates a dataset status change that the
	// lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Similarity retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrMalformedEmbedding indicates the embedding provider returned
	// output that violates the dimensionality contract. Not retryable;
	// escalate to the caller.
	ErrMalformedEmbedding = errors.New("malformed embedding output")

	// ErrLLMUnavailable indicates the language model service is not
	// configured or unreachable. Query answering degrades to an
	// explanatory fallback answer.
	ErrLLMUnavailable = errors.New("language model unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the index's fixed dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
