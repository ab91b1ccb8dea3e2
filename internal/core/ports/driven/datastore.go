package driven

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// DatasetStore persists dataset records and their lifecycle status.
type DatasetStore interface {
	// Save stores a new dataset.
	Save(ctx context.Context, dataset domain.Dataset) error

	// Get retrieves a dataset by ID.
	Get(ctx context.Context, id string) (*domain.Dataset, error)

	// List returns all datasets.
	List(ctx context.Context) ([]domain.Dataset, error)

	// ListByStatus returns datasets in the given lifecycle state.
	ListByStatus(ctx context.Context, status domain.DatasetStatus) ([]domain.Dataset, error)

	// UpdateStatus transitions a dataset's status. Implementations must
	// enforce domain.DatasetStatus.CanTransition and apply the change
	// atomically: no reader observes ready before every chunk is stored.
	UpdateStatus(ctx context.Context, id string, status domain.DatasetStatus) error

	// Delete removes a dataset record.
	Delete(ctx context.Context, id string) error
}

// ChunkStore persists chunks and their embeddings.
type ChunkStore interface {
	// SaveChunks stores chunks for a dataset.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a dataset, ordered by position.
	GetChunks(ctx context.Context, datasetID string) ([]domain.Chunk, error)

	// DeleteByDataset removes all chunks belonging to a dataset and
	// returns the IDs removed, so callers can purge the vector index.
	DeleteByDataset(ctx context.Context, datasetID string) ([]string, error)
}

// ConversationStore persists conversations and their messages.
type ConversationStore interface {
	// SaveConversation stores a new conversation.
	SaveConversation(ctx context.Context, conv domain.Conversation) error

	// GetConversation retrieves a conversation by ID.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// ListConversations returns all conversations, newest first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// AppendMessage appends a message to a conversation, assigning its
	// sequence number, and returns the stored message.
	AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error)

	// GetMessages returns a conversation's messages in creation order
	// (sequence as tie-break).
	GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error)

	// DeleteConversation removes a conversation and its messages.
	DeleteConversation(ctx context.Context, id string) error
}
