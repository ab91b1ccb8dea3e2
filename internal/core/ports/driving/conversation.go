package driving

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// ConversationService manages question/answer history.
type ConversationService interface {
	// Start creates a new conversation.
	Start(ctx context.Context, title string) (*domain.Conversation, error)

	// Append records a message at the end of a conversation.
	Append(ctx context.Context, conversationID string, role domain.MessageRole, content string, meta domain.MessageMeta) (*domain.Message, error)

	// History returns a conversation's messages in creation order.
	History(ctx context.Context, conversationID string) ([]domain.Message, error)

	// List returns all conversations, newest first.
	List(ctx context.Context) ([]domain.Conversation, error)
}
