package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// ConversationService manages question/answer history.
type ConversationService struct {
	store driven.ConversationStore
}

// NewConversationService creates a conversation service.
func NewConversationService(store driven.ConversationStore) *ConversationService {
	return &ConversationService{store: store}
}

// Start creates a new conversation.
func (s *ConversationService) Start(ctx context.Context, title string) (*domain.Conversation, error) {
	conv := domain.Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	return &conv, nil
}

// Append records a message at the end of a conversation. The store
// assigns the sequence number.
func (s *ConversationService) Append(
	ctx context.Context, conversationID string, role domain.MessageRole, content string, meta domain.MessageMeta,
) (*domain.Message, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrInvalidInput)
	}
	if content == "" {
		return nil, domain.ErrInvalidInput
	}

	msg := domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Meta:           meta,
		CreatedAt:      time.Now().UTC(),
	}

	stored, err := s.store.AppendMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return stored, nil
}

// History returns a conversation's messages in creation order.
func (s *ConversationService) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return s.store.GetMessages(ctx, conversationID)
}

// List returns all conversations, newest first.
func (s *ConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	return s.store.ListConversations(ctx)
}
