package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

func TestConversationStoreSaveAndGet(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	conv := domain.Conversation{ID: "conv-1", Title: "rice questions", CreatedAt: time.Now()}
	require.NoError(t, store.SaveConversation(ctx, conv))
	assert.ErrorIs(t, store.SaveConversation(ctx, conv), domain.ErrAlreadyExists)

	got, err := store.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "rice questions", got.Title)
}

func TestConversationStoreListNewestFirst(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.SaveConversation(ctx, domain.Conversation{ID: "old", CreatedAt: base}))
	require.NoError(t, store.SaveConversation(ctx, domain.Conversation{ID: "new", CreatedAt: base.Add(time.Minute)}))

	list, err := store.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestAppendMessageAssignsSequence(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, domain.Conversation{ID: "conv-1"}))

	now := time.Now()
	first, err := store.AppendMessage(ctx, domain.Message{
		ID: "m-1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "q", CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Seq)

	second, err := store.AppendMessage(ctx, domain.Message{
		ID: "m-2", ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "a", CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Seq)
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	store := NewConversationStore()

	_, err := store.AppendMessage(context.Background(), domain.Message{ConversationID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetMessagesOrderedByCreationTime(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, domain.Conversation{ID: "conv-1"}))

	// Equal timestamps: sequence breaks the tie.
	ts := time.Now()
	_, err := store.AppendMessage(ctx, domain.Message{ID: "m-1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "one", CreatedAt: ts})
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, domain.Message{ID: "m-2", ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "two", CreatedAt: ts})
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, domain.Message{ID: "m-3", ConversationID: "conv-1", Role: domain.RoleUser, Content: "three", CreatedAt: ts.Add(time.Second)})
	require.NoError(t, err)

	msgs, err := store.GetMessages(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"m-1", "m-2", "m-3"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}

func TestDeleteConversation(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, domain.Conversation{ID: "conv-1"}))
	_, err := store.AppendMessage(ctx, domain.Message{ID: "m-1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "q"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteConversation(ctx, "conv-1"))

	_, err = store.GetConversation(ctx, "conv-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	msgs, err := store.GetMessages(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
