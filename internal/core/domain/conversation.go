package domain

import "time"

// MessageRole identifies who authored a message.
type MessageRole string

const (
	// RoleUser is a message from the person asking questions.
	RoleUser MessageRole = "user"

	// RoleAssistant is a generated answer.
	RoleAssistant MessageRole = "assistant"
)

// IsValid reports whether the role is one of the known values.
func (r MessageRole) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is an ordered sequence of messages.
type Conversation struct {
	// ID is the unique identifier for the conversation.
	ID string

	// Title is a short human-readable label, typically derived from the
	// first user message.
	Title string

	// CreatedAt is when the conversation was started.
	CreatedAt time.Time
}

// MessageMeta carries answer provenance on assistant messages.
type MessageMeta struct {
	// Sources are the deduplicated source labels the answer drew on.
	Sources []string

	// IsComputation marks answers produced by the computation engine
	// rather than the language model.
	IsComputation bool

	// Model is the language model identifier used, if any.
	Model string
}

// Message is a single turn within a conversation.
//
// Within a conversation, messages are totally ordered by creation time
// with Seq as an explicit tie-break; retrieval returns them in that
// order.
type Message struct {
	// ID is the unique identifier for the message.
	ID string

	// ConversationID links to the owning Conversation.
	ConversationID string

	// Role is who authored the message.
	Role MessageRole

	// Content is the message text.
	Content string

	// Meta carries answer provenance for assistant messages.
	Meta MessageMeta

	// Seq is the append sequence within the conversation.
	Seq int

	// CreatedAt is when the message was appended.
	CreatedAt time.Time
}
