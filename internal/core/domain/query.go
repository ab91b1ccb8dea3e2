package domain

import "strings"

// Default values applied to a QueryRequest when fields are left empty.
const (
	DefaultModel    = "default-instruct-model"
	DefaultLanguage = "english"
)

// QueryKind is the routing decision for an incoming query.
type QueryKind string

const (
	// QueryComputational routes to the computation engine for direct
	// numeric aggregation over structured rows.
	QueryComputational QueryKind = "computational"

	// QueryConversational routes through retrieval and the language
	// model.
	QueryConversational QueryKind = "conversational"
)

// QueryRequest is a single question submitted to the system.
type QueryRequest struct {
	// Message is the question text. Must be non-empty.
	Message string

	// ConversationID optionally threads the answer into an existing
	// conversation.
	ConversationID string

	// Model is the language model identifier to answer with.
	Model string

	// Language is the language the answer should be written in.
	Language string
}

// Normalised returns a copy with defaults applied and the message
// trimmed.
func (q QueryRequest) Normalised() QueryRequest {
	q.Message = strings.TrimSpace(q.Message)
	if q.Model == "" {
		q.Model = DefaultModel
	}
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	return q
}

// Validate checks the request is answerable.
func (q QueryRequest) Validate() error {
	if strings.TrimSpace(q.Message) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Answer is the structured result of answering a query. The query
// pipeline's contract is total: it always produces an Answer, even when
// that answer is an explanatory failure message.
type Answer struct {
	// Text is the answer content.
	Text string

	// Sources are the originating labels of the context used, ordered by
	// first occurrence and deduplicated.
	Sources []string

	// IsComputation marks answers produced by direct aggregation.
	IsComputation bool

	// Metadata carries model info and other provenance.
	Metadata map[string]any
}
