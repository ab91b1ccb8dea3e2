package cli

import (
	"context"
	"fmt"
	"time"

	rowscsv "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/rows/csv"
	"github.com/harvest-labs/agrolens-cli/internal/chunker"
	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
)

// mockQueryService returns a fixed answer and records requests.
type mockQueryService struct {
	answer   domain.Answer
	requests []domain.QueryRequest
}

func (m *mockQueryService) Answer(_ context.Context, req domain.QueryRequest) domain.Answer {
	m.requests = append(m.requests, req)
	return m.answer
}

// mockDatasetService is an in-memory dataset service double.
type mockDatasetService struct {
	datasets  []domain.Dataset
	deleted   []string
	createErr error
	deleteErr error
}

func (m *mockDatasetService) Create(
	_ context.Context, name string, fileType domain.FileType, sourceLocation string,
) (*domain.Dataset, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	ds := domain.Dataset{
		ID:             fmt.Sprintf("ds-%d", len(m.datasets)+1),
		Name:           name,
		FileType:       fileType,
		SourceLocation: sourceLocation,
		Status:         domain.StatusProcessing,
		CreatedAt:      time.Now(),
	}
	m.datasets = append(m.datasets, ds)
	return &ds, nil
}

func (m *mockDatasetService) Get(_ context.Context, id string) (*domain.Dataset, error) {
	for i := range m.datasets {
		if m.datasets[i].ID == id {
			return &m.datasets[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDatasetService) List(_ context.Context) ([]domain.Dataset, error) {
	return m.datasets, nil
}

func (m *mockDatasetService) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockIndexingService records the chunks handed to it per dataset.
type mockIndexingService struct {
	indexed map[string][]driving.TextChunk
	err     error
}

func (m *mockIndexingService) Index(_ context.Context, datasetID string, chunks []driving.TextChunk) error {
	if m.err != nil {
		return m.err
	}
	if m.indexed == nil {
		m.indexed = make(map[string][]driving.TextChunk)
	}
	m.indexed[datasetID] = chunks
	return nil
}

// mockConversationService is an in-memory conversation service double.
type mockConversationService struct {
	conversations []domain.Conversation
	messages      map[string][]domain.Message
	startErr      error
	appendErr     error
}

func (m *mockConversationService) Start(_ context.Context, title string) (*domain.Conversation, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	conv := domain.Conversation{
		ID:        fmt.Sprintf("conv-%d", len(m.conversations)+1),
		Title:     title,
		CreatedAt: time.Now(),
	}
	m.conversations = append(m.conversations, conv)
	return &conv, nil
}

func (m *mockConversationService) Append(
	_ context.Context, conversationID string, role domain.MessageRole, content string, meta domain.MessageMeta,
) (*domain.Message, error) {
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	if m.messages == nil {
		m.messages = make(map[string][]domain.Message)
	}
	msg := domain.Message{
		ID:             fmt.Sprintf("msg-%d", len(m.messages[conversationID])+1),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Meta:           meta,
		Seq:            len(m.messages[conversationID]),
		CreatedAt:      time.Now(),
	}
	m.messages[conversationID] = append(m.messages[conversationID], msg)
	return &msg, nil
}

func (m *mockConversationService) History(_ context.Context, conversationID string) ([]domain.Message, error) {
	return m.messages[conversationID], nil
}

func (m *mockConversationService) List(_ context.Context) ([]domain.Conversation, error) {
	return m.conversations, nil
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldQuery := queryService
	oldDataset := datasetService
	oldIndexing := indexingService
	oldConversation := conversationService
	oldChunker := textChunker
	oldReader := rowReader

	queryService = &mockQueryService{
		answer: domain.Answer{
			Text:    "Rice production in Punjab was 100 tonnes.",
			Sources: []string{"crop_production"},
		},
	}
	datasetService = &mockDatasetService{}
	indexingService = &mockIndexingService{}
	conversationService = &mockConversationService{}
	textChunker = chunker.New()
	rowReader = rowscsv.NewReader()

	return func() {
		queryService = oldQuery
		datasetService = oldDataset
		indexingService = oldIndexing
		conversationService = oldConversation
		textChunker = oldChunker
		rowReader = oldReader
	}
}
