package mcp

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
)

// mockQueryService implements driving.QueryService for testing.
type mockQueryService struct {
	answer   domain.Answer
	requests []domain.QueryRequest
}

var _ driving.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Answer(_ context.Context, req domain.QueryRequest) domain.Answer {
	m.requests = append(m.requests, req)
	return m.answer
}

// mockDatasetService implements driving.DatasetService for testing.
type mockDatasetService struct {
	datasets []domain.Dataset
	listErr  error
	getErr   error
}

var _ driving.DatasetService = (*mockDatasetService)(nil)

func (m *mockDatasetService) Create(_ context.Context, name string, fileType domain.FileType, sourceLocation string) (*domain.Dataset, error) {
	ds := domain.Dataset{ID: "new", Name: name, FileType: fileType, SourceLocation: sourceLocation}
	return &ds, nil
}

func (m *mockDatasetService) Get(_ context.Context, id string) (*domain.Dataset, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.datasets {
		if m.datasets[i].ID == id {
			return &m.datasets[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDatasetService) List(_ context.Context) ([]domain.Dataset, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.datasets, nil
}

func (m *mockDatasetService) Delete(_ context.Context, _ string) error {
	return nil
}
