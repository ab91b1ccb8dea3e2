// Package memory provides in-memory implementations of the persistence
// ports, used for tests and as the default working set for a single
// interactive session.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// DatasetStore is an in-memory implementation of driven.DatasetStore.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]domain.Dataset
	order    []string
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{datasets: make(map[string]domain.Dataset)}
}

// Save stores a new dataset.
func (s *DatasetStore) Save(_ context.Context, dataset domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[dataset.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.datasets[dataset.ID] = dataset
	s.order = append(s.order, dataset.ID)
	return nil
}

// Get retrieves a dataset by ID.
func (s *DatasetStore) Get(_ context.Context, id string) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ds, nil
}

// List returns all datasets in insertion order.
func (s *DatasetStore) List(_ context.Context) ([]domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Dataset, 0, len(s.order))
	for _, id := range s.order {
		if ds, ok := s.datasets[id]; ok {
			result = append(result, ds)
		}
	}
	return result, nil
}

// ListByStatus returns datasets in the given lifecycle state.
func (s *DatasetStore) ListByStatus(ctx context.Context, status domain.DatasetStatus) ([]domain.Dataset, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Dataset, 0, len(all))
	for _, ds := range all {
		if ds.Status == status {
			result = append(result, ds)
		}
	}
	return result, nil
}

// UpdateStatus transitions a dataset's status, enforcing the lifecycle.
func (s *DatasetStore) UpdateStatus(_ context.Context, id string, status domain.DatasetStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !ds.Status.CanTransition(status) {
		return fmt.Errorf("%s -> %s: %w", ds.Status, status, domain.ErrInvalidTransition)
	}
	ds.Status = status
	s.datasets[id] = ds
	return nil
}

// Delete removes a dataset record.
func (s *DatasetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
