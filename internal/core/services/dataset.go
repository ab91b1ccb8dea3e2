package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService manages dataset records and the ownership cascade:
// deleting a dataset removes its chunks and their vector index entries.
type DatasetService struct {
	datasetStore driven.DatasetStore
	chunkStore   driven.ChunkStore
	vectorIndex  driven.VectorIndex
}

// NewDatasetService creates a dataset service.
func NewDatasetService(
	datasetStore driven.DatasetStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
) *DatasetService {
	return &DatasetService{
		datasetStore: datasetStore,
		chunkStore:   chunkStore,
		vectorIndex:  vectorIndex,
	}
}

// Create registers a new dataset in the processing state.
func (s *DatasetService) Create(
	ctx context.Context, name string, fileType domain.FileType, sourceLocation string,
) (*domain.Dataset, error) {
	if name == "" || sourceLocation == "" {
		return nil, domain.ErrInvalidInput
	}
	if !fileType.IsValid() {
		return nil, fmt.Errorf("file type %q: %w", fileType, domain.ErrUnsupportedType)
	}

	ds := domain.Dataset{
		ID:             uuid.New().String(),
		Name:           name,
		FileType:       fileType,
		SourceLocation: sourceLocation,
		Status:         domain.StatusProcessing,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.datasetStore.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	logger.Debug("Created dataset %s (%s)", ds.Name, ds.ID)
	return &ds, nil
}

// Get retrieves a dataset by ID.
func (s *DatasetService) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	return s.datasetStore.Get(ctx, id)
}

// List returns all datasets.
func (s *DatasetService) List(ctx context.Context) ([]domain.Dataset, error) {
	return s.datasetStore.List(ctx)
}

// Delete removes a dataset, cascading to its chunks and their vector
// index entries.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	chunkIDs, err := s.chunkStore.DeleteByDataset(ctx, id)
	if err != nil {
		return fmt.Errorf("delete chunks for dataset %s: %w", id, err)
	}

	if s.vectorIndex != nil {
		for _, chunkID := range chunkIDs {
			if err := s.vectorIndex.Delete(ctx, chunkID); err != nil {
				// The chunk record is already gone; a stale vector entry
				// only wastes memory until restart.
				logger.Warn("Removing vector for chunk %s failed: %v", chunkID, err)
			}
		}
	}

	if err := s.datasetStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dataset %s: %w", id, err)
	}
	return nil
}
