package driving

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// DatasetService manages dataset records.
type DatasetService interface {
	// Create registers a new dataset in the processing state.
	Create(ctx context.Context, name string, fileType domain.FileType, sourceLocation string) (*domain.Dataset, error)

	// Get retrieves a dataset by ID.
	Get(ctx context.Context, id string) (*domain.Dataset, error)

	// List returns all datasets.
	List(ctx context.Context) ([]domain.Dataset, error)

	// Delete removes a dataset, cascading to its chunks and their vector
	// index entries.
	Delete(ctx context.Context, id string) error
}
