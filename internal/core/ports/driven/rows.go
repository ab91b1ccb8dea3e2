package driven

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// RowReader reads structured rows directly from a dataset's original
// source. The computation engine uses this rather than re-assembling
// rows from chunks, so aggregation is independent of chunk granularity.
type RowReader interface {
	// ReadRows parses the file at sourceLocation into ordered rows.
	// Individual malformed rows are skipped; the whole read only fails
	// when the source itself cannot be opened or parsed at all.
	ReadRows(ctx context.Context, sourceLocation string) ([]domain.Row, error)
}
