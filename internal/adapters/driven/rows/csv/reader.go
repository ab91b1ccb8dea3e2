// Package csv reads structured rows from CSV files.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.RowReader = (*Reader)(nil)

// Reader parses CSV files into domain rows. The first record is the
// header; malformed records are skipped rather than failing the whole
// file, so one bad row in a large agricultural export does not block
// indexing or computation.
type Reader struct{}

// NewReader creates a CSV row reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadRows parses the file at sourceLocation into ordered rows. It fails
// only when the file cannot be opened or the header cannot be read.
func (r *Reader) ReadRows(ctx context.Context, sourceLocation string) ([]domain.Row, error) {
	file, err := os.Open(sourceLocation)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", sourceLocation, err)
	}
	defer file.Close()

	return r.parse(ctx, file, sourceLocation)
}

func (r *Reader) parse(ctx context.Context, src io.Reader, name string) ([]domain.Row, error) {
	reader := csv.NewReader(src)
	// Ragged rows are handled per-record below.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header from %s: %w", name, err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	var rows []domain.Row
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(record) != len(columns) {
			skipped++
			continue
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			values[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, domain.Row{Columns: columns, Values: values})
	}

	if skipped > 0 {
		logger.Warn("Skipped %d malformed rows in %s", skipped, name)
	}
	logger.Debug("Read %d rows from %s", len(rows), name)
	return rows, nil
}
