package domain

import "strings"

// Row is one record from a structured (CSV-derived) source: an ordered
// mapping of column name to raw string value. Column order is preserved
// so flattened text and aggregation scans are deterministic.
type Row struct {
	// Columns holds the column names in source order.
	Columns []string

	// Values maps column name to the raw cell value.
	Values map[string]string
}

// Get returns the value for a column, or "" if absent.
func (r Row) Get(column string) string {
	return r.Values[column]
}

// Flatten renders the row as "column: value, column: value, ...".
// This is both the chunk content for row chunks and the text the
// computation engine filters against.
func (r Row) Flatten() string {
	parts := make([]string, 0, len(r.Columns))
	for _, col := range r.Columns {
		parts = append(parts, col+": "+r.Values[col])
	}
	return strings.Join(parts, ", ")
}
