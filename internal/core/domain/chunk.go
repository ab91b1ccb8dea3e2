package domain

import "time"

// ChunkKind tags the metadata variant carried by a chunk.
type ChunkKind string

const (
	// ChunkKindRow is a single flattened tabular row.
	ChunkKindRow ChunkKind = "row"

	// ChunkKindSummary is the per-dataset descriptive summary chunk.
	ChunkKindSummary ChunkKind = "summary"

	// ChunkKindText is a sentence-packed segment of free text.
	ChunkKindText ChunkKind = "text"
)

// RowMetadata describes a chunk derived from one tabular row.
type RowMetadata struct {
	// RowIndex is the zero-based row position in the source file.
	RowIndex int

	// OriginalRow preserves the raw column values the chunk was
	// flattened from.
	OriginalRow Row
}

// SummaryMetadata describes the coarse per-dataset summary chunk.
type SummaryMetadata struct {
	// Headers are the column names of the source table.
	Headers []string

	// TotalRows is the number of data rows in the source table.
	TotalRows int
}

// TextMetadata describes a free-text chunk.
type TextMetadata struct {
	// ChunkIndex is the zero-based position within the document.
	ChunkIndex int

	// Length is the content length in bytes.
	Length int
}

// ChunkMetadata is a tagged union of the known metadata variants plus an
// open extension map for forward compatibility. Exactly one of Row,
// Summary or Text is set, matching Kind.
type ChunkMetadata struct {
	// Kind selects the variant.
	Kind ChunkKind

	// SourceName is the originating dataset or file name, used for
	// answer source attribution.
	SourceName string

	// Row is set when Kind is ChunkKindRow.
	Row *RowMetadata

	// Summary is set when Kind is ChunkKindSummary.
	Summary *SummaryMetadata

	// Text is set when Kind is ChunkKindText.
	Text *TextMetadata

	// Extra holds caller-supplied key-value pairs (document type, page
	// count, etc).
	Extra map[string]any
}

// SourceLabel derives the attribution label for the chunk. It prefers an
// explicit source name, maps structured chunk kinds to a generic label,
// then falls back to the declared kind.
func (m ChunkMetadata) SourceLabel() string {
	if m.SourceName != "" {
		return m.SourceName
	}
	switch m.Kind {
	case ChunkKindRow, ChunkKindSummary:
		return "structured dataset"
	case ChunkKindText:
		return string(ChunkKindText)
	}
	if m.Kind != "" {
		return string(m.Kind)
	}
	return "unknown"
}

// Chunk is the atomic retrieval unit derived from a dataset.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DatasetID links to the owning Dataset. Empty for orphaned chunks
	// whose dataset has been removed.
	DatasetID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the dataset. It is carried
	// as an explicit tie-break key for deterministic ranking, never as a
	// correctness signal.
	Position int

	// Embedding is the vector representation. A chunk without an
	// embedding is excluded from similarity search but retained for
	// potential re-indexing.
	Embedding []float32

	// Metadata carries the typed metadata variant.
	Metadata ChunkMetadata

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time
}

// HasEmbedding reports whether the chunk carries a vector.
func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
