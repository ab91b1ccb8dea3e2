// Package chunker segments raw extracted text and tabular rows into
// bounded, overlapping units suitable for embedding and retrieval.
package chunker

import (
	"fmt"
	"strings"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters carried
// into the next chunk.
const DefaultOverlap = 200

// Chunker splits free text into sentence-packed chunks and tabular rows
// into row plus summary chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for new content in each chunk.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ForDataset dispatches on the dataset's file type. Free-text types are
// chunked from content; structured types from rows. Types with no
// extractor fail fast with domain.ErrUnsupportedType before any chunk is
// produced.
func (c *Chunker) ForDataset(ds domain.Dataset, content string, rows []domain.Row) ([]driving.TextChunk, error) {
	switch ds.FileType {
	case domain.FileTypeCSV:
		var headers []string
		if len(rows) > 0 {
			headers = rows[0].Columns
		}
		return c.Tabular(rows, headers, ds), nil
	case domain.FileTypeTXT, domain.FileTypePDF:
		extra := map[string]any{"document_type": string(ds.FileType)}
		return c.Text(content, ds.Name, extra), nil
	default:
		return nil, fmt.Errorf("chunk dataset %s (%s): %w", ds.Name, ds.FileType, domain.ErrUnsupportedType)
	}
}

// Text splits free text into sentence-like segments at terminator
// boundaries and greedily packs them into chunks of at most chunkSize
// characters. Each chunk after the first is seeded with the trailing
// overlap characters of its predecessor to preserve local context across
// boundaries. A single sentence longer than the chunk size is emitted
// whole; trailing content is flushed as a final chunk.
func (c *Chunker) Text(raw, sourceName string, extra map[string]any) []driving.TextChunk {
	sentences := splitSentences(raw)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []driving.TextChunk
	var current strings.Builder

	// Content is assembled from trimmed sentences, so only an overlap
	// seed can introduce leading whitespace; it is kept verbatim so each
	// chunk literally begins with its predecessor's suffix.
	flush := func() string {
		content := current.String()
		if strings.TrimSpace(content) == "" {
			return ""
		}
		chunks = append(chunks, c.textChunk(content, len(chunks), sourceName, extra))
		current.Reset()
		return content
	}

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > c.chunkSize {
			emitted := flush()
			// Seed the next chunk with the tail of the previous one.
			if c.overlap > 0 && len(emitted) > c.overlap {
				current.WriteString(emitted[len(emitted)-c.overlap:])
			} else if c.overlap > 0 {
				current.WriteString(emitted)
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// Tabular produces one chunk per row plus exactly one summary chunk, so
// every tabular dataset is retrievable at row granularity and at a
// coarse descriptive granularity even when no row matches a query
// semantically.
func (c *Chunker) Tabular(rows []domain.Row, headers []string, ds domain.Dataset) []driving.TextChunk {
	chunks := make([]driving.TextChunk, 0, len(rows)+1)

	for i, row := range rows {
		chunks = append(chunks, driving.TextChunk{
			Content: row.Flatten(),
			Metadata: domain.ChunkMetadata{
				Kind:       domain.ChunkKindRow,
				SourceName: ds.Name,
				Row: &domain.RowMetadata{
					RowIndex:    i,
					OriginalRow: row,
				},
			},
		})
	}

	summary := fmt.Sprintf("%s Dataset with columns: %s. Total rows: %d",
		strings.ToUpper(string(ds.FileType)), strings.Join(headers, ", "), len(rows))
	chunks = append(chunks, driving.TextChunk{
		Content: summary,
		Metadata: domain.ChunkMetadata{
			Kind:       domain.ChunkKindSummary,
			SourceName: ds.Name,
			Summary: &domain.SummaryMetadata{
				Headers:   headers,
				TotalRows: len(rows),
			},
		},
	})

	return chunks
}

func (c *Chunker) textChunk(content string, index int, sourceName string, extra map[string]any) driving.TextChunk {
	return driving.TextChunk{
		Content: content,
		Metadata: domain.ChunkMetadata{
			Kind:       domain.ChunkKindText,
			SourceName: sourceName,
			Text: &domain.TextMetadata{
				ChunkIndex: index,
				Length:     len(content),
			},
			Extra: copyExtra(extra),
		},
	}
}

// splitSentences splits content at sentence terminators, discarding
// empty segments.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	// Trailing partial sentence.
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func copyExtra(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
