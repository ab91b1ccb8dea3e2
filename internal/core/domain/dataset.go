package domain

import "time"

// FileType identifies the kind of source file a dataset was created from.
type FileType string

const (
	// FileTypeCSV is comma-separated tabular data.
	FileTypeCSV FileType = "csv"

	// FileTypePDF is text extracted from a PDF document.
	FileTypePDF FileType = "pdf"

	// FileTypeTXT is plain text.
	FileTypeTXT FileType = "txt"

	// FileTypeImage is an uploaded image. Accepted in the data model but
	// no extractor exists for it; indexing an image dataset fails with
	// ErrUnsupportedType.
	FileTypeImage FileType = "image"
)

// IsValid reports whether the file type is one of the known values.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypeCSV, FileTypePDF, FileTypeTXT, FileTypeImage:
		return true
	}
	return false
}

// IsStructured reports whether the file type carries tabular rows that
// the computation engine can aggregate over.
func (t FileType) IsStructured() bool {
	return t == FileTypeCSV
}

// DatasetStatus tracks a dataset through the indexing lifecycle.
type DatasetStatus string

const (
	// StatusProcessing is the initial state on upload acceptance.
	StatusProcessing DatasetStatus = "processing"

	// StatusReady means every derived chunk has been embedded and stored.
	StatusReady DatasetStatus = "ready"

	// StatusError means indexing failed irrecoverably. A re-upload creates
	// a new dataset rather than moving this one backwards.
	StatusError DatasetStatus = "error"
)

// CanTransition reports whether a status change is allowed. The lifecycle
// is monotonic: processing may become ready or error, and terminal states
// never change.
func (s DatasetStatus) CanTransition(to DatasetStatus) bool {
	return s == StatusProcessing && (to == StatusReady || to == StatusError)
}

// Dataset represents one uploaded file and its indexing state.
//
// A dataset owns the chunks derived from it; deleting a dataset cascades
// to its chunks and their vector index entries.
type Dataset struct {
	// ID is the unique identifier for the dataset.
	ID string

	// Name is the human-readable name, usually the original file name.
	Name string

	// FileType is the kind of source file.
	FileType FileType

	// SourceLocation is where the original file lives on disk. The
	// computation engine re-reads structured rows from here directly,
	// independent of chunk granularity.
	SourceLocation string

	// Status is the indexing lifecycle state.
	Status DatasetStatus

	// CreatedAt is when the dataset was accepted.
	CreatedAt time.Time
}
