package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrCategoryNotFound signals a missing or soft-deleted category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrAlreadyExists signals a resource name collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a request that fails domain validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat signals a file extension outside .pdf/.docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction signals a byte stream that cannot be parsed as its declared format.
	ErrExtraction = errors.New("extraction failed")
	// ErrEmptyContent signals structurally valid input that yields only whitespace.
	ErrEmptyContent = errors.New("no text content extracted")
	// ErrNoChunks signals input too short to produce a single chunk.
	ErrNoChunks = errors.New("no chunks produced")

	// ErrEmbedding signals an embedding provider failure, including timeouts.
	ErrEmbedding = errors.New("embedding failed")
	// ErrDimensionMismatch signals a vector whose length differs from the configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrRetrieval signals a retrieval failure (query embedding or search).
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals a text generation provider failure.
	ErrGeneration = errors.New("generation failed")

	// ErrStorage signals an object storage failure.
	ErrStorage = errors.New("object storage error")
	// ErrPersistence signals a database failure.
	ErrPersistence = errors.New("persistence error")
)

// Stage identifies the ingestion pipeline step that failed.
type Stage string

const (
	StageUpload  Stage = "upload"
	StageExtract Stage = "extract"
	StageChunk   Stage = "chunk"
	StageEmbed   Stage = "embed"
	StagePersist Stage = "persist"
)

// StageError wraps an ingestion failure with the stage that produced it.
// Callers decide user messaging from the stage alone, without inspecting
// the underlying error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("ingestion stage %s: %s", e.Stage, e.Err.Error())
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError tags err with the failed stage.
func NewStageError(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the failed stage if err carries one.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
