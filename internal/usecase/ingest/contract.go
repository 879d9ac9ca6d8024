package ingest

import (
	"context"

	"github.com/aroha-health/docpipe/internal/domain"
)

// ObjectStore uploads and removes raw source files.
type ObjectStore interface {
	Put(ctx context.Context, path string, content []byte, contentType string) error
	Delete(ctx context.Context, path string) error
}

// Extractor pulls plain text out of an uploaded file.
type Extractor interface {
	Extract(fileName string, content []byte) (string, error)
}

// Chunker splits extracted text into overlapping chunks.
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// Embedder vectorizes chunk texts in one batch call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// ChunkStore persists and removes chunk vectors.
type ChunkStore interface {
	InsertMany(ctx context.Context, chunks []domain.Chunk) error
	DeleteByDocument(ctx context.Context, documentID string) error
}

// DocumentStore persists and removes document records.
type DocumentStore interface {
	Create(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id string) error
}

// CategoryReader checks category liveness before ingestion starts.
type CategoryReader interface {
	Get(ctx context.Context, id string) (domain.Category, error)
}
