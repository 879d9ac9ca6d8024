package document

import (
	"context"

	"github.com/aroha-health/docpipe/internal/domain"
)

// Repository persists document records.
type Repository interface {
	Get(ctx context.Context, id string) (domain.Document, error)
	List(ctx context.Context, categoryID string) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// ChunkRemover removes all chunks of a document.
type ChunkRemover interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

// ObjectRemover removes the stored source file.
type ObjectRemover interface {
	Delete(ctx context.Context, path string) error
}
