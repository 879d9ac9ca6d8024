// Package document handles read and delete operations on ingested
// documents. Creation is the ingestion pipeline's job.
package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/logger"
)

// Service handles document reads and cascading deletes.
type Service struct {
	repo    Repository
	chunks  ChunkRemover
	storage ObjectRemover
}

// New creates a document service.
func New(repo Repository, chunks ChunkRemover, storage ObjectRemover) *Service {
	return &Service{repo: repo, chunks: chunks, storage: storage}
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns documents, optionally filtered by category.
func (s *Service) List(ctx context.Context, categoryID string) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document with everything derived from it: chunks
// first, then the record, then the stored file. A file that is already
// gone only logs a warning; the cascade still counts as done.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := s.chunks.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if err := s.storage.Delete(ctx, doc.StoragePath()); err != nil {
		logger.FromContext(ctx).Warn("Stored file removal failed after record delete",
			zap.String("document_id", id),
			zap.String("path", doc.StoragePath()),
			zap.Error(err),
		)
	}

	return nil
}
