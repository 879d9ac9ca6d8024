// Package docrepo persists document records as Redis hashes.
package docrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aroha-health/docpipe/internal/db"
	"github.com/aroha-health/docpipe/internal/domain"
)

// store is the consumer interface for document records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase document persistence.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new document record.
func (r *Repo) Create(ctx context.Context, doc *domain.Document) error {
	key := docKey(doc.ID())
	fields, err := buildHashFields(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID(), err)
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("write document %s: %w", doc.ID(), err)
	}
	return nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	key := docKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Document{}, domain.ErrDocumentNotFound
		}
		return domain.Document{}, fmt.Errorf("read document %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(id, fields), nil
}

// List returns all documents, optionally filtered by category, newest first.
func (r *Repo) List(ctx context.Context, categoryID string) ([]domain.Document, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %d documents: %w", len(keys), err)
	}

	docs := make([]domain.Document, 0, len(keys))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		doc := parseHashFields(docID(keys[i]), fields)
		if categoryID != "" && doc.CategoryID() != categoryID {
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt().After(docs[j].UploadedAt())
	})
	return docs, nil
}

// Delete removes a document record. Missing documents return
// domain.ErrDocumentNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check document %s: %w", id, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}
