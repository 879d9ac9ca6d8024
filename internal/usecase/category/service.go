// Package category manages document categories. Categories are
// soft-deleted so existing documents keep a resolvable reference.
package category

import (
	"context"
	"fmt"

	"github.com/aroha-health/docpipe/internal/domain"
)

// Repository persists categories.
type Repository interface {
	Save(ctx context.Context, cat *domain.Category) error
	Get(ctx context.Context, id string) (domain.Category, error)
	List(ctx context.Context, includeDeleted bool) ([]domain.Category, error)
}

// Service handles category management.
type Service struct {
	repo Repository
}

// New creates a category service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new category.
func (s *Service) Create(ctx context.Context, name string) (domain.Category, error) {
	existing, err := s.repo.List(ctx, true)
	if err != nil {
		return domain.Category{}, fmt.Errorf("list categories: %w", err)
	}
	for i := range existing {
		if existing[i].Name() == name && !existing[i].Deleted() {
			return domain.Category{}, fmt.Errorf("category %q: %w", name, domain.ErrAlreadyExists)
		}
	}

	cat, err := domain.NewCategory(name)
	if err != nil {
		return domain.Category{}, fmt.Errorf("new category: %w", err)
	}
	if err := s.repo.Save(ctx, &cat); err != nil {
		return domain.Category{}, fmt.Errorf("save category: %w", err)
	}
	return cat, nil
}

// Get returns a category by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Category, error) {
	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}

// List returns live categories ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Delete soft-deletes a category. Documents referencing it remain
// readable; new ingestions against it are rejected.
func (s *Service) Delete(ctx context.Context, id string) error {
	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if cat.Deleted() {
		return nil
	}

	deleted := cat.MarkDeleted()
	if err := s.repo.Save(ctx, &deleted); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}
