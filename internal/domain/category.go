package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category classifies documents (policy, procedure, standing order, ...).
// Categories are soft-deleted: documents keep their reference but new
// ingestions against a deleted category are rejected.
type Category struct {
	id        string
	name      string
	deleted   bool
	createdAt time.Time
}

// NewCategory validates and creates a Category.
func NewCategory(name string) (Category, error) {
	if name == "" {
		return Category{}, fmt.Errorf("category name is required: %w", ErrInvalidInput)
	}
	if len(name) > 100 {
		return Category{}, fmt.Errorf("category name too long (max 100): %w", ErrInvalidInput)
	}
	return Category{
		id:        uuid.NewString(),
		name:      name,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructCategory creates a Category without validation (storage hydration).
func ReconstructCategory(id, name string, deleted bool, createdAt time.Time) Category {
	return Category{id: id, name: name, deleted: deleted, createdAt: createdAt}
}

// ID returns the category identifier.
func (c *Category) ID() string { return c.id }

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Deleted reports whether the category is soft-deleted.
func (c *Category) Deleted() bool { return c.deleted }

// CreatedAt returns the creation timestamp.
func (c *Category) CreatedAt() time.Time { return c.createdAt }

// MarkDeleted returns a soft-deleted copy. A value receiver keeps the
// original untouched and lets callers chain off constructor results.
func (c Category) MarkDeleted() Category {
	c.deleted = true
	return c
}
