// Package categoryrepo persists document categories as Redis hashes.
package categoryrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aroha-health/docpipe/internal/db"
	"github.com/aroha-health/docpipe/internal/domain"
)

const (
	keyPrefix = "docpipe:category:"

	fieldName      = "name"
	fieldDeleted   = "deleted"
	fieldCreatedAt = "created_at"
)

// store is the consumer interface for categories (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase category persistence.
type Repo struct {
	store store
}

// New creates a category repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save persists a category (create or update).
func (r *Repo) Save(ctx context.Context, cat *domain.Category) error {
	if err := r.store.HSet(ctx, catKey(cat.ID()), buildHashFields(cat)); err != nil {
		return fmt.Errorf("write category %s: %w", cat.ID(), err)
	}
	return nil
}

// Get returns a category by ID, soft-deleted ones included.
func (r *Repo) Get(ctx context.Context, id string) (domain.Category, error) {
	fields, err := r.store.HGetAll(ctx, catKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("read category %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return parseHashFields(id, fields), nil
}

// List returns categories ordered by name. Soft-deleted categories are
// excluded unless includeDeleted is set.
func (r *Repo) List(ctx context.Context, includeDeleted bool) ([]domain.Category, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %d categories: %w", len(keys), err)
	}

	cats := make([]domain.Category, 0, len(keys))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		cat := parseHashFields(strings.TrimPrefix(keys[i], keyPrefix), fields)
		if cat.Deleted() && !includeDeleted {
			continue
		}
		cats = append(cats, cat)
	}

	sort.Slice(cats, func(i, j int) bool { return cats[i].Name() < cats[j].Name() })
	return cats, nil
}

func catKey(id string) string {
	return keyPrefix + id
}

func buildHashFields(cat *domain.Category) map[string]string {
	return map[string]string{
		fieldName:      cat.Name(),
		fieldDeleted:   strconv.FormatBool(cat.Deleted()),
		fieldCreatedAt: cat.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func parseHashFields(id string, m map[string]string) domain.Category {
	deleted, _ := strconv.ParseBool(m[fieldDeleted])
	createdAt, _ := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	return domain.ReconstructCategory(id, m[fieldName], deleted, createdAt)
}
