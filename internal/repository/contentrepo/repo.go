// Package contentrepo persists generated content records as Redis hashes.
package contentrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aroha-health/docpipe/internal/db"
	"github.com/aroha-health/docpipe/internal/domain"
)

const (
	keyPrefix = "docpipe:content:"

	fieldTopic       = "topic"
	fieldContentType = "content_type"
	fieldText        = "text"
	fieldModel       = "model"
	fieldSources     = "source_chunk_ids"
	fieldCreatedAt   = "created_at"
)

// store is the consumer interface for generated content (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase generated-content persistence.
type Repo struct {
	store store
}

// New creates a generated-content repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save persists a generation record.
func (r *Repo) Save(ctx context.Context, gc *domain.GeneratedContent) error {
	fields, err := buildHashFields(gc)
	if err != nil {
		return fmt.Errorf("encode content %s: %w", gc.ID(), err)
	}
	if err := r.store.HSet(ctx, contentKey(gc.ID()), fields); err != nil {
		return fmt.Errorf("write content %s: %w", gc.ID(), err)
	}
	return nil
}

// Get returns a generation record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.GeneratedContent, error) {
	fields, err := r.store.HGetAll(ctx, contentKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.GeneratedContent{}, domain.ErrNotFound
		}
		return domain.GeneratedContent{}, fmt.Errorf("read content %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.GeneratedContent{}, domain.ErrNotFound
	}
	return parseHashFields(id, fields), nil
}

// List returns all generation records, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.GeneratedContent, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %d content records: %w", len(keys), err)
	}

	records := make([]domain.GeneratedContent, 0, len(keys))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		records = append(records, parseHashFields(strings.TrimPrefix(keys[i], keyPrefix), fields))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt().After(records[j].CreatedAt())
	})
	return records, nil
}

func contentKey(id string) string {
	return keyPrefix + id
}

func buildHashFields(gc *domain.GeneratedContent) (map[string]string, error) {
	m := map[string]string{
		fieldTopic:       gc.Topic(),
		fieldContentType: gc.ContentType(),
		fieldText:        gc.Text(),
		fieldModel:       gc.Model(),
		fieldCreatedAt:   gc.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	if ids := gc.SourceChunkIDs(); len(ids) > 0 {
		data, err := json.Marshal(ids)
		if err != nil {
			return nil, fmt.Errorf("marshal source chunk IDs: %w", err)
		}
		m[fieldSources] = string(data)
	}
	return m, nil
}

func parseHashFields(id string, m map[string]string) domain.GeneratedContent {
	createdAt, _ := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])

	var sources []string
	if raw := m[fieldSources]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &sources)
	}

	return domain.ReconstructGeneratedContent(
		id, m[fieldTopic], m[fieldContentType], m[fieldText], m[fieldModel], sources, createdAt,
	)
}
