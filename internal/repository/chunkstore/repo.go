// Package chunkstore persists document chunks and their embeddings as
// Redis hashes behind an FT vector index.
package chunkstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/aroha-health/docpipe/internal/db"
	"github.com/aroha-health/docpipe/internal/domain"
)

// store is the consumer interface for chunks (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	DelMulti(ctx context.Context, keys []string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase vector storage over Redis hashes.
type Repo struct {
	store store
	dim   int
}

// New creates a chunk store enforcing the given embedding dimension.
func New(s store, dim int) *Repo {
	if dim <= 0 {
		dim = domain.DefaultVectorDim
	}
	return &Repo{store: s, dim: dim}
}

// InsertMany persists chunks in one pipelined write. Every chunk must
// carry an embedding of the configured dimension; on any mismatch
// nothing is written.
func (r *Repo) InsertMany(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for i := range chunks {
		if got := len(chunks[i].Embedding()); got != r.dim {
			return fmt.Errorf("%w: chunk %d has dimension %d, index expects %d",
				domain.ErrDimensionMismatch, chunks[i].Index(), got, r.dim)
		}
	}

	// Reserve a contiguous block of sequence numbers so that equal
	// search distances resolve in insertion order.
	end, err := r.store.IncrBy(ctx, seqKey, int64(len(chunks)))
	if err != nil {
		return fmt.Errorf("reserve sequence block: %w", err)
	}
	start := end - int64(len(chunks)) + 1

	items := make([]db.HashSetItem, 0, len(chunks))
	for i := range chunks {
		c := chunks[i].WithSeq(start + int64(i))
		items = append(items, db.HashSetItem{
			Key:    chunkKey(c.DocumentID(), c.ID()),
			Fields: buildHashFields(&c),
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("write %d chunks: %w", len(items), err)
	}
	return nil
}

// Search runs a KNN query and returns chunks within maxDistance,
// ordered by distance then insertion sequence.
func (r *Repo) Search(ctx context.Context, vector []float32, k int, maxDistance float64) ([]domain.ScoredChunk, error) {
	if got := len(vector); got != r.dim {
		return nil, fmt.Errorf("%w: query vector has dimension %d, index expects %d",
			domain.ErrDimensionMismatch, got, r.dim)
	}

	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{fieldDocID, fieldText, fieldIndex, fieldSeq, fieldCreatedAt},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	scored := make([]domain.ScoredChunk, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if entry.Distance > maxDistance {
			continue
		}
		scored = append(scored, parseEntry(entry))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Distance != scored[j].Distance {
			return scored[i].Distance < scored[j].Distance
		}
		return scored[i].Chunk.Seq() < scored[j].Chunk.Seq()
	})

	return scored, nil
}

// DeleteByDocument removes every chunk belonging to a document.
// Deleting a document without chunks is not an error.
func (r *Repo) DeleteByDocument(ctx context.Context, documentID string) error {
	keys, err := r.store.Scan(ctx, keyPrefix+documentID+":*")
	if err != nil {
		return fmt.Errorf("scan chunks of %s: %w", documentID, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("delete %d chunks of %s: %w", len(keys), documentID, err)
	}
	return nil
}
