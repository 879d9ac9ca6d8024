package retrieve

import (
	"context"

	"github.com/aroha-health/docpipe/internal/domain"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ChunkSearcher runs KNN search over stored chunks.
type ChunkSearcher interface {
	Search(ctx context.Context, vector []float32, k int, maxDistance float64) ([]domain.ScoredChunk, error)
}
