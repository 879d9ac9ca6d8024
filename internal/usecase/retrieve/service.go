// Package retrieve answers similarity queries over ingested chunks.
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/metrics"
)

// Fallbacks when the service is constructed without configured defaults.
const (
	DefaultTopK      = 5
	DefaultThreshold = 0.75
)

// contextSeparator joins chunk texts in the assembled context block.
const contextSeparator = "\n---\n"

// Request is one retrieval query.
type Request struct {
	Query     string
	TopK      int
	Threshold float64 // minimum cosine similarity; 0 means DefaultThreshold
}

// Result is the assembled retrieval context. NoMatch is a valid outcome,
// not an error: callers fall back to non-contextual generation.
type Result struct {
	NoMatch bool
	Context string
	Chunks  []domain.ScoredChunk
}

// ChunkIDs returns the IDs of the matched chunks in ranked order.
func (r *Result) ChunkIDs() []string {
	ids := make([]string, len(r.Chunks))
	for i := range r.Chunks {
		ids[i] = r.Chunks[i].Chunk.ID()
	}
	return ids
}

// Service retrieves relevant chunks for a query.
type Service struct {
	embedder  Embedder
	searcher  ChunkSearcher
	topK      int
	threshold float64
}

// New creates a retrieval service. topK and threshold are the configured
// defaults applied when a request leaves them unset; zero values fall back
// to DefaultTopK and DefaultThreshold.
func New(embedder Embedder, searcher ChunkSearcher, topK int, threshold float64) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{embedder: embedder, searcher: searcher, topK: topK, threshold: threshold}
}

// Retrieve embeds the query and returns chunks within the similarity
// threshold, joined into one context block.
func (s *Service) Retrieve(ctx context.Context, req *Request) (Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return Result{}, fmt.Errorf("query is required: %w", domain.ErrRetrieval)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.threshold
	}
	if threshold > 1 {
		return Result{}, fmt.Errorf("threshold %v out of range (0,1]: %w", threshold, domain.ErrRetrieval)
	}

	emb, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("embed query: %v: %w", err, domain.ErrRetrieval)
	}

	// Cosine distance is 1 - cosine similarity, so the similarity floor
	// becomes a distance ceiling.
	maxDistance := 1 - threshold

	scored, err := s.searcher.Search(ctx, emb.Embedding, topK, maxDistance)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("search chunks: %v: %w", err, domain.ErrRetrieval)
	}

	if len(scored) == 0 {
		metrics.RetrievalRequestsTotal.WithLabelValues("no_match").Inc()
		return Result{NoMatch: true}, nil
	}

	texts := make([]string, len(scored))
	for i := range scored {
		texts[i] = scored[i].Chunk.Text()
	}

	metrics.RetrievalRequestsTotal.WithLabelValues("match").Inc()
	return Result{
		Context: strings.Join(texts, contextSeparator),
		Chunks:  scored,
	}, nil
}
