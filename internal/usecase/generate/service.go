// Package generate produces healthcare documents grounded in retrieved
// chunks, falling back to general knowledge when nothing relevant exists.
package generate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/logger"
	"github.com/aroha-health/docpipe/internal/usecase/retrieve"
)

// Request is one generation job.
type Request struct {
	Topic       string
	ContentType string // "policy", "procedure", ...
	TopK        int
	Threshold   float64
}

// Result carries the generated text plus provenance.
type Result struct {
	Content       domain.GeneratedContent
	UsedContext   bool
	SourceChunkID []string
}

// Service orchestrates retrieval-augmented generation.
type Service struct {
	retriever Retriever
	generator TextGenerator
	contents  ContentStore
}

// New creates a generation service.
func New(retriever Retriever, generator TextGenerator, contents ContentStore) *Service {
	return &Service{retriever: retriever, generator: generator, contents: contents}
}

// Generate retrieves context for the topic, prompts the model, and
// persists the result with the chunk IDs that backed it. A retrieval
// NoMatch switches to the fallback prompt instead of failing.
func (s *Service) Generate(ctx context.Context, req *Request) (Result, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return Result{}, fmt.Errorf("topic is required: %w", domain.ErrGeneration)
	}
	if strings.TrimSpace(req.ContentType) == "" {
		return Result{}, fmt.Errorf("content type is required: %w", domain.ErrGeneration)
	}

	retrieved, err := s.retriever.Retrieve(ctx, &retrieve.Request{
		Query:     req.Topic,
		TopK:      req.TopK,
		Threshold: req.Threshold,
	})
	if err != nil {
		return Result{}, fmt.Errorf("retrieve context: %w", err)
	}

	var userPrompt string
	var sourceIDs []string
	if retrieved.NoMatch {
		logger.FromContext(ctx).Info("No relevant context, using fallback prompt",
			zap.String("topic", req.Topic))
		userPrompt = fallbackPrompt(req.ContentType, req.Topic)
	} else {
		userPrompt = ragPrompt(req.ContentType, req.Topic, retrieved.Context)
		sourceIDs = retrieved.ChunkIDs()
	}

	text, err := s.generator.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return Result{}, fmt.Errorf("generate %s: %w", req.ContentType, err)
	}

	gc, err := domain.NewGeneratedContent(req.Topic, req.ContentType, text, s.generator.Model(), sourceIDs)
	if err != nil {
		return Result{}, fmt.Errorf("new generated content: %w", err)
	}

	if err := s.contents.Save(ctx, &gc); err != nil {
		return Result{}, fmt.Errorf("save generated content: %w", err)
	}

	return Result{
		Content:       gc,
		UsedContext:   !retrieved.NoMatch,
		SourceChunkID: sourceIDs,
	}, nil
}

// Get returns a stored generation record.
func (s *Service) Get(ctx context.Context, id string) (domain.GeneratedContent, error) {
	gc, err := s.contents.Get(ctx, id)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("get generated content: %w", err)
	}
	return gc, nil
}

// List returns stored generation records, newest first.
func (s *Service) List(ctx context.Context) ([]domain.GeneratedContent, error) {
	out, err := s.contents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list generated content: %w", err)
	}
	return out, nil
}
