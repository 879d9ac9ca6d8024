package generate

import (
	"context"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/usecase/retrieve"
)

// Retriever supplies document context for a topic.
type Retriever interface {
	Retrieve(ctx context.Context, req *retrieve.Request) (retrieve.Result, error)
}

// TextGenerator produces text from a system and a user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// ContentStore persists generation records.
type ContentStore interface {
	Save(ctx context.Context, gc *domain.GeneratedContent) error
	Get(ctx context.Context, id string) (domain.GeneratedContent, error)
	List(ctx context.Context) ([]domain.GeneratedContent, error)
}
