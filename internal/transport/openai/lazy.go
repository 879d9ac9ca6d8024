package openai

import (
	"context"
	"sync"
	"time"

	"github.com/aroha-health/docpipe/internal/domain"
)

// LazyEmbedder defers client construction until the first call and
// bounds every provider call with a fixed timeout. Construction happens
// exactly once, shared across goroutines.
type LazyEmbedder struct {
	build   func() domain.BatchEmbedder
	timeout time.Duration

	once  sync.Once
	inner domain.BatchEmbedder
}

// NewLazyEmbedder wraps a provider constructor.
func NewLazyEmbedder(build func() domain.BatchEmbedder, timeout time.Duration) *LazyEmbedder {
	return &LazyEmbedder{build: build, timeout: timeout}
}

func (l *LazyEmbedder) get() domain.BatchEmbedder {
	l.once.Do(func() { l.inner = l.build() })
	return l.inner
}

func (l *LazyEmbedder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, l.timeout)
}

// Embed implements domain.Embedder.
func (l *LazyEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.get().Embed(ctx, text)
}

// BatchEmbed implements domain.BatchEmbedder.
func (l *LazyEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.get().BatchEmbed(ctx, texts)
}

// HealthCheck implements domain.HealthChecker. Forces client construction.
func (l *LazyEmbedder) HealthCheck(ctx context.Context) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	if hc, ok := l.get().(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
