package health

import "context"

// DBPinger checks that the chunk and document store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks that the embedding provider answers.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
