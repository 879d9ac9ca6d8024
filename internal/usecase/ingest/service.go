// Package ingest runs the document ingestion pipeline: upload, extract,
// chunk, embed, persist. Any failed stage compensates everything written
// so far, so a document either exists with all its chunks or not at all.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/logger"
	"github.com/aroha-health/docpipe/internal/metrics"
)

// Request is one ingestion job.
type Request struct {
	FileName   string
	CategoryID string
	Content    []byte
	Metadata   map[string]string
}

// Result reports a completed ingestion.
type Result struct {
	DocumentID string
	ChunkCount int
}

// Service orchestrates the ingestion pipeline.
type Service struct {
	storage    ObjectStore
	extractor  Extractor
	chunker    Chunker
	embedder   Embedder
	chunks     ChunkStore
	docs       DocumentStore
	categories CategoryReader
}

// New creates an ingestion service.
func New(
	storage ObjectStore,
	extractor Extractor,
	chunker Chunker,
	embedder Embedder,
	chunks ChunkStore,
	docs DocumentStore,
	categories CategoryReader,
) *Service {
	return &Service{
		storage:    storage,
		extractor:  extractor,
		chunker:    chunker,
		embedder:   embedder,
		chunks:     chunks,
		docs:       docs,
		categories: categories,
	}
}

// Ingest runs the full pipeline for one file. Failures carry the stage
// they occurred in via domain.StageError; by the time an error returns,
// compensation has already removed every artifact of this call.
func (s *Service) Ingest(ctx context.Context, req *Request) (Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	// Category liveness is checked before anything is uploaded.
	cat, err := s.categories.Get(ctx, req.CategoryID)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("check category %s: %w", req.CategoryID, err)
	}
	if cat.Deleted() {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("category %s is deleted: %w", req.CategoryID, domain.ErrCategoryNotFound)
	}

	doc, err := domain.NewDocument(req.FileName, req.CategoryID, req.Metadata)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("new document: %w", err)
	}

	result, err := s.run(ctx, &doc, req.Content)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
		if stage, ok := domain.StageOf(err); ok {
			metrics.IngestStageErrorsTotal.WithLabelValues(string(stage)).Inc()
		}
		return Result{}, err
	}

	metrics.IngestDocumentsTotal.WithLabelValues("success").Inc()
	metrics.IngestDuration.WithLabelValues(domain.FileExtension(doc.FileName())).
		Observe(time.Since(start).Seconds())
	metrics.IngestChunksPerDocument.Observe(float64(result.ChunkCount))

	log.Info("Document ingested",
		zap.String("document_id", result.DocumentID),
		zap.String("category_id", doc.CategoryID()),
		zap.Int("chunks", result.ChunkCount),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}

// run executes the staged pipeline. Artifacts accumulate stage by stage
// and are unwound by compensate on failure.
func (s *Service) run(ctx context.Context, doc *domain.Document, content []byte) (Result, error) {
	// Stage 1: upload. Nothing to compensate if this fails.
	if err := s.storage.Put(ctx, doc.StoragePath(), content, doc.ContentType()); err != nil {
		return Result{}, domain.NewStageError(domain.StageUpload, err)
	}

	// Stage 2: extract.
	text, err := s.extractor.Extract(doc.FileName(), content)
	if err != nil {
		s.compensate(ctx, doc, false)
		return Result{}, domain.NewStageError(domain.StageExtract, err)
	}
	if err := ctx.Err(); err != nil {
		s.compensate(ctx, doc, false)
		return Result{}, domain.NewStageError(domain.StageExtract, err)
	}

	// Stage 3: chunk.
	texts, err := s.chunker.Chunk(text)
	if err != nil {
		s.compensate(ctx, doc, false)
		return Result{}, domain.NewStageError(domain.StageChunk, err)
	}

	// Stage 4: embed.
	batch, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		s.compensate(ctx, doc, false)
		return Result{}, domain.NewStageError(domain.StageEmbed, err)
	}

	chunks, err := s.pairChunks(ctx, doc, texts, batch.Embeddings)
	if err != nil {
		s.compensate(ctx, doc, false)
		return Result{}, domain.NewStageError(domain.StageEmbed, err)
	}

	// Stage 5: persist record and chunks.
	if err := s.docs.Create(ctx, doc); err != nil {
		s.compensate(ctx, doc, false)
		return Result{}, domain.NewStageError(domain.StagePersist, err)
	}
	if err := s.chunks.InsertMany(ctx, chunks); err != nil {
		s.compensate(ctx, doc, true)
		return Result{}, domain.NewStageError(domain.StagePersist, err)
	}

	return Result{DocumentID: doc.ID(), ChunkCount: len(chunks)}, nil
}

// pairChunks zips chunk texts with their embeddings. A count mismatch
// truncates to the shorter side with a warning rather than failing the
// whole ingestion.
func (s *Service) pairChunks(
	ctx context.Context, doc *domain.Document, texts []string, embeddings [][]float32,
) ([]domain.Chunk, error) {
	n := len(texts)
	if len(embeddings) != n {
		logger.FromContext(ctx).Warn("Chunk/embedding count mismatch, truncating",
			zap.String("document_id", doc.ID()),
			zap.Int("chunks", n),
			zap.Int("embeddings", len(embeddings)),
		)
		if len(embeddings) < n {
			n = len(embeddings)
		}
	}
	if n == 0 {
		return nil, domain.ErrNoChunks
	}

	chunks := make([]domain.Chunk, 0, n)
	for i := 0; i < n; i++ {
		c, err := domain.NewChunk(doc.ID(), texts[i], i, embeddings[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// compensate removes everything this ingestion has written. It runs on a
// detached context so cancellation of the request cannot strand
// artifacts, and logs instead of failing: the original stage error is
// what the caller needs to see.
func (s *Service) compensate(ctx context.Context, doc *domain.Document, docCreated bool) {
	log := logger.FromContext(ctx)
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.chunks.DeleteByDocument(cleanupCtx, doc.ID()); err != nil {
		log.Error("Compensation: delete chunks failed",
			zap.String("document_id", doc.ID()), zap.Error(err))
	}
	if docCreated {
		if err := s.docs.Delete(cleanupCtx, doc.ID()); err != nil {
			log.Error("Compensation: delete document record failed",
				zap.String("document_id", doc.ID()), zap.Error(err))
		}
	}
	if err := s.storage.Delete(cleanupCtx, doc.StoragePath()); err != nil {
		log.Error("Compensation: delete stored file failed",
			zap.String("path", doc.StoragePath()), zap.Error(err))
	}
}
