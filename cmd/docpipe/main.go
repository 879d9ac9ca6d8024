package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aroha-health/docpipe/internal/chunker"
	"github.com/aroha-health/docpipe/internal/config"
	dbRedis "github.com/aroha-health/docpipe/internal/db/redis"
	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/extract"
	logpkg "github.com/aroha-health/docpipe/internal/logger"
	"github.com/aroha-health/docpipe/internal/metrics"
	"github.com/aroha-health/docpipe/internal/repository/categoryrepo"
	"github.com/aroha-health/docpipe/internal/repository/chunkstore"
	"github.com/aroha-health/docpipe/internal/repository/contentrepo"
	"github.com/aroha-health/docpipe/internal/repository/docrepo"
	"github.com/aroha-health/docpipe/internal/repository/embcache"
	"github.com/aroha-health/docpipe/internal/storage"
	chiTransport "github.com/aroha-health/docpipe/internal/transport/chi"
	openaiClient "github.com/aroha-health/docpipe/internal/transport/openai"
	categoryuc "github.com/aroha-health/docpipe/internal/usecase/category"
	documentuc "github.com/aroha-health/docpipe/internal/usecase/document"
	generateuc "github.com/aroha-health/docpipe/internal/usecase/generate"
	healthuc "github.com/aroha-health/docpipe/internal/usecase/health"
	ingestuc "github.com/aroha-health/docpipe/internal/usecase/ingest"
	retrieveuc "github.com/aroha-health/docpipe/internal/usecase/retrieve"
	"github.com/aroha-health/docpipe/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docpipe API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	// Embedder chain: lazy OpenAI client -> cache over the KV store.
	// The lazy wrapper also bounds every provider call with the configured timeout.
	lazyEmbedder := openaiClient.NewLazyEmbedder(func() domain.BatchEmbedder {
		return openaiClient.NewEmbedder(&openaiClient.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
	}, time.Duration(cfg.Embedding.TimeoutSec)*time.Second)
	embedder := embcache.New(lazyEmbedder, store, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	generator := openaiClient.NewGenerator(&openaiClient.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Provider:    cfg.Generation.Provider,
		Logger:      logger,
	})

	objectStore := storage.NewSupabaseStore(storage.SupabaseConfig{
		BaseURL: cfg.Storage.BaseURL,
		APIKey:  cfg.Storage.APIKey,
		Bucket:  cfg.Storage.Bucket,
		Timeout: time.Duration(cfg.Storage.TimeoutSec) * time.Second,
	})

	// Repositories
	chunkRepo := chunkstore.New(store, cfg.Embedding.Dimensions)
	if err := chunkRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure chunk index", zap.Error(err))
	}
	docRepo := docrepo.New(store)
	catRepo := categoryrepo.New(store)
	contentRepo := contentrepo.New(store)

	// Chunker per config
	textChunker, err := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		logger.Fatal("Invalid chunking config", zap.Error(err))
	}

	// Use case services
	ingestSvc := ingestuc.New(objectStore, extract.New(), textChunker, embedder, chunkRepo, docRepo, catRepo)
	documentSvc := documentuc.New(docRepo, chunkRepo, objectStore)
	categorySvc := categoryuc.New(catRepo)
	retrieveSvc := retrieveuc.New(embedder, chunkRepo, cfg.Retrieval.TopK, cfg.Retrieval.Threshold)
	generateSvc := generateuc.New(retrieveSvc, generator, contentRepo)
	healthSvc := healthuc.New(store, lazyEmbedder)

	server := chiTransport.NewServer(
		ingestSvc, documentSvc, categorySvc, retrieveSvc, generateSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
