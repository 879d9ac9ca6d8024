// Package chi is the HTTP transport: request decoding, routing, and the
// mapping from domain errors to statuses.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aroha-health/docpipe/internal/domain"
	categoryuc "github.com/aroha-health/docpipe/internal/usecase/category"
	documentuc "github.com/aroha-health/docpipe/internal/usecase/document"
	generateuc "github.com/aroha-health/docpipe/internal/usecase/generate"
	healthuc "github.com/aroha-health/docpipe/internal/usecase/health"
	ingestuc "github.com/aroha-health/docpipe/internal/usecase/ingest"
	retrieveuc "github.com/aroha-health/docpipe/internal/usecase/retrieve"
)

// maxUploadBytes bounds multipart document uploads (file plus form overhead).
const maxUploadBytes = 32 << 20

const defaultPageSize = 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes the document pipeline API.
type Server struct {
	ingest        *ingestuc.Service
	documents     *documentuc.Service
	categories    *categoryuc.Service
	retriever     *retrieveuc.Service
	generator     *generateuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	documents *documentuc.Service,
	categories *categoryuc.Service,
	retriever *retrieveuc.Service,
	generator *generateuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:     ingest,
		documents:  documents,
		categories: categories,
		retriever:  retriever,
		generator:  generator,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, codeCategoryNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusBadRequest, codeUnsupportedFormat),
		sentinelHandler(domain.ErrExtraction, http.StatusUnprocessableEntity, codeExtractionFailed),
		sentinelHandler(domain.ErrEmptyContent, http.StatusUnprocessableEntity, codeEmptyContent),
		sentinelHandler(domain.ErrNoChunks, http.StatusUnprocessableEntity, codeNoChunks),
		sentinelHandler(domain.ErrEmbedding, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, codeGenerationError),
		sentinelHandler(domain.ErrRetrieval, http.StatusBadGateway, codeRetrievalError),
		sentinelHandler(domain.ErrStorage, http.StatusBadGateway, codeStorageError),
	}
	return s
}

// Routes mounts all API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/documents", s.IngestDocument)
	r.Get("/documents", s.ListDocuments)
	r.Get("/documents/{id}", s.GetDocument)
	r.Delete("/documents/{id}", s.DeleteDocument)

	r.Post("/categories", s.CreateCategory)
	r.Get("/categories", s.ListCategories)
	r.Delete("/categories/{id}", s.DeleteCategory)

	r.Post("/retrieve", s.Retrieve)
	r.Post("/generate", s.Generate)
	r.Get("/content", s.ListContent)
	r.Get("/content/{id}", s.GetContent)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// IngestDocument handles POST /documents (multipart upload).
func (s *Server) IngestDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "A file part is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Reading upload failed: "+err.Error())
		return
	}

	categoryID := r.FormValue("category_id")
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "category_id is required")
		return
	}

	var metadata map[string]string
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "metadata must be a JSON string map")
			return
		}
	}

	res, err := s.ingest.Ingest(r.Context(), &ingestuc.Request{
		FileName:   header.Filename,
		CategoryID: categoryID,
		Content:    content,
		Metadata:   metadata,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/documents/"+res.DocumentID)
	writeJSON(w, http.StatusCreated, ingestResponse{
		DocumentID: res.DocumentID,
		ChunkCount: res.ChunkCount,
	})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	docs, err := s.documents.List(r.Context(), r.URL.Query().Get("category_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentResponse, len(docs))
	for i := range docs {
		items[i] = documentToDTO(&docs[i])
	}

	writeJSON(w, http.StatusOK, paginateDocuments(items, r.URL.Query().Get("cursor"), limit))
}

func paginateDocuments(items []documentResponse, cursor string, limit int) documentListResponse {
	startIdx := 0
	if cursor != "" {
		for i, item := range items {
			if item.ID == cursor {
				startIdx = i + 1
				break
			}
		}
	}

	end := startIdx + limit
	if end > len(items) {
		end = len(items)
	}

	page := items[startIdx:end]
	hasMore := end < len(items)

	resp := documentListResponse{
		Items:   page,
		HasMore: hasMore,
	}
	if hasMore && len(page) > 0 {
		c := page[len(page)-1].ID
		resp.NextCursor = &c
	}
	return resp
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(&doc))
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /categories.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cat, err := s.categories.Create(r.Context(), req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryToDTO(&cat))
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]categoryResponse, len(cats))
	for i := range cats {
		items[i] = categoryToDTO(&cats[i])
	}

	writeJSON(w, http.StatusOK, categoryListResponse{Items: items})
}

// DeleteCategory handles DELETE /categories/{id}.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Retrieve handles POST /retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must not be negative")
		return
	}
	if req.Threshold < 0 || req.Threshold > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "threshold must be between 0 and 1")
		return
	}

	res, err := s.retriever.Retrieve(r.Context(), &retrieveuc.Request{
		Query:     req.Query,
		TopK:      req.TopK,
		Threshold: req.Threshold,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, retrieveToDTO(&res))
}

// Generate handles POST /generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "topic is required")
		return
	}
	if req.ContentType == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "content_type is required")
		return
	}

	res, err := s.generator.Generate(r.Context(), &generateuc.Request{
		Topic:       req.Topic,
		ContentType: req.ContentType,
		TopK:        req.TopK,
		Threshold:   req.Threshold,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, generateResponse{
		contentResponse: contentToDTO(&res.Content),
		UsedContext:     res.UsedContext,
	})
}

// ListContent handles GET /content.
func (s *Server) ListContent(w http.ResponseWriter, r *http.Request) {
	contents, err := s.generator.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]contentResponse, len(contents))
	for i := range contents {
		items[i] = contentToDTO(&contents[i])
	}

	writeJSON(w, http.StatusOK, contentListResponse{Items: items})
}

// GetContent handles GET /content/{id}.
func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	gc, err := s.generator.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contentToDTO(&gc))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToDTO(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidInput,
		domain.ErrUnsupportedFormat,
		domain.ErrExtraction,
		domain.ErrEmptyContent,
		domain.ErrNoChunks,
		domain.ErrEmbedding,
		domain.ErrGeneration,
		domain.ErrRetrieval,
		domain.ErrStorage,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	fields := []zap.Field{zap.Error(err)}
	if stage, ok := domain.StageOf(err); ok {
		fields = append(fields, zap.String("stage", string(stage)))
	}
	s.logger.Warn("domain error", fields...)

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
