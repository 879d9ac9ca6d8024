package chi

import (
	"time"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/usecase/health"
	"github.com/aroha-health/docpipe/internal/usecase/retrieve"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeUnauthorized      = "unauthorized"
	codeNotFound          = "not_found"
	codeDocumentNotFound  = "document_not_found"
	codeCategoryNotFound  = "category_not_found"
	codeAlreadyExists     = "already_exists"
	codeUnsupportedFormat = "unsupported_format"
	codeExtractionFailed  = "extraction_failed"
	codeEmptyContent      = "empty_content"
	codeNoChunks          = "no_chunks"
	codeEmbeddingError    = "embedding_provider_error"
	codeGenerationError   = "generation_failed"
	codeRetrievalError    = "retrieval_failed"
	codeStorageError      = "storage_error"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ingestResponse struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

type documentResponse struct {
	ID         string            `json:"id"`
	FileName   string            `json:"file_name"`
	CategoryID string            `json:"category_id"`
	UploadedAt time.Time         `json:"uploaded_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type documentListResponse struct {
	Items      []documentResponse `json:"items"`
	HasMore    bool               `json:"has_more"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

type retrieveRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

type retrievedChunk struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Index      int     `json:"index"`
	Distance   float64 `json:"distance"`
}

type retrieveResponse struct {
	NoMatch bool             `json:"no_match"`
	Context string           `json:"context,omitempty"`
	Chunks  []retrievedChunk `json:"chunks,omitempty"`
}

type generateRequest struct {
	Topic       string  `json:"topic"`
	ContentType string  `json:"content_type"`
	TopK        int     `json:"top_k,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

type contentResponse struct {
	ID             string    `json:"id"`
	Topic          string    `json:"topic"`
	ContentType    string    `json:"content_type"`
	Text           string    `json:"text"`
	Model          string    `json:"model"`
	SourceChunkIDs []string  `json:"source_chunk_ids,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type generateResponse struct {
	contentResponse
	UsedContext bool `json:"used_context"`
}

type contentListResponse struct {
	Items []contentResponse `json:"items"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToDTO(d *domain.Document) documentResponse {
	return documentResponse{
		ID:         d.ID(),
		FileName:   d.FileName(),
		CategoryID: d.CategoryID(),
		UploadedAt: d.UploadedAt(),
		Metadata:   d.Metadata(),
	}
}

func categoryToDTO(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID(),
		Name:      c.Name(),
		CreatedAt: c.CreatedAt(),
	}
}

func retrieveToDTO(res *retrieve.Result) retrieveResponse {
	out := retrieveResponse{
		NoMatch: res.NoMatch,
		Context: res.Context,
	}
	if len(res.Chunks) > 0 {
		out.Chunks = make([]retrievedChunk, len(res.Chunks))
		for i := range res.Chunks {
			c := &res.Chunks[i].Chunk
			out.Chunks[i] = retrievedChunk{
				ID:         c.ID(),
				DocumentID: c.DocumentID(),
				Text:       c.Text(),
				Index:      c.Index(),
				Distance:   res.Chunks[i].Distance,
			}
		}
	}
	return out
}

func contentToDTO(gc *domain.GeneratedContent) contentResponse {
	return contentResponse{
		ID:             gc.ID(),
		Topic:          gc.Topic(),
		ContentType:    gc.ContentType(),
		Text:           gc.Text(),
		Model:          gc.Model(),
		SourceChunkIDs: gc.SourceChunkIDs(),
		CreatedAt:      gc.CreatedAt(),
	}
}

func healthToDTO(report health.Report) healthResponse {
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return healthResponse{Status: string(report.Status), Checks: checks}
}
