package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aroha-health/docpipe/internal/domain"
	"github.com/aroha-health/docpipe/internal/metrics"
	categoryuc "github.com/aroha-health/docpipe/internal/usecase/category"
	documentuc "github.com/aroha-health/docpipe/internal/usecase/document"
	generateuc "github.com/aroha-health/docpipe/internal/usecase/generate"
	healthuc "github.com/aroha-health/docpipe/internal/usecase/health"
	ingestuc "github.com/aroha-health/docpipe/internal/usecase/ingest"
	retrieveuc "github.com/aroha-health/docpipe/internal/usecase/retrieve"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()
	m.Run()
}

// stubs shared by the endpoint tests

type stubObjectStore struct{ putErr, delErr error }

func (s *stubObjectStore) Put(context.Context, string, []byte, string) error { return s.putErr }
func (s *stubObjectStore) Delete(context.Context, string) error              { return s.delErr }

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(string, []byte) (string, error) { return s.text, s.err }

type stubChunker struct{ chunks []string }

func (s *stubChunker) Chunk(string) ([]string, error) { return s.chunks, nil }

type stubBatchEmbedder struct{ err error }

func (s *stubBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if s.err != nil {
		return domain.BatchEmbeddingResult{}, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

type stubChunkStore struct {
	hits []domain.ScoredChunk
	err  error
}

func (s *stubChunkStore) InsertMany(context.Context, []domain.Chunk) error  { return s.err }
func (s *stubChunkStore) DeleteByDocument(context.Context, string) error    { return nil }
func (s *stubChunkStore) Search(context.Context, []float32, int, float64) ([]domain.ScoredChunk, error) {
	return s.hits, s.err
}

type stubDocStore struct {
	docs map[string]domain.Document
	err  error
}

func (s *stubDocStore) Create(context.Context, *domain.Document) error { return s.err }

func (s *stubDocStore) Get(_ context.Context, id string) (domain.Document, error) {
	if d, ok := s.docs[id]; ok {
		return d, nil
	}
	return domain.Document{}, domain.ErrDocumentNotFound
}

func (s *stubDocStore) List(context.Context, string) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out, nil
}

func (s *stubDocStore) Delete(context.Context, string) error { return s.err }

type stubCategoryRepo struct {
	cats map[string]domain.Category
}

func (s *stubCategoryRepo) Save(_ context.Context, cat *domain.Category) error {
	if s.cats == nil {
		s.cats = make(map[string]domain.Category)
	}
	s.cats[cat.ID()] = *cat
	return nil
}

func (s *stubCategoryRepo) Get(_ context.Context, id string) (domain.Category, error) {
	if c, ok := s.cats[id]; ok {
		return c, nil
	}
	return domain.Category{}, domain.ErrCategoryNotFound
}

func (s *stubCategoryRepo) List(context.Context, bool) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, c)
	}
	return out, nil
}

type stubQueryEmbedder struct{ err error }

func (s *stubQueryEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(context.Context, string, string) (string, error) {
	return s.text, s.err
}

func (s *stubGenerator) Model() string { return "test-model" }

type stubContentStore struct{ saved []domain.GeneratedContent }

func (s *stubContentStore) Save(_ context.Context, gc *domain.GeneratedContent) error {
	s.saved = append(s.saved, *gc)
	return nil
}

func (s *stubContentStore) Get(_ context.Context, id string) (domain.GeneratedContent, error) {
	for i := range s.saved {
		if s.saved[i].ID() == id {
			return s.saved[i], nil
		}
	}
	return domain.GeneratedContent{}, domain.ErrNotFound
}

func (s *stubContentStore) List(context.Context) ([]domain.GeneratedContent, error) {
	return s.saved, nil
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(context.Context) error { return s.err }

// fixture wires stub-backed services into a routed Server.
type fixture struct {
	storage   *stubObjectStore
	extractor *stubExtractor
	chunker   *stubChunker
	chunks    *stubChunkStore
	docs      *stubDocStore
	catRepo   *stubCategoryRepo
	qembedder *stubQueryEmbedder
	generator *stubGenerator
	contents  *stubContentStore
	pinger    *stubPinger
}

func newFixture() *fixture {
	return &fixture{
		storage:   &stubObjectStore{},
		extractor: &stubExtractor{text: "extracted text"},
		chunker:   &stubChunker{chunks: []string{"chunk one", "chunk two"}},
		chunks:    &stubChunkStore{},
		docs:      &stubDocStore{docs: map[string]domain.Document{}},
		catRepo:   &stubCategoryRepo{cats: map[string]domain.Category{}},
		qembedder: &stubQueryEmbedder{},
		generator: &stubGenerator{text: "generated policy text"},
		contents:  &stubContentStore{},
		pinger:    &stubPinger{},
	}
}

func (f *fixture) router() *gochi.Mux {
	retriever := retrieveuc.New(f.qembedder, f.chunks, 0, 0)
	srv := NewServer(
		ingestuc.New(f.storage, f.extractor, f.chunker, &stubBatchEmbedder{}, f.chunks, f.docs, f.catRepo),
		documentuc.New(f.docs, f.chunks, f.storage),
		categoryuc.New(f.catRepo),
		retriever,
		generateuc.New(retriever, f.generator, f.contents),
		healthuc.New(f.pinger, nil),
		zap.NewNop(),
	)

	r := gochi.NewRouter()
	srv.Routes(r)
	return r
}

func (f *fixture) liveCategory(id, name string) {
	f.catRepo.cats[id] = domain.ReconstructCategory(id, name, false, time.Now().UTC())
}

func multipartUpload(t *testing.T, fileName, categoryID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4 fake body")); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := mw.WriteField("category_id", categoryID); err != nil {
		t.Fatalf("write category field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

func TestIngestDocument_Created(t *testing.T) {
	f := newFixture()
	f.liveCategory("cat-1", "Policies")
	r := f.router()

	body, contentType := multipartUpload(t, "report.pdf", "cat-1")
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp ingestResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DocumentID == "" {
		t.Error("expected document_id")
	}
	if resp.ChunkCount != 2 {
		t.Errorf("chunk_count = %d, want 2", resp.ChunkCount)
	}
	if loc := rr.Header().Get("Location"); !strings.HasSuffix(loc, resp.DocumentID) {
		t.Errorf("Location = %q, want suffix %q", loc, resp.DocumentID)
	}
}

func TestIngestDocument_MissingCategoryField(t *testing.T) {
	f := newFixture()
	r := f.router()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "report.pdf")
	_, _ = fw.Write([]byte("x"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if e := decodeError(t, rr); e.Code != codeValidationFailed {
		t.Errorf("code = %s, want %s", e.Code, codeValidationFailed)
	}
}

func TestIngestDocument_UnknownCategory_404(t *testing.T) {
	f := newFixture()
	r := f.router()

	body, contentType := multipartUpload(t, "report.pdf", "missing")
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if e := decodeError(t, rr); e.Code != codeCategoryNotFound {
		t.Errorf("code = %s, want %s", e.Code, codeCategoryNotFound)
	}
}

func TestIngestDocument_UnsupportedFormat_400(t *testing.T) {
	f := newFixture()
	f.liveCategory("cat-1", "Policies")
	r := f.router()

	body, contentType := multipartUpload(t, "notes.txt", "cat-1")
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if e := decodeError(t, rr); e.Code != codeUnsupportedFormat {
		t.Errorf("code = %s, want %s", e.Code, codeUnsupportedFormat)
	}
}

func TestIngestDocument_EmptyContent_422(t *testing.T) {
	f := newFixture()
	f.liveCategory("cat-1", "Policies")
	f.extractor.err = domain.ErrEmptyContent
	r := f.router()

	body, contentType := multipartUpload(t, "blank.pdf", "cat-1")
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	if e := decodeError(t, rr); e.Code != codeEmptyContent {
		t.Errorf("code = %s, want %s", e.Code, codeEmptyContent)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	f := newFixture()
	r := f.router()

	req := httptest.NewRequest("GET", "/documents/missing", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if e := decodeError(t, rr); e.Code != codeDocumentNotFound {
		t.Errorf("code = %s, want %s", e.Code, codeDocumentNotFound)
	}
}

func TestGetDocument_OK(t *testing.T) {
	f := newFixture()
	f.docs.docs["doc-1"] = domain.ReconstructDocument(
		"doc-1", "report.pdf", "cat-1", "documents/doc-1_report.pdf",
		time.Now().UTC(), map[string]string{"author": "quality team"},
	)
	r := f.router()

	req := httptest.NewRequest("GET", "/documents/doc-1", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp documentResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "doc-1" || resp.FileName != "report.pdf" {
		t.Errorf("unexpected document: %+v", resp)
	}
	if resp.Metadata["author"] != "quality team" {
		t.Errorf("metadata = %v", resp.Metadata)
	}
}

func TestDeleteDocument_NoContent(t *testing.T) {
	f := newFixture()
	f.docs.docs["doc-1"] = domain.ReconstructDocument(
		"doc-1", "report.pdf", "cat-1", "documents/doc-1_report.pdf", time.Now().UTC(), nil,
	)
	r := f.router()

	req := httptest.NewRequest("DELETE", "/documents/doc-1", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestListDocuments_Paginated(t *testing.T) {
	f := newFixture()
	for _, id := range []string{"doc-1", "doc-2", "doc-3"} {
		f.docs.docs[id] = domain.ReconstructDocument(
			id, id+".pdf", "cat-1", "documents/"+id, time.Now().UTC(), nil,
		)
	}
	r := f.router()

	req := httptest.NewRequest("GET", "/documents?limit=2", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp documentListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("page size = %d, want 2", len(resp.Items))
	}
	if !resp.HasMore || resp.NextCursor == nil {
		t.Error("expected has_more with next_cursor")
	}
}

func TestListDocuments_InvalidLimit(t *testing.T) {
	f := newFixture()
	r := f.router()

	req := httptest.NewRequest("GET", "/documents?limit=zero", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture()
	r := f.router()

	body := strings.NewReader(`{"name":"Procedures"}`)
	req := httptest.NewRequest("POST", "/categories", body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var created categoryResponse
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req = httptest.NewRequest("GET", "/categories", http.NoBody)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	var list categoryListResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Name != "Procedures" {
		t.Fatalf("list = %+v", list.Items)
	}

	req = httptest.NewRequest("DELETE", "/categories/"+created.ID, http.NoBody)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestCreateCategory_Duplicate_409(t *testing.T) {
	f := newFixture()
	f.liveCategory("cat-1", "Policies")
	r := f.router()

	req := httptest.NewRequest("POST", "/categories", strings.NewReader(`{"name":"Policies"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusConflict)
	}
	if e := decodeError(t, rr); e.Code != codeAlreadyExists {
		t.Errorf("code = %s, want %s", e.Code, codeAlreadyExists)
	}
}

func TestRetrieve_Match(t *testing.T) {
	f := newFixture()
	f.chunks.hits = []domain.ScoredChunk{
		{
			Chunk: domain.ReconstructChunk(
				"c1", "doc-1", "hand hygiene before contact", nil, 0, 5, time.Now().UTC(),
			),
			Distance: 0.12,
		},
	}
	r := f.router()

	req := httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"query":"hand hygiene"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp retrieveResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NoMatch {
		t.Error("expected a match")
	}
	if len(resp.Chunks) != 1 || resp.Chunks[0].ID != "c1" {
		t.Fatalf("chunks = %+v", resp.Chunks)
	}
	if resp.Chunks[0].Distance != 0.12 {
		t.Errorf("distance = %v, want 0.12", resp.Chunks[0].Distance)
	}
}

func TestRetrieve_NoMatch_200(t *testing.T) {
	f := newFixture()
	r := f.router()

	req := httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"query":"unrelated"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("no match must be 200, got %d", rr.Code)
	}

	var resp retrieveResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.NoMatch {
		t.Error("expected no_match")
	}
}

func TestRetrieve_EmptyQuery_400(t *testing.T) {
	f := newFixture()
	r := f.router()

	req := httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"query":""}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRetrieve_EmbedderDown_502(t *testing.T) {
	f := newFixture()
	f.qembedder.err = domain.ErrEmbedding
	r := f.router()

	req := httptest.NewRequest("POST", "/retrieve", strings.NewReader(`{"query":"hand hygiene"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	if e := decodeError(t, rr); e.Code != codeRetrievalError {
		t.Errorf("code = %s, want %s", e.Code, codeRetrievalError)
	}
}

func TestGenerate_Created(t *testing.T) {
	f := newFixture()
	f.chunks.hits = []domain.ScoredChunk{
		{
			Chunk: domain.ReconstructChunk(
				"c1", "doc-1", "infection control guidance", nil, 0, 3, time.Now().UTC(),
			),
			Distance: 0.1,
		},
	}
	r := f.router()

	body := strings.NewReader(`{"topic":"hand hygiene","content_type":"policy"}`)
	req := httptest.NewRequest("POST", "/generate", body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp generateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "generated policy text" {
		t.Errorf("text = %q", resp.Text)
	}
	if !resp.UsedContext {
		t.Error("expected used_context")
	}
	if len(resp.SourceChunkIDs) != 1 || resp.SourceChunkIDs[0] != "c1" {
		t.Errorf("source_chunk_ids = %v", resp.SourceChunkIDs)
	}
	if len(f.contents.saved) != 1 {
		t.Errorf("saved %d generation records, want 1", len(f.contents.saved))
	}
}

func TestGenerate_MissingTopic_400(t *testing.T) {
	f := newFixture()
	r := f.router()

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(`{"content_type":"policy"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGenerate_ProviderDown_502(t *testing.T) {
	f := newFixture()
	f.generator.err = domain.ErrGeneration
	r := f.router()

	body := strings.NewReader(`{"topic":"hand hygiene","content_type":"policy"}`)
	req := httptest.NewRequest("POST", "/generate", body)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	if e := decodeError(t, rr); e.Code != codeGenerationError {
		t.Errorf("code = %s, want %s", e.Code, codeGenerationError)
	}
}

func TestListContent(t *testing.T) {
	f := newFixture()
	gc := domain.ReconstructGeneratedContent(
		"gc-1", "hand hygiene", "policy", "text", "test-model", []string{"c1"}, time.Now().UTC(),
	)
	f.contents.saved = []domain.GeneratedContent{gc}
	r := f.router()

	req := httptest.NewRequest("GET", "/content", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp contentListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "gc-1" {
		t.Fatalf("items = %+v", resp.Items)
	}
}

func TestHealth_OK(t *testing.T) {
	f := newFixture()
	r := f.router()

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestHealth_DatabaseDown_503(t *testing.T) {
	f := newFixture()
	f.pinger.err = domain.ErrPersistence
	r := f.router()

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
