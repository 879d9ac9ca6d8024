package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Chunk is a contiguous span of a document's extracted text with its
// embedding vector. Chunks are created in bulk by the ingestion pipeline and
// never mutated afterwards; they are destroyed when their document is.
type Chunk struct {
	id         string
	documentID string
	text       string
	embedding  []float32
	index      int
	seq        int64
	createdAt  time.Time
}

// NewChunk validates and creates a Chunk with a fresh UUID.
// The insertion sequence is assigned later by the chunk store.
func NewChunk(documentID, text string, index int, embedding []float32) (Chunk, error) {
	if documentID == "" {
		return Chunk{}, fmt.Errorf("document ID is required")
	}
	if text == "" {
		return Chunk{}, fmt.Errorf("chunk text is required")
	}
	if index < 0 {
		return Chunk{}, fmt.Errorf("chunk index must be non-negative")
	}
	return Chunk{
		id:         uuid.NewString(),
		documentID: documentID,
		text:       text,
		embedding:  embedding,
		index:      index,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructChunk creates a Chunk without validation (storage hydration).
func ReconstructChunk(
	id, documentID, text string, embedding []float32, index int, seq int64, createdAt time.Time,
) Chunk {
	return Chunk{
		id: id, documentID: documentID, text: text,
		embedding: embedding, index: index, seq: seq, createdAt: createdAt,
	}
}

// ID returns the chunk identifier.
func (c *Chunk) ID() string { return c.id }

// DocumentID returns the owning document reference.
func (c *Chunk) DocumentID() string { return c.documentID }

// Text returns the chunk text.
func (c *Chunk) Text() string { return c.text }

// Embedding returns the embedding vector.
func (c *Chunk) Embedding() []float32 { return c.embedding }

// Index returns the chunk's position within its document.
func (c *Chunk) Index() int { return c.index }

// Seq returns the global insertion sequence used for stable tie ordering.
func (c *Chunk) Seq() int64 { return c.seq }

// CreatedAt returns the creation timestamp.
func (c *Chunk) CreatedAt() time.Time { return c.createdAt }

// WithSeq returns a copy with the insertion sequence set.
func (c *Chunk) WithSeq(seq int64) Chunk {
	out := *c
	out.seq = seq
	return out
}

// ScoredChunk is one similarity search hit: a chunk plus its cosine distance
// to the query vector (smaller is more similar).
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
}
