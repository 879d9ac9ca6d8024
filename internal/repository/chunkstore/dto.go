package chunkstore

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aroha-health/docpipe/internal/db"
	"github.com/aroha-health/docpipe/internal/domain"
)

const (
	keyPrefix = "docpipe:chunk:"
	seqKey    = "docpipe:seq:chunk"
	indexName = "docpipe:chunk:idx"

	fieldDocID     = "doc_id"
	fieldText      = "text"
	fieldIndex     = "idx"
	fieldSeq       = "seq"
	fieldVector    = "vector"
	fieldCreatedAt = "created_at"
)

func chunkKey(documentID, chunkID string) string {
	return keyPrefix + documentID + ":" + chunkID
}

// buildHashFields flattens a chunk into HSET fields. The embedding is
// stored as a binary blob (4 bytes per float, little-endian) so the FT
// index can read it directly.
func buildHashFields(c *domain.Chunk) map[string]string {
	return map[string]string{
		fieldDocID:     c.DocumentID(),
		fieldText:      c.Text(),
		fieldIndex:     strconv.Itoa(c.Index()),
		fieldSeq:       strconv.FormatInt(c.Seq(), 10),
		fieldVector:    vectorToBytes(c.Embedding()),
		fieldCreatedAt: c.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// parseEntry converts one FT.SEARCH hit into a scored chunk. The chunk
// ID is the key suffix after the document ID segment.
func parseEntry(entry db.SearchEntry) domain.ScoredChunk {
	docID := entry.Fields[fieldDocID]
	chunkID := strings.TrimPrefix(entry.Key, keyPrefix+docID+":")

	index, _ := strconv.Atoi(entry.Fields[fieldIndex])
	seq, _ := strconv.ParseInt(entry.Fields[fieldSeq], 10, 64)
	createdAt, _ := time.Parse(time.RFC3339Nano, entry.Fields[fieldCreatedAt])

	chunk := domain.ReconstructChunk(
		chunkID, docID, entry.Fields[fieldText], nil, index, seq, createdAt,
	)
	return domain.ScoredChunk{Chunk: chunk, Distance: entry.Distance}
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
