package chunkstore

import (
	"context"
	"fmt"

	"github.com/aroha-health/docpipe/internal/db"
)

// HNSW build parameters tuned for small corpora of clinical documents.
const (
	hnswM           = 16
	hnswEFConstruct = 200
)

// EnsureIndex creates the chunk vector index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName, err)
	}
	if exists {
		return nil
	}

	def := indexDefinition(r.dim)
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

func indexDefinition(dim int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName,
		Prefixes: []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: fieldDocID, Type: db.IndexFieldTag},
			{Name: fieldSeq, Type: db.IndexFieldNumeric},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         dim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnswM,
				VectorEFConstruct: hnswEFConstruct,
			},
		},
	}
}
