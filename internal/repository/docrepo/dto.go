package docrepo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aroha-health/docpipe/internal/domain"
)

const (
	keyPrefix = "docpipe:doc:"

	fieldFileName    = "file_name"
	fieldCategoryID  = "category_id"
	fieldStoragePath = "storage_path"
	fieldUploadedAt  = "uploaded_at"
	fieldMetadata    = "metadata"
)

func docKey(id string) string {
	return keyPrefix + id
}

func docID(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

// buildHashFields flattens a document into HSET fields. Metadata is
// stored as a JSON blob in a single field.
func buildHashFields(doc *domain.Document) (map[string]string, error) {
	m := map[string]string{
		fieldFileName:    doc.FileName(),
		fieldCategoryID:  doc.CategoryID(),
		fieldStoragePath: doc.StoragePath(),
		fieldUploadedAt:  doc.UploadedAt().UTC().Format(time.RFC3339Nano),
	}
	if meta := doc.Metadata(); len(meta) > 0 {
		data, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
		m[fieldMetadata] = string(data)
	}
	return m, nil
}

func parseHashFields(id string, m map[string]string) domain.Document {
	uploadedAt, _ := time.Parse(time.RFC3339Nano, m[fieldUploadedAt])

	var meta map[string]string
	if raw := m[fieldMetadata]; raw != "" {
		// Corrupt metadata degrades to nil instead of failing the read.
		_ = json.Unmarshal([]byte(raw), &meta)
	}

	return domain.ReconstructDocument(
		id, m[fieldFileName], m[fieldCategoryID], m[fieldStoragePath], uploadedAt, meta,
	)
}
