package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileNameLen bounds the original file name length.
const MaxFileNameLen = 255

// SupportedExtensions maps accepted file extensions to upload content types.
var SupportedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Document is one ingested source file (immutable after creation).
type Document struct {
	id          string
	fileName    string
	categoryID  string
	storagePath string
	uploadedAt  time.Time
	metadata    map[string]string
}

// NewDocument validates and creates a Document with a fresh UUID.
// The storage path namespaces the file under the documents prefix and is made
// unique by prepending the document ID to the original file name.
func NewDocument(fileName, categoryID string, metadata map[string]string) (Document, error) {
	if fileName == "" {
		return Document{}, fmt.Errorf("file name is required: %w", ErrInvalidInput)
	}
	if len(fileName) > MaxFileNameLen {
		return Document{}, fmt.Errorf("file name too long (max %d): %w", MaxFileNameLen, ErrInvalidInput)
	}
	if categoryID == "" {
		return Document{}, fmt.Errorf("category is required: %w", ErrInvalidInput)
	}
	if _, ok := SupportedExtensions[FileExtension(fileName)]; !ok {
		return Document{}, fmt.Errorf("%s: %w", fileName, ErrUnsupportedFormat)
	}

	id := uuid.NewString()
	return Document{
		id:          id,
		fileName:    fileName,
		categoryID:  categoryID,
		storagePath: fmt.Sprintf("documents/%s_%s", id, fileName),
		uploadedAt:  time.Now().UTC(),
		metadata:    cloneStringMap(metadata),
	}, nil
}

// ReconstructDocument creates a Document without validation (storage hydration).
func ReconstructDocument(
	id, fileName, categoryID, storagePath string, uploadedAt time.Time, metadata map[string]string,
) Document {
	return Document{
		id: id, fileName: fileName, categoryID: categoryID,
		storagePath: storagePath, uploadedAt: uploadedAt, metadata: metadata,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// FileName returns the original file name.
func (d *Document) FileName() string { return d.fileName }

// CategoryID returns the category reference.
func (d *Document) CategoryID() string { return d.categoryID }

// StoragePath returns the object storage path of the raw file.
func (d *Document) StoragePath() string { return d.storagePath }

// UploadedAt returns the upload timestamp.
func (d *Document) UploadedAt() time.Time { return d.uploadedAt }

// Metadata returns the free-form metadata map.
func (d *Document) Metadata() map[string]string { return d.metadata }

// ContentType returns the upload content type for the document's extension.
func (d *Document) ContentType() string {
	if ct, ok := SupportedExtensions[FileExtension(d.fileName)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FileExtension returns the lowercased extension of name, including the dot.
func FileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
