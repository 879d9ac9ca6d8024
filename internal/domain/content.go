package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GeneratedContent is one LLM generation result, stored with the chunk IDs
// that backed it so every generation is traceable to its source material.
type GeneratedContent struct {
	id             string
	topic          string
	contentType    string
	text           string
	model          string
	sourceChunkIDs []string
	createdAt      time.Time
}

// NewGeneratedContent validates and creates a GeneratedContent record.
// sourceChunkIDs is empty for non-contextual (fallback) generations.
func NewGeneratedContent(
	topic, contentType, text, model string, sourceChunkIDs []string,
) (GeneratedContent, error) {
	if topic == "" {
		return GeneratedContent{}, fmt.Errorf("topic is required")
	}
	if contentType == "" {
		return GeneratedContent{}, fmt.Errorf("content type is required")
	}
	if text == "" {
		return GeneratedContent{}, fmt.Errorf("generated text is required")
	}
	return GeneratedContent{
		id:             uuid.NewString(),
		topic:          topic,
		contentType:    contentType,
		text:           text,
		model:          model,
		sourceChunkIDs: append([]string(nil), sourceChunkIDs...),
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructGeneratedContent creates a record without validation (storage hydration).
func ReconstructGeneratedContent(
	id, topic, contentType, text, model string, sourceChunkIDs []string, createdAt time.Time,
) GeneratedContent {
	return GeneratedContent{
		id: id, topic: topic, contentType: contentType, text: text,
		model: model, sourceChunkIDs: sourceChunkIDs, createdAt: createdAt,
	}
}

// ID returns the record identifier.
func (g *GeneratedContent) ID() string { return g.id }

// Topic returns the generation topic.
func (g *GeneratedContent) Topic() string { return g.topic }

// ContentType returns the generated content type (policy, procedure, ...).
func (g *GeneratedContent) ContentType() string { return g.contentType }

// Text returns the generated text.
func (g *GeneratedContent) Text() string { return g.text }

// Model returns the model used.
func (g *GeneratedContent) Model() string { return g.model }

// SourceChunkIDs returns the chunk IDs that backed the generation.
func (g *GeneratedContent) SourceChunkIDs() []string { return g.sourceChunkIDs }

// CreatedAt returns the creation timestamp.
func (g *GeneratedContent) CreatedAt() time.Time { return g.createdAt }
