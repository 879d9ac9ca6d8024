// Package chunker splits extracted text into overlapping, bounded segments
// for embedding. Boundaries snap to the nearest semantic break (paragraph,
// sentence, word) at or before the size target, so words are not split where
// avoidable. Chunking is deterministic: identical input and configuration
// always yield identical boundaries.
package chunker

import (
	"fmt"
	"strings"

	"github.com/aroha-health/docpipe/internal/domain"
)

const (
	// DefaultSize is the chunk size target in characters.
	DefaultSize = 1000
	// DefaultOverlap is how many characters of each chunk reappear at the
	// start of the next one.
	DefaultOverlap = 150
	// MinInput is the minimum trimmed input length that yields a chunk.
	// Anything shorter carries no retrievable signal.
	MinInput = 16
)

var sentenceEnds = []string{". ", ".\n", "! ", "!\n", "? ", "?\n"}

// Chunker splits text into overlapping chunks of at most Size characters.
type Chunker struct {
	size    int
	overlap int
}

// New validates the configuration and creates a Chunker.
// Overlap must be strictly less than size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be less than chunk size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into an ordered, non-empty sequence of chunks.
// Each chunk after the first starts overlap characters before the end of the
// previous chunk. Inputs shorter than MinInput after trimming fail with
// ErrNoChunks.
func (c *Chunker) Chunk(text string) ([]string, error) {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < MinInput {
		return nil, fmt.Errorf("input of %d chars (min %d): %w", len(runes), MinInput, domain.ErrNoChunks)
	}

	var chunks []string
	start := 0
	for {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := c.snap(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - c.overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks, nil
}

// snap finds the cut position for a chunk spanning [start, end), preferring a
// paragraph break, then a sentence end, then a word break, and hard-cutting
// at end as the last resort. A boundary is only used when it leaves more than
// overlap characters in the chunk, so each cut still makes progress.
func (c *Chunker) snap(runes []rune, start, end int) int {
	window := runes[start:end]
	floor := c.overlap // boundary must fall after start+floor

	if i := lastIndexRunes(window, []rune("\n\n")); i > floor {
		return start + i + 2
	}

	best := -1
	for _, sep := range sentenceEnds {
		sepRunes := []rune(sep)
		if i := lastIndexRunes(window, sepRunes); i > floor && i+len(sepRunes) > best {
			best = i + len(sepRunes)
		}
	}
	if best > 0 {
		return start + best
	}

	for i := len(window) - 1; i > floor; i-- {
		switch window[i] {
		case ' ', '\n', '\t':
			return start + i + 1
		}
	}

	return end
}

// lastIndexRunes is strings.LastIndex over rune slices, so cut positions stay
// in character space regardless of encoding width.
func lastIndexRunes(s, sep []rune) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if s[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }
