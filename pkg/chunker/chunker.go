// Package chunker splits article bodies into overlapping fragments for
// vector indexing.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults used by the ingest pipeline when nothing else is configured.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// ErrInvalidChunking is returned when chunkSize - overlap <= 0, a
// configuration that would make the sliding window loop forever.
var ErrInvalidChunking = errors.New("chunk size must be greater than overlap")

// Chunk slides a fixed-size window across text with stride
// chunkSize - overlap and returns the non-empty trimmed fragments in order.
// Empty or all-whitespace input yields a nil slice, not an error. The result
// is a pure function of the inputs.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 || overlap < 0 || chunkSize-overlap <= 0 {
		return nil, fmt.Errorf("%w: chunk_size=%d overlap=%d", ErrInvalidChunking, chunkSize, overlap)
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	stride := chunkSize - overlap

	var chunks []string
	for i := 0; i < len(runes); i += stride {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if chunk := strings.TrimSpace(string(runes[i:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
