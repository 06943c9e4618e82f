package embedder

import "context"

// Client is the embedding contract used by the backfill pass and the
// retrieval strategies.
type Client interface {
	// Embed generates one vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector dimensionality this client produces.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds settings shared by embedding clients.
type Config struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}
