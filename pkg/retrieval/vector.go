package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/newsgraph/newsgraph/pkg/embedder"
	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// VectorStrategy embeds the question with the same model used at ingest and
// runs nearest-neighbor search against the fragment index.
type VectorStrategy struct {
	store    graph.Store
	embedder embedder.Client
	index    string
	topK     int
}

// NewVectorStrategy builds the pure-similarity strategy. topK <= 0 falls
// back to DefaultTopK.
func NewVectorStrategy(store graph.Store, embedderClient embedder.Client, index string, topK int) *VectorStrategy {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &VectorStrategy{store: store, embedder: embedderClient, index: index, topK: topK}
}

// Name implements Strategy.
func (s *VectorStrategy) Name() string { return "vector_search" }

// Description implements Strategy.
func (s *VectorStrategy) Description() string {
	return "Semantic similarity search over article body text. Use for topical questions about what the news says, when no publisher, category or date filter is involved."
}

// Retrieve embeds the question and returns the topK fragments ranked by
// similarity descending. Ties keep the index's natural order.
func (s *VectorStrategy) Retrieve(ctx context.Context, question string) ([]types.RetrievalResult, error) {
	results, err := vectorSeed(ctx, s.embedder, question, func(ctx context.Context, vector []float32) ([]types.RetrievalResult, error) {
		return s.store.VectorSearch(ctx, s.index, vector, s.topK)
	})
	if err != nil {
		return nil, err
	}

	// The index already ranks by similarity; the stable sort only enforces
	// insertion order as the tie-break.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// vectorSeed embeds the question and hands the vector to a search function.
// Newlines are flattened before embedding, matching ingest-side behavior.
func vectorSeed(
	ctx context.Context,
	embedderClient embedder.Client,
	question string,
	search func(context.Context, []float32) ([]types.RetrievalResult, error),
) ([]types.RetrievalResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, nil
	}

	vector, err := embedderClient.EmbedSingle(ctx, strings.ReplaceAll(question, "\n", " "))
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	return search(ctx, vector)
}

var _ Strategy = (*VectorStrategy)(nil)
