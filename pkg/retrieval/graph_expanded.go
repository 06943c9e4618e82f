package retrieval

import (
	"context"

	"github.com/newsgraph/newsgraph/pkg/embedder"
	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// GraphExpandedStrategy seeds with vector search, then walks
// fragment -> Article -> Category and attaches publisher, category and
// sibling articles from the same category to every hit. Seeds are not
// re-ranked by the expansion.
type GraphExpandedStrategy struct {
	store    graph.Store
	embedder embedder.Client
	index    string
	topK     int
}

// NewGraphExpandedStrategy builds the context-enriched strategy.
func NewGraphExpandedStrategy(store graph.Store, embedderClient embedder.Client, index string, topK int) *GraphExpandedStrategy {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &GraphExpandedStrategy{store: store, embedder: embedderClient, index: index, topK: topK}
}

// Name implements Strategy.
func (s *GraphExpandedStrategy) Name() string { return "graph_expanded_search" }

// Description implements Strategy.
func (s *GraphExpandedStrategy) Description() string {
	return "Similarity search enriched with graph context: each matching article comes with its publisher, category and related articles from the same category. Use when the question asks for surrounding or related coverage."
}

// Retrieve implements Strategy.
func (s *GraphExpandedStrategy) Retrieve(ctx context.Context, question string) ([]types.RetrievalResult, error) {
	return vectorSeed(ctx, s.embedder, question, func(ctx context.Context, vector []float32) ([]types.RetrievalResult, error) {
		return s.store.VectorSearchWithContext(ctx, s.index, vector, s.topK)
	})
}

var _ Strategy = (*GraphExpandedStrategy)(nil)
