package graph

import (
	"context"

	"github.com/newsgraph/newsgraph/pkg/types"
)

// Store is the contract between the ingest/retrieval layers and the
// underlying graph database. Every mutation is idempotent: calling the same
// upsert twice leaves the graph in the same state as calling it once.
type Store interface {
	// EnsureConstraints declares the uniqueness constraints on
	// Article.article_id, Content.content_id, Media.name and Category.name.
	// Safe to call repeatedly.
	EnsureConstraints(ctx context.Context) error

	// EnsureVectorIndex declares the cosine vector index over
	// Content.embedding. Declaring an existing index is not an error.
	EnsureVectorIndex(ctx context.Context, name string, dimensions int) error

	// Reset destructively removes all nodes and relationships. Used only at
	// controlled ingest-start boundaries, never implicitly.
	Reset(ctx context.Context) error

	// UpsertArticle creates or updates the Article node keyed by article_id.
	UpsertArticle(ctx context.Context, article types.Article) error

	// UpsertFragments merge-creates one Content node per chunk, keyed by the
	// deterministic content_id, together with the HAS_CHUNK edge from the
	// parent article. Zero chunks is a no-op.
	UpsertFragments(ctx context.Context, articleID string, chunks []string, meta types.Article) error

	// UpsertMedia merge-creates the Media node and its PUBLISHED edge.
	// Empty name is a no-op.
	UpsertMedia(ctx context.Context, articleID, name string) error

	// UpsertCategory merge-creates the Category node and the BELONGS_TO edge.
	// Empty name is a no-op.
	UpsertCategory(ctx context.Context, articleID, name string) error

	// FragmentsMissingEmbedding returns every Content node whose embedding
	// property is unset.
	FragmentsMissingEmbedding(ctx context.Context) ([]types.Fragment, error)

	// SetFragmentEmbedding persists a full-length embedding vector onto the
	// fragment identified by contentID.
	SetFragmentEmbedding(ctx context.Context, contentID string, embedding []float32) error

	// VectorSearch returns the topK nearest fragments by cosine similarity.
	VectorSearch(ctx context.Context, index string, vector []float32, topK int) ([]types.RetrievalResult, error)

	// VectorSearchWithContext is VectorSearch enriched with the owning
	// article's category, publisher and up to five related articles from the
	// same category.
	VectorSearchWithContext(ctx context.Context, index string, vector []float32, topK int) ([]types.RetrievalResult, error)

	// Schema introspects the live node labels, their properties and the
	// observed relationship patterns.
	Schema(ctx context.Context) (*types.Schema, error)

	// RunReadQuery executes a read-only Cypher query and returns its rows.
	// Queries containing write clauses are rejected.
	RunReadQuery(ctx context.Context, cypher string) ([]map[string]any, error)

	// VerifyConnectivity checks that the database is reachable.
	VerifyConnectivity(ctx context.Context) error

	// Close releases the connection pool.
	Close(ctx context.Context) error
}
