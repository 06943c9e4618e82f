package retrieval

import (
	"context"
	"errors"

	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// fakeStore implements graph.Store with canned results.
type fakeStore struct {
	vectorResults   []types.RetrievalResult
	expandedResults []types.RetrievalResult
	rows            []map[string]any
	schema          *types.Schema
	lastCypher      string
	err             error
}

func (f *fakeStore) EnsureConstraints(ctx context.Context) error                   { return nil }
func (f *fakeStore) EnsureVectorIndex(ctx context.Context, n string, d int) error  { return nil }
func (f *fakeStore) Reset(ctx context.Context) error                               { return nil }
func (f *fakeStore) UpsertArticle(ctx context.Context, a types.Article) error      { return nil }
func (f *fakeStore) UpsertMedia(ctx context.Context, id, name string) error        { return nil }
func (f *fakeStore) UpsertCategory(ctx context.Context, id, name string) error     { return nil }
func (f *fakeStore) SetFragmentEmbedding(ctx context.Context, id string, e []float32) error {
	return nil
}
func (f *fakeStore) UpsertFragments(ctx context.Context, id string, chunks []string, m types.Article) error {
	return nil
}
func (f *fakeStore) FragmentsMissingEmbedding(ctx context.Context) ([]types.Fragment, error) {
	return nil, nil
}
func (f *fakeStore) VectorSearch(ctx context.Context, index string, v []float32, k int) ([]types.RetrievalResult, error) {
	return f.vectorResults, f.err
}
func (f *fakeStore) VectorSearchWithContext(ctx context.Context, index string, v []float32, k int) ([]types.RetrievalResult, error) {
	return f.expandedResults, f.err
}
func (f *fakeStore) Schema(ctx context.Context) (*types.Schema, error) {
	if f.schema == nil {
		return &types.Schema{
			NodeTypes: []types.NodeTypeInfo{
				{Label: "Article", Properties: []string{"article_id", "title", "url", "published_date"}},
				{Label: "Category", Properties: []string{"name"}},
			},
			Patterns: []types.RelPattern{
				{Source: "Article", Relationship: "BELONGS_TO", Target: "Category"},
			},
		}, nil
	}
	return f.schema, nil
}
func (f *fakeStore) RunReadQuery(ctx context.Context, cypher string) ([]map[string]any, error) {
	if err := graph.ValidateReadOnly(cypher); err != nil {
		return nil, err
	}
	f.lastCypher = cypher
	return f.rows, f.err
}
func (f *fakeStore) VerifyConnectivity(ctx context.Context) error { return nil }
func (f *fakeStore) Close(ctx context.Context) error              { return nil }

var _ graph.Store = (*fakeStore)(nil)

// fakeEmbedder returns a constant vector.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}
func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}
func (f *fakeEmbedder) Dimensions() int { return 3 }
func (f *fakeEmbedder) Close() error    { return nil }

// fakeLLM replays a fixed response.
type fakeLLM struct {
	content string
	err     error
}

func (f *fakeLLM) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Response{Content: f.content}, nil
}
func (f *fakeLLM) Close() error { return nil }

// fixedSelector always picks the same tools.
type fixedSelector struct {
	names []string
	err   error
}

func (f *fixedSelector) Select(ctx context.Context, q string, tools []ToolInfo) ([]string, error) {
	return f.names, f.err
}

// failingStrategy always errors.
type failingStrategy struct{ name string }

func (f *failingStrategy) Name() string        { return f.name }
func (f *failingStrategy) Description() string { return "always fails" }
func (f *failingStrategy) Retrieve(ctx context.Context, q string) ([]types.RetrievalResult, error) {
	return nil, errors.New("boom")
}
