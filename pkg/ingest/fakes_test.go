package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// memStore mimics the merge semantics of the real store: every upsert is
// keyed on the natural id, so repeating a batch never grows the graph.
type memStore struct {
	articles   map[string]types.Article
	fragments  map[string]*types.Fragment
	media      map[string]map[string]bool
	categories map[string]map[string]bool
	indexes    map[string]int

	constraintCalls int
	resetCalls      int

	failArticle map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		articles:    make(map[string]types.Article),
		fragments:   make(map[string]*types.Fragment),
		media:       make(map[string]map[string]bool),
		categories:  make(map[string]map[string]bool),
		indexes:     make(map[string]int),
		failArticle: make(map[string]error),
	}
}

func (m *memStore) EnsureConstraints(ctx context.Context) error {
	m.constraintCalls++
	return nil
}

func (m *memStore) EnsureVectorIndex(ctx context.Context, name string, dimensions int) error {
	m.indexes[name] = dimensions
	return nil
}

func (m *memStore) Reset(ctx context.Context) error {
	m.resetCalls++
	m.articles = make(map[string]types.Article)
	m.fragments = make(map[string]*types.Fragment)
	m.media = make(map[string]map[string]bool)
	m.categories = make(map[string]map[string]bool)
	return nil
}

func (m *memStore) UpsertArticle(ctx context.Context, article types.Article) error {
	if err := m.failArticle[article.ArticleID]; err != nil {
		return err
	}
	m.articles[article.ArticleID] = article
	return nil
}

func (m *memStore) UpsertFragments(ctx context.Context, articleID string, chunks []string, meta types.Article) error {
	for i, chunk := range chunks {
		contentID := graph.ContentID(articleID, i)
		if existing, ok := m.fragments[contentID]; ok {
			existing.Chunk = chunk
			continue
		}
		m.fragments[contentID] = &types.Fragment{
			ContentID:  contentID,
			ArticleID:  articleID,
			Chunk:      chunk,
			ChunkIndex: i,
		}
	}
	return nil
}

func (m *memStore) UpsertMedia(ctx context.Context, articleID, name string) error {
	if name == "" {
		return nil
	}
	if m.media[name] == nil {
		m.media[name] = make(map[string]bool)
	}
	m.media[name][articleID] = true
	return nil
}

func (m *memStore) UpsertCategory(ctx context.Context, articleID, name string) error {
	if name == "" {
		return nil
	}
	if m.categories[name] == nil {
		m.categories[name] = make(map[string]bool)
	}
	m.categories[name][articleID] = true
	return nil
}

func (m *memStore) FragmentsMissingEmbedding(ctx context.Context) ([]types.Fragment, error) {
	var pending []types.Fragment
	for _, fragment := range m.fragments {
		if fragment.Embedding == nil {
			pending = append(pending, *fragment)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ContentID < pending[j].ContentID })
	return pending, nil
}

func (m *memStore) SetFragmentEmbedding(ctx context.Context, contentID string, embedding []float32) error {
	fragment, ok := m.fragments[contentID]
	if !ok {
		return fmt.Errorf("no such fragment: %s", contentID)
	}
	fragment.Embedding = embedding
	return nil
}

func (m *memStore) VectorSearch(ctx context.Context, index string, vector []float32, topK int) ([]types.RetrievalResult, error) {
	return nil, nil
}

func (m *memStore) VectorSearchWithContext(ctx context.Context, index string, vector []float32, topK int) ([]types.RetrievalResult, error) {
	return nil, nil
}

func (m *memStore) Schema(ctx context.Context) (*types.Schema, error) {
	return &types.Schema{}, nil
}

func (m *memStore) RunReadQuery(ctx context.Context, cypher string) ([]map[string]any, error) {
	return nil, nil
}

func (m *memStore) VerifyConnectivity(ctx context.Context) error { return nil }

func (m *memStore) Close(ctx context.Context) error { return nil }

var _ graph.Store = (*memStore)(nil)

// memCheckpoint is an in-memory Checkpoint.
type memCheckpoint struct {
	seen map[string]bool
}

func newMemCheckpoint() *memCheckpoint {
	return &memCheckpoint{seen: make(map[string]bool)}
}

func (c *memCheckpoint) Seen(articleID string) (bool, error) {
	return c.seen[articleID], nil
}

func (c *memCheckpoint) Mark(articleID string) error {
	c.seen[articleID] = true
	return nil
}

// stubEmbedder returns fixed-size vectors and can fail on chosen inputs.
type stubEmbedder struct {
	dims     int
	failOn   map[string]bool
	embedded []string
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := e.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func (e *stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if e.failOn[text] {
		return nil, fmt.Errorf("embedding refused for %q", text)
	}
	e.embedded = append(e.embedded, text)
	return make([]float32, e.dimensions()), nil
}

func (e *stubEmbedder) Dimensions() int { return e.dimensions() }

func (e *stubEmbedder) Close() error { return nil }

func (e *stubEmbedder) dimensions() int {
	if e.dims == 0 {
		return 8
	}
	return e.dims
}
