package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsgraph/newsgraph/pkg/types"
)

func seedFragments(t *testing.T, store *memStore) {
	t.Helper()
	err := store.UpsertFragments(context.Background(), "ART_1_1",
		[]string{"첫 번째 조각", "두 번째 조각", "세 번째 조각"},
		types.Article{ArticleID: "ART_1_1"})
	require.NoError(t, err)
}

func TestBackfillEmbedsPendingFragments(t *testing.T) {
	store := newMemStore()
	seedFragments(t, store)
	embed := &stubEmbedder{dims: 1536}

	stats, err := NewBackfiller(store, embed, "content_vector_index", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.BackfillStats{Pending: 3, Embedded: 3, Failed: 0}, stats)

	for _, fragment := range store.fragments {
		assert.Len(t, fragment.Embedding, 1536)
	}
	assert.Equal(t, 1536, store.indexes["content_vector_index"])
}

func TestBackfillOnlyTouchesUnembeddedFragments(t *testing.T) {
	store := newMemStore()
	seedFragments(t, store)
	require.NoError(t, store.SetFragmentEmbedding(context.Background(), "ART_1_1_chunk_0", make([]float32, 8)))

	embed := &stubEmbedder{}
	stats, err := NewBackfiller(store, embed, "content_vector_index", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 2, stats.Embedded)
	assert.NotContains(t, embed.embedded, "첫 번째 조각")
}

func TestBackfillSkipsFailedEmbeddings(t *testing.T) {
	store := newMemStore()
	seedFragments(t, store)
	embed := &stubEmbedder{failOn: map[string]bool{"두 번째 조각": true}}

	stats, err := NewBackfiller(store, embed, "content_vector_index", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 2, stats.Embedded)
	assert.Equal(t, 1, stats.Failed)

	// The failed fragment is picked up by the next pass.
	assert.Nil(t, store.fragments["ART_1_1_chunk_1"].Embedding)

	stats, err = NewBackfiller(store, &stubEmbedder{}, "content_vector_index", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.BackfillStats{Pending: 1, Embedded: 1, Failed: 0}, stats)
}

func TestBackfillNothingPending(t *testing.T) {
	store := newMemStore()
	stats, err := NewBackfiller(store, &stubEmbedder{}, "content_vector_index", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.BackfillStats{}, stats)
	// Index is still declared so search works on an embedded-elsewhere graph.
	assert.Contains(t, store.indexes, "content_vector_index")
}
