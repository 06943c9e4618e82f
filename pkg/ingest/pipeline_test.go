package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsgraph/newsgraph/pkg/chunker"
	"github.com/newsgraph/newsgraph/pkg/types"
)

func sampleRecords() []types.ArticleRecord {
	return []types.ArticleRecord{
		{
			ArticleID:     "ART_009_0005421367",
			Source:        "매일경제",
			Title:         "반도체 수출 호조",
			Content:       strings.Repeat("가", 1200),
			URL:           "https://n.news.naver.com/mnews/article/009/0005421367",
			PublishedDate: "2025-11-03 09:12",
			Category:      "경제",
		},
		{
			ArticleID:     "ART_001_0000000001",
			Source:        "연합뉴스",
			Title:         "국회 본회의 개최",
			Content:       strings.Repeat("나", 300),
			URL:           "https://n.news.naver.com/mnews/article/001/0000000001",
			PublishedDate: "2025-11-03 10:00",
			Category:      "정치",
		},
	}
}

func newTestPipeline(t *testing.T, store *memStore, opts Options) *Pipeline {
	t.Helper()
	p, err := NewPipeline(store, opts)
	require.NoError(t, err)
	return p
}

func TestPipelineBuildsFragmentsAndEdges(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, Options{})

	stats, err := p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 0, stats.Skipped)
	// 1200 runes at size 500 / overlap 50 -> windows at 0, 450, 900.
	assert.Equal(t, 4, stats.Fragments)

	require.Contains(t, store.fragments, "ART_009_0005421367_chunk_0")
	require.Contains(t, store.fragments, "ART_009_0005421367_chunk_1")
	require.Contains(t, store.fragments, "ART_009_0005421367_chunk_2")
	assert.NotContains(t, store.fragments, "ART_009_0005421367_chunk_3")
	assert.Len(t, []rune(store.fragments["ART_009_0005421367_chunk_2"].Chunk), 300)

	assert.True(t, store.media["매일경제"]["ART_009_0005421367"])
	assert.True(t, store.categories["경제"]["ART_009_0005421367"])
	assert.True(t, store.categories["정치"]["ART_001_0000000001"])
	assert.Equal(t, 1, store.constraintCalls)
}

func TestPipelineIsIdempotent(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, Options{})

	_, err := p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)

	articles := len(store.articles)
	fragments := len(store.fragments)

	// Same batch again: identical graph, no duplicates.
	stats, err := p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, articles, len(store.articles))
	assert.Equal(t, fragments, len(store.fragments))
	assert.Len(t, store.media["매일경제"], 1)
}

func TestPipelineSkipsFailingRowAndContinues(t *testing.T) {
	store := newMemStore()
	store.failArticle["ART_009_0005421367"] = assert.AnError
	p := newTestPipeline(t, store, Options{})

	stats, err := p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Contains(t, store.articles, "ART_001_0000000001")
	assert.NotContains(t, store.articles, "ART_009_0005421367")
}

func TestPipelineSkipsEmptyRecord(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, Options{})

	stats, err := p.Run(context.Background(), []types.ArticleRecord{
		{ArticleID: "ART_1_1", URL: "https://n/empty"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Succeeded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Empty(t, store.articles)
}

func TestPipelineDerivesMissingArticleID(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, Options{})

	_, err := p.Run(context.Background(), []types.ArticleRecord{{
		Title:   "제목",
		Content: "본문",
		URL:     "https://n.news.naver.com/mnews/article/023/0003881234",
	}})
	require.NoError(t, err)
	assert.Contains(t, store.articles, "ART_023_0003881234")
}

func TestPipelineCheckpointSkipsFinishedArticles(t *testing.T) {
	store := newMemStore()
	cp := newMemCheckpoint()
	p := newTestPipeline(t, store, Options{Checkpoint: cp})

	stats, err := p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Succeeded)
	assert.True(t, cp.seen["ART_009_0005421367"])

	stats, err = p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Succeeded)
	assert.Equal(t, 2, stats.Skipped)
}

func TestPipelineResetWipesBeforeIngest(t *testing.T) {
	store := newMemStore()
	store.articles["ART_stale_1"] = types.Article{ArticleID: "ART_stale_1"}
	p := newTestPipeline(t, store, Options{Reset: true})

	_, err := p.Run(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 1, store.resetCalls)
	assert.NotContains(t, store.articles, "ART_stale_1")
	assert.Len(t, store.articles, 2)
}

func TestPipelineStopsOnCancelledContext(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, sampleRecords())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPipelineRejectsInvalidChunking(t *testing.T) {
	_, err := NewPipeline(newMemStore(), Options{ChunkSize: 100, Overlap: 100})
	assert.ErrorIs(t, err, chunker.ErrInvalidChunking)

	_, err = NewPipeline(newMemStore(), Options{ChunkSize: -1})
	assert.ErrorIs(t, err, chunker.ErrInvalidChunking)
}

func TestDeriveArticleID(t *testing.T) {
	now := time.Date(2025, 11, 3, 9, 15, 30, 0, time.UTC)

	id := DeriveArticleID("https://n.news.naver.com/mnews/article/009/0005421367?sid=101", now)
	assert.Equal(t, "ART_009_0005421367", id)

	// No recognizable numbers: timestamp fallback.
	id = DeriveArticleID("https://example.com/news/today", now)
	assert.Equal(t, "ART_20251103091530", id)
}
