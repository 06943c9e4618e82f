package retrieval

import (
	"context"
	"testing"

	"github.com/newsgraph/newsgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStrategyRanksByScoreWithStableTieBreak(t *testing.T) {
	store := &fakeStore{vectorResults: []types.RetrievalResult{
		{ContentID: "a_chunk_0", Score: 0.9},
		{ContentID: "b_chunk_0", Score: 0.7},
		{ContentID: "c_chunk_0", Score: 0.7},
		{ContentID: "d_chunk_0", Score: 0.95},
	}}
	s := NewVectorStrategy(store, &fakeEmbedder{}, "content_vector_index", 10)

	results, err := s.Retrieve(context.Background(), "금리 인상 전망")
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "d_chunk_0", results[0].ContentID)
	assert.Equal(t, "a_chunk_0", results[1].ContentID)
	// Equal scores keep their insertion order.
	assert.Equal(t, "b_chunk_0", results[2].ContentID)
	assert.Equal(t, "c_chunk_0", results[3].ContentID)
}

func TestVectorStrategyEmptyQuestion(t *testing.T) {
	s := NewVectorStrategy(&fakeStore{}, &fakeEmbedder{}, "idx", 10)
	results, err := s.Retrieve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorStrategyEmbeddingFailure(t *testing.T) {
	s := NewVectorStrategy(&fakeStore{}, &fakeEmbedder{err: assert.AnError}, "idx", 10)
	_, err := s.Retrieve(context.Background(), "question")
	assert.Error(t, err)
}

func TestGraphExpandedStrategyCarriesContext(t *testing.T) {
	store := &fakeStore{expandedResults: []types.RetrievalResult{
		{
			ContentID: "a_chunk_0",
			Category:  "경제",
			Media:     "매일경제",
			Score:     0.8,
			Related: []types.RelatedArticle{
				{ArticleID: "b", Title: "관련 기사"},
			},
		},
	}}
	s := NewGraphExpandedStrategy(store, &fakeEmbedder{}, "idx", 10)

	results, err := s.Retrieve(context.Background(), "반도체 수출")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "경제", results[0].Category)
	assert.Equal(t, "매일경제", results[0].Media)
	require.Len(t, results[0].Related, 1)
	assert.Equal(t, "b", results[0].Related[0].ArticleID)
}

func TestCypherStrategyExecutesGeneratedQuery(t *testing.T) {
	store := &fakeStore{rows: []map[string]any{
		{"a.article_id": "x1", "a.title": "기사 1", "a.url": "https://n/1", "a.published_date": "2025-11-03"},
		{"a.article_id": "x2", "a.title": "기사 2", "a.url": "https://n/2", "a.published_date": "2025-11-02"},
		{"a.article_id": "x3", "a.title": "기사 3", "a.url": "https://n/3", "a.published_date": "2025-11-01"},
	}}
	generated := "```cypher\nMATCH (m:Media {name: \"매일경제\"})-[:PUBLISHED]->(a:Article)\nRETURN a.article_id, a.title, a.url, a.published_date\nORDER BY a.published_date DESC\nLIMIT 3\n```"
	s := NewCypherStrategy(store, &fakeLLM{content: generated})

	results, err := s.Retrieve(context.Background(), "매일경제에서 나온 최신 뉴스 3개 보여주세요")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "x1", results[0].ArticleID)
	assert.Equal(t, "기사 1", results[0].Title)
	assert.Equal(t, "2025-11-03", results[0].PublishedDate)
	assert.Contains(t, store.lastCypher, "LIMIT 3")
	assert.NotContains(t, store.lastCypher, "```")
}

func TestCypherStrategyRejectsWriteQuery(t *testing.T) {
	store := &fakeStore{}
	s := NewCypherStrategy(store, &fakeLLM{content: "MATCH (n) DETACH DELETE n"})

	_, err := s.Retrieve(context.Background(), "전부 지워줘")
	require.Error(t, err)
	assert.Empty(t, store.lastCypher)
}

func TestCypherStrategyPreservesAggregateRows(t *testing.T) {
	store := &fakeStore{rows: []map[string]any{
		{"category": "정치", "article_count": int64(42)},
	}}
	s := NewCypherStrategy(store, &fakeLLM{content: "MATCH (a:Article)-[:BELONGS_TO]->(c:Category) RETURN c.name as category, count(a) as article_count"})

	results, err := s.Retrieve(context.Background(), "카테고리별 기사 개수")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "정치", results[0].Category)
	assert.Equal(t, int64(42), results[0].Raw["article_count"])
}

func TestCleanGeneratedCypher(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"MATCH (a) RETURN a", "MATCH (a) RETURN a"},
		{"```cypher\nMATCH (a) RETURN a\n```", "MATCH (a) RETURN a"},
		{"```\nMATCH (a) RETURN a\n```", "MATCH (a) RETURN a"},
		{"CYPHER QUERY:\nMATCH (a) RETURN a", "MATCH (a) RETURN a"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanGeneratedCypher(tc.in))
	}
}
