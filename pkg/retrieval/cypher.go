package retrieval

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/llm"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// cypherExamples is the fixed, versioned few-shot table grounding the
// natural-language to Cypher translation. Question patterns cover the
// filter and aggregation shapes the graph supports.
var cypherExamples = []string{
	`USER INPUT: 경제 분야의 최신 뉴스 알려주세요
CYPHER QUERY:
MATCH (a:Article)-[:BELONGS_TO]->(c:Category {name: "경제"})
RETURN a.article_id, a.title, a.url, a.published_date
ORDER BY a.published_date DESC
LIMIT 10`,
	`USER INPUT: 매일경제에서 나온 최신 뉴스 3개 보여주세요
CYPHER QUERY:
MATCH (m:Media {name: "매일경제"})-[:PUBLISHED]->(a:Article)
RETURN a.article_id, a.title, a.url, a.published_date
ORDER BY a.published_date DESC
LIMIT 3`,
	`USER INPUT: 2025년 11월 1일 이후에 발행된 정치 관련 기사는 몇 개나 되나요?
CYPHER QUERY:
MATCH (a:Article)-[:BELONGS_TO]->(c:Category {name: "정치"})
WHERE a.published_date >= "2025-11-01"
RETURN count(a) as article_count`,
	`USER INPUT: 카테고리별 기사 개수를 알려주세요
CYPHER QUERY:
MATCH (a:Article)-[:BELONGS_TO]->(c:Category)
RETURN c.name as category, count(a) as article_count
ORDER BY article_count DESC`,
	`USER INPUT: 11월 2일에 발행된 기사 중 정치 분야는?
CYPHER QUERY:
MATCH (a:Article)-[:BELONGS_TO]->(c:Category {name: "정치"})
WHERE a.published_date STARTS WITH "2025-11-02"
RETURN a.article_id, a.title, a.url, a.published_date
ORDER BY a.published_date DESC`,
}

// CypherStrategy translates the question into a read-only Cypher query
// grounded on the live schema, executes it, and returns whatever rows the
// query produces. This path bypasses embeddings entirely.
type CypherStrategy struct {
	store graph.Store
	llm   llm.Client

	mu     sync.Mutex
	schema *types.Schema
}

// NewCypherStrategy builds the schema-driven strategy.
func NewCypherStrategy(store graph.Store, llmClient llm.Client) *CypherStrategy {
	return &CypherStrategy{store: store, llm: llmClient}
}

// Name implements Strategy.
func (s *CypherStrategy) Name() string { return "cypher_search" }

// Description implements Strategy.
func (s *CypherStrategy) Description() string {
	return "Structured graph query generated from the question. Use for entity or attribute filters and aggregations: articles by publisher or category, counts, date ranges, latest-N listings."
}

// Retrieve implements Strategy. Row order is whatever the generated query
// specifies.
func (s *CypherStrategy) Retrieve(ctx context.Context, question string) ([]types.RetrievalResult, error) {
	schema, err := s.liveSchema(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.llm.Chat(ctx, []types.Message{
		llm.NewSystemMessage(cypherSystemPrompt(schema)),
		llm.NewUserMessage(fmt.Sprintf("USER INPUT: %s\nCYPHER QUERY:", question)),
	})
	if err != nil {
		return nil, fmt.Errorf("cypher generation failed: %w", err)
	}

	cypher := CleanGeneratedCypher(resp.Content)
	rows, err := s.store.RunReadQuery(ctx, cypher)
	if err != nil {
		return nil, fmt.Errorf("generated query %q: %w", cypher, err)
	}

	results := make([]types.RetrievalResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, resultFromCypherRow(row))
	}
	return results, nil
}

// liveSchema fetches and caches the graph schema. The schema only changes
// when ingest introduces new labels, so one fetch per process is enough.
func (s *CypherStrategy) liveSchema(ctx context.Context) (*types.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schema != nil {
		return s.schema, nil
	}
	schema, err := s.store.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect schema: %w", err)
	}
	s.schema = schema
	return schema, nil
}

func cypherSystemPrompt(schema *types.Schema) string {
	var b strings.Builder
	b.WriteString("You translate user questions about a news knowledge graph into a single Cypher query.\n")
	b.WriteString("Only use the labels, properties and relationship patterns listed in the schema.\n")
	b.WriteString("Never generate write clauses. Respond with the Cypher query only, no explanation.\n\n")
	b.WriteString(schema.Text())
	b.WriteString("\nExamples:\n")
	for _, example := range cypherExamples {
		b.WriteString("\n")
		b.WriteString(example)
		b.WriteString("\n")
	}
	return b.String()
}

// CleanGeneratedCypher strips markdown code fences and the "CYPHER QUERY:"
// label models tend to echo back.
func CleanGeneratedCypher(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[:len(lines)-1]
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	text = strings.TrimPrefix(text, "CYPHER QUERY:")
	return strings.TrimSpace(text)
}

// resultFromCypherRow maps generated-query columns onto the result shape.
// Columns are matched on their trailing segment ("a.title" and "title" both
// land on Title); the full row is preserved in Raw for columns that do not
// map, such as aggregate counts.
func resultFromCypherRow(row map[string]any) types.RetrievalResult {
	result := types.RetrievalResult{Raw: row}
	for key, value := range row {
		text, isText := value.(string)
		segment := key
		if i := strings.LastIndex(key, "."); i >= 0 {
			segment = key[i+1:]
		}
		if !isText {
			continue
		}
		switch segment {
		case "article_id":
			result.ArticleID = text
		case "content_id":
			result.ContentID = text
		case "title":
			result.Title = text
		case "url":
			result.URL = text
		case "published_date", "date":
			result.PublishedDate = text
		case "category":
			result.Category = text
		case "media", "name":
			if result.Media == "" {
				result.Media = text
			}
		}
	}
	return result
}

var _ Strategy = (*CypherStrategy)(nil)
