package graph

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/newsgraph/newsgraph/pkg/types"
)

// ErrWriteClause is returned when a generated query contains a mutation.
var ErrWriteClause = errors.New("query contains a write clause")

var writeClausePattern = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|LOAD\s+CSV|FOREACH)\b`)

// ContentID builds the deterministic fragment identity from the owning
// article and the 0-based chunk position.
func ContentID(articleID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", articleID, index)
}

// ValidateReadOnly rejects Cypher that would mutate the graph. Generated
// queries run through this before execution; the structured strategy is a
// read path only.
func ValidateReadOnly(cypher string) error {
	if strings.TrimSpace(cypher) == "" {
		return errors.New("empty query")
	}
	if match := writeClausePattern.FindString(cypher); match != "" {
		return fmt.Errorf("%w: %s", ErrWriteClause, strings.ToUpper(strings.TrimSpace(match)))
	}
	return nil
}

// resultFromRow maps the named columns shared by the vector queries onto a
// RetrievalResult.
func resultFromRow(row map[string]any) types.RetrievalResult {
	return types.RetrievalResult{
		ContentID:     asString(row["content_id"]),
		Chunk:         asString(row["chunk"]),
		ArticleID:     asString(row["article_id"]),
		Title:         asString(row["title"]),
		URL:           asString(row["url"]),
		PublishedDate: asString(row["published_date"]),
		Category:      asString(row["category"]),
		Media:         asString(row["media"]),
		Score:         asFloat64(row["score"]),
	}
}

// relatedFromRow decodes the collect(...) list of related-article maps.
// Entries with no article_id are artifacts of the OPTIONAL MATCH and are
// dropped.
func relatedFromRow(value any) []types.RelatedArticle {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var related []types.RelatedArticle
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := types.RelatedArticle{
			ArticleID:     asString(m["article_id"]),
			Title:         asString(m["title"]),
			URL:           asString(m["url"]),
			PublishedDate: asString(m["published_date"]),
		}
		if r.ArticleID == "" {
			continue
		}
		related = append(related, r)
	}
	return related
}

// cleanNodeType strips the ":`Label`" decoration that
// db.schema.nodeTypeProperties returns.
func cleanNodeType(nodeType string) string {
	return strings.Trim(nodeType, ":`")
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}

func asInt64(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func asFloat64(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func asStringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
