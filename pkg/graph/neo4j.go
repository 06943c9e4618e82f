package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// relatedArticleLimit caps the contextual neighbors attached to each
// graph-expanded hit.
const relatedArticleLimit = 5

// Neo4jStore implements Store against a Neo4j database. Each logical
// operation opens its own session and runs inside a managed transaction.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to Neo4j with basic auth. The database defaults to
// "neo4j" when empty.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database}, nil
}

func (s *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

// EnsureConstraints declares the uniqueness constraints for all four node
// labels. IF NOT EXISTS makes re-declaration a no-op.
func (s *Neo4jStore) EnsureConstraints(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (a:Article) REQUIRE a.article_id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (c:Content) REQUIRE c.content_id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (m:Media) REQUIRE m.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (cat:Category) REQUIRE cat.name IS UNIQUE",
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, constraint := range constraints {
			if _, err := tx.Run(ctx, constraint, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure constraints: %w", err)
	}
	return nil
}

// EnsureVectorIndex declares the cosine vector index over Content.embedding.
// Index names and options cannot be parameterized, so the statement is built
// with Sprintf from trusted configuration values.
func (s *Neo4jStore) EnsureVectorIndex(ctx context.Context, name string, dimensions int) error {
	query := fmt.Sprintf(`
		CREATE VECTOR INDEX %s IF NOT EXISTS
		FOR (c:Content) ON (c.embedding)
		OPTIONS {indexConfig: {
			`+"`vector.dimensions`"+`: %d,
			`+"`vector.similarity_function`"+`: 'cosine'
		}}`, name, dimensions)

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, nil)
	})
	if err != nil {
		return fmt.Errorf("failed to ensure vector index %q: %w", name, err)
	}
	return nil
}

// Reset removes every node and relationship in the database.
func (s *Neo4jStore) Reset(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	if err != nil {
		return fmt.Errorf("failed to reset graph: %w", err)
	}
	return nil
}

// UpsertArticle merges the Article node and overwrites its attributes,
// last write wins.
func (s *Neo4jStore) UpsertArticle(ctx context.Context, article types.Article) error {
	if article.ArticleID == "" {
		return fmt.Errorf("article is missing article_id")
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (a:Article {article_id: $article_id})
			SET a.title = $title,
			    a.url = $url,
			    a.published_date = $published_date`
		return tx.Run(ctx, query, map[string]any{
			"article_id":     article.ArticleID,
			"title":          article.Title,
			"url":            article.URL,
			"published_date": article.PublishedDate,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", article.ArticleID, err)
	}
	return nil
}

// UpsertFragments merges one Content node per chunk plus its HAS_CHUNK edge,
// all within a single transaction so the article's fragments commit
// atomically.
func (s *Neo4jStore) UpsertFragments(ctx context.Context, articleID string, chunks []string, meta types.Article) error {
	if len(chunks) == 0 {
		return nil
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i, chunk := range chunks {
			contentID := ContentID(articleID, i)

			nodeQuery := `
				MERGE (c:Content {content_id: $content_id})
				SET c.chunk = $chunk,
				    c.article_id = $article_id,
				    c.title = $title,
				    c.url = $url,
				    c.published_date = $published_date,
				    c.chunk_index = $chunk_index`
			if _, err := tx.Run(ctx, nodeQuery, map[string]any{
				"content_id":     contentID,
				"chunk":          chunk,
				"article_id":     articleID,
				"title":          meta.Title,
				"url":            meta.URL,
				"published_date": meta.PublishedDate,
				"chunk_index":    i,
			}); err != nil {
				return nil, err
			}

			edgeQuery := `
				MATCH (a:Article {article_id: $article_id})
				MATCH (c:Content {content_id: $content_id})
				MERGE (a)-[:HAS_CHUNK]->(c)`
			if _, err := tx.Run(ctx, edgeQuery, map[string]any{
				"article_id": articleID,
				"content_id": contentID,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert fragments for article %s: %w", articleID, err)
	}
	return nil
}

// UpsertMedia merges the publisher node and its PUBLISHED edge.
func (s *Neo4jStore) UpsertMedia(ctx context.Context, articleID, name string) error {
	if name == "" {
		return nil
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MERGE (m:Media {name: $name})", map[string]any{"name": name}); err != nil {
			return nil, err
		}
		query := `
			MATCH (a:Article {article_id: $article_id})
			MATCH (m:Media {name: $name})
			MERGE (m)-[:PUBLISHED]->(a)`
		return tx.Run(ctx, query, map[string]any{"article_id": articleID, "name": name})
	})
	if err != nil {
		return fmt.Errorf("failed to upsert media %q for article %s: %w", name, articleID, err)
	}
	return nil
}

// UpsertCategory merges the category node and the BELONGS_TO edge.
func (s *Neo4jStore) UpsertCategory(ctx context.Context, articleID, name string) error {
	if name == "" {
		return nil
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MERGE (cat:Category {name: $name})", map[string]any{"name": name}); err != nil {
			return nil, err
		}
		query := `
			MATCH (a:Article {article_id: $article_id})
			MATCH (cat:Category {name: $name})
			MERGE (a)-[:BELONGS_TO]->(cat)`
		return tx.Run(ctx, query, map[string]any{"article_id": articleID, "name": name})
	})
	if err != nil {
		return fmt.Errorf("failed to upsert category %q for article %s: %w", name, articleID, err)
	}
	return nil
}

// FragmentsMissingEmbedding returns every Content node without an embedding.
func (s *Neo4jStore) FragmentsMissingEmbedding(ctx context.Context) ([]types.Fragment, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (c:Content)
			WHERE c.embedding IS NULL
			RETURN c.content_id AS content_id,
			       c.article_id AS article_id,
			       c.chunk AS chunk,
			       c.chunk_index AS chunk_index`
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query fragments without embedding: %w", err)
	}

	records := result.([]*neo4j.Record)
	fragments := make([]types.Fragment, 0, len(records))
	for _, record := range records {
		row := record.AsMap()
		fragments = append(fragments, types.Fragment{
			ContentID:  asString(row["content_id"]),
			ArticleID:  asString(row["article_id"]),
			Chunk:      asString(row["chunk"]),
			ChunkIndex: int(asInt64(row["chunk_index"])),
		})
	}
	return fragments, nil
}

// SetFragmentEmbedding persists the vector onto the fragment by identity.
func (s *Neo4jStore) SetFragmentEmbedding(ctx context.Context, contentID string, embedding []float32) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (c:Content {content_id: $content_id})
			SET c.embedding = $embedding`
		return tx.Run(ctx, query, map[string]any{
			"content_id": contentID,
			"embedding":  embedding,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to set embedding on %s: %w", contentID, err)
	}
	return nil
}

// VectorSearch runs a nearest-neighbor query against the vector index.
// Results come back ordered by similarity score descending.
func (s *Neo4jStore) VectorSearch(ctx context.Context, index string, vector []float32, topK int) ([]types.RetrievalResult, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			CALL db.index.vector.queryNodes($index, $k, $vector)
			YIELD node, score
			RETURN node.content_id AS content_id,
			       node.chunk AS chunk,
			       node.article_id AS article_id,
			       node.title AS title,
			       node.url AS url,
			       node.published_date AS published_date,
			       score`
		res, err := tx.Run(ctx, query, map[string]any{
			"index":  index,
			"k":      topK,
			"vector": vector,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	records := result.([]*neo4j.Record)
	results := make([]types.RetrievalResult, 0, len(records))
	for _, record := range records {
		results = append(results, resultFromRow(record.AsMap()))
	}
	return results, nil
}

// VectorSearchWithContext seeds with the vector index, then walks
// fragment -> Article -> Category/Media and collects up to five sibling
// articles per hit.
func (s *Neo4jStore) VectorSearchWithContext(ctx context.Context, index string, vector []float32, topK int) ([]types.RetrievalResult, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			CALL db.index.vector.queryNodes($index, $k, $vector)
			YIELD node, score
			WITH node AS content, score
			MATCH (content)<-[:HAS_CHUNK]-(article:Article)
			OPTIONAL MATCH (article)-[:BELONGS_TO]->(category:Category)
			OPTIONAL MATCH (media:Media)-[:PUBLISHED]->(article)
			OPTIONAL MATCH (category)<-[:BELONGS_TO]-(related:Article)
			WHERE related <> article
			RETURN content.content_id AS content_id,
			       content.chunk AS chunk,
			       article.article_id AS article_id,
			       article.title AS title,
			       article.url AS url,
			       article.published_date AS published_date,
			       category.name AS category,
			       media.name AS media,
			       score,
			       collect(DISTINCT {
			           article_id: related.article_id,
			           title: related.title,
			           url: related.url,
			           published_date: related.published_date
			       })[0..%d] AS related_articles`, relatedArticleLimit)
		res, err := tx.Run(ctx, query, map[string]any{
			"index":  index,
			"k":      topK,
			"vector": vector,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("graph-expanded vector search failed: %w", err)
	}

	records := result.([]*neo4j.Record)
	results := make([]types.RetrievalResult, 0, len(records))
	for _, record := range records {
		row := record.AsMap()
		r := resultFromRow(row)
		r.Related = relatedFromRow(row["related_articles"])
		results = append(results, r)
	}
	return results, nil
}

// Schema introspects the live labels, properties and relationship patterns.
func (s *Neo4jStore) Schema(ctx context.Context) (*types.Schema, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		nodeQuery := `
			CALL db.schema.nodeTypeProperties()
			YIELD nodeType, propertyName
			RETURN nodeType, collect(propertyName) AS properties`
		nodeRes, err := tx.Run(ctx, nodeQuery, nil)
		if err != nil {
			return nil, err
		}
		nodeRecords, err := nodeRes.Collect(ctx)
		if err != nil {
			return nil, err
		}

		patternQuery := `
			MATCH (n)-[r]->(m)
			RETURN DISTINCT labels(n)[0] AS source, type(r) AS relationship, labels(m)[0] AS target
			LIMIT 20`
		patternRes, err := tx.Run(ctx, patternQuery, nil)
		if err != nil {
			return nil, err
		}
		patternRecords, err := patternRes.Collect(ctx)
		if err != nil {
			return nil, err
		}

		return [2][]*neo4j.Record{nodeRecords, patternRecords}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("schema introspection failed: %w", err)
	}

	records := result.([2][]*neo4j.Record)
	schema := &types.Schema{}
	for _, record := range records[0] {
		row := record.AsMap()
		schema.NodeTypes = append(schema.NodeTypes, types.NodeTypeInfo{
			Label:      cleanNodeType(asString(row["nodeType"])),
			Properties: asStringSlice(row["properties"]),
		})
	}
	for _, record := range records[1] {
		row := record.AsMap()
		schema.Patterns = append(schema.Patterns, types.RelPattern{
			Source:       asString(row["source"]),
			Relationship: asString(row["relationship"]),
			Target:       asString(row["target"]),
		})
	}
	return schema, nil
}

// RunReadQuery executes generated Cypher after rejecting write clauses.
// Row order is whatever the query specifies; no re-sorting is imposed.
func (s *Neo4jStore) RunReadQuery(ctx context.Context, cypher string) ([]map[string]any, error) {
	if err := ValidateReadOnly(cypher); err != nil {
		return nil, err
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("read query failed: %w", err)
	}

	records := result.([]*neo4j.Record)
	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

// VerifyConnectivity checks the database is reachable.
func (s *Neo4jStore) VerifyConnectivity(ctx context.Context) error {
	return s.client.VerifyConnectivity(ctx)
}

// Close releases the connection pool.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

var _ Store = (*Neo4jStore)(nil)
