// Package newsgraph builds a knowledge graph from scraped news articles and
// answers questions over it with hybrid retrieval.
//
// Articles are chunked into overlapping fragments, merge-upserted into Neo4j
// alongside their publisher and category, and embedded in a backfill pass
// that feeds a cosine vector index. Questions are routed by an LLM across
// three retrieval strategies (pure vector, vector plus graph context, and
// schema-driven generated Cypher) and the merged context is synthesized into
// a grounded, source-attributed answer.
//
// The Client type ties the layers together; the packages under pkg/ are
// usable on their own.
package newsgraph
