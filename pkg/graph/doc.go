// Package graph is the upsert and query layer over the news knowledge graph.
//
// It translates article records into idempotent MERGE-based mutations on
// Article, Content, Media and Category nodes, maintains the uniqueness
// constraints and the vector index over Content.embedding, and exposes the
// read paths the retrieval strategies depend on: nearest-neighbor search,
// category-expanded search, schema introspection and guarded read-only
// Cypher execution.
package graph
