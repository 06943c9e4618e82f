// Package types contains the shared data structures for the newsgraph
// knowledge base: raw article records, graph node shapes, retrieval results,
// schema descriptions and the message types exchanged with language models.
package types
