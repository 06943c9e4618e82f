// Package retrieval implements the three query strategies over the news
// knowledge graph and the router that dispatches a question to them.
//
// The strategies are polymorphic tools: pure content similarity (vector),
// similarity enriched with graph context (graph-expanded), and
// schema-grounded Cypher generation for aggregation and filter questions
// that vector search cannot answer. The router picks zero or more tools for
// a question, runs them, and merges their structured outputs; it never
// fabricates tool output.
package retrieval
