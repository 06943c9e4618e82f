// Package ingest turns scraped article records into the knowledge graph.
//
// The pipeline is strictly idempotent: every node and relationship is
// merge-created on its natural key, so re-running the same batch leaves
// the graph unchanged. Rows that fail validation or hit a transient write
// error are skipped with a logged identifier; one bad row never aborts
// the batch. The backfill pass embeds fragments that still lack vectors,
// so an interrupted run resumes exactly where it stopped.
package ingest
