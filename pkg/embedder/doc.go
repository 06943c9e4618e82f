// Package embedder turns text into fixed-dimension vectors via an external
// embedding service. The same client embeds fragments at ingest time and
// questions at query time, so both sides of the similarity search live in
// one vector space.
package embedder
