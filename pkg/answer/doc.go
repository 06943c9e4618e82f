// Package answer turns merged retrieval context into a grounded response.
//
// The synthesizer only references information present in the context,
// attributes every claim to an article's title and url, and emits either
// attributed prose or a fixed-shape structured document. Malformed
// generation output degrades to a raw-text fallback instead of an error.
package answer
