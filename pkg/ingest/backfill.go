package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsgraph/newsgraph/pkg/embedder"
	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// Backfiller embeds every fragment that does not yet carry a vector and
// then declares the vector index. Because it only ever selects unembedded
// fragments, re-running after an interruption embeds exactly the remainder.
type Backfiller struct {
	store         graph.Store
	embedder      embedder.Client
	indexName     string
	progressEvery int
	logger        *slog.Logger
}

// NewBackfiller wires the backfill pass over a store and an embedding client.
func NewBackfiller(store graph.Store, embedClient embedder.Client, indexName string, logger *slog.Logger) *Backfiller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backfiller{
		store:         store,
		embedder:      embedClient,
		indexName:     indexName,
		progressEvery: defaultProgressEvery,
		logger:        logger,
	}
}

// Run embeds pending fragments one at a time. A fragment that fails to embed
// or persist is logged and left unembedded for the next pass; only context
// cancellation aborts the loop. The vector index is ensured afterwards so
// search works as soon as vectors exist.
func (b *Backfiller) Run(ctx context.Context) (types.BackfillStats, error) {
	pending, err := b.store.FragmentsMissingEmbedding(ctx)
	if err != nil {
		return types.BackfillStats{}, fmt.Errorf("failed to list unembedded fragments: %w", err)
	}

	stats := types.BackfillStats{Pending: len(pending)}
	b.logger.Info("embedding backfill started", "pending", stats.Pending)

	for _, fragment := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		vector, err := b.embedder.EmbedSingle(ctx, fragment.Chunk)
		if err != nil {
			b.logger.Warn("embedding failed, leaving fragment for next pass",
				"content_id", fragment.ContentID, "error", err)
			stats.Failed++
			continue
		}
		if err := b.store.SetFragmentEmbedding(ctx, fragment.ContentID, vector); err != nil {
			b.logger.Warn("failed to persist embedding",
				"content_id", fragment.ContentID, "error", err)
			stats.Failed++
			continue
		}

		stats.Embedded++
		if stats.Embedded%b.progressEvery == 0 {
			b.logger.Info("backfill progress", "embedded", stats.Embedded, "pending", stats.Pending)
		}
	}

	if err := b.store.EnsureVectorIndex(ctx, b.indexName, b.embedder.Dimensions()); err != nil {
		return stats, fmt.Errorf("failed to ensure vector index: %w", err)
	}

	b.logger.Info("embedding backfill complete",
		"embedded", stats.Embedded, "failed", stats.Failed, "pending", stats.Pending)
	return stats, nil
}
