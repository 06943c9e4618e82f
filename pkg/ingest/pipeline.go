package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsgraph/newsgraph/pkg/chunker"
	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// defaultProgressEvery is how many succeeded articles pass between progress
// log lines.
const defaultProgressEvery = 10

// Checkpoint records which article ids already completed ingestion so a
// resumed run can skip them. Implementations must tolerate repeated Marks.
type Checkpoint interface {
	Seen(articleID string) (bool, error)
	Mark(articleID string) error
}

// Options configures a Pipeline. Zero values fall back to the chunking
// defaults and a progress interval of ten articles.
type Options struct {
	ChunkSize     int
	Overlap       int
	ProgressEvery int

	// Reset wipes the graph before ingesting. Off by default; this is the
	// only path that ever deletes data.
	Reset bool

	// Checkpoint, when set, lets the pipeline skip articles a previous run
	// already finished.
	Checkpoint Checkpoint

	Logger *slog.Logger
}

// Pipeline ingests article records into the graph store.
type Pipeline struct {
	store         graph.Store
	chunkSize     int
	overlap       int
	progressEvery int
	reset         bool
	checkpoint    Checkpoint
	logger        *slog.Logger
}

// NewPipeline validates the chunking parameters up front so a bad
// configuration fails before any row is touched.
func NewPipeline(store graph.Store, opts Options) (*Pipeline, error) {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = chunker.DefaultChunkSize
	}
	if opts.Overlap == 0 && opts.ChunkSize == chunker.DefaultChunkSize {
		opts.Overlap = chunker.DefaultOverlap
	}
	if opts.ChunkSize <= 0 || opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", chunker.ErrInvalidChunking, opts.ChunkSize, opts.Overlap)
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaultProgressEvery
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		store:         store,
		chunkSize:     opts.ChunkSize,
		overlap:       opts.Overlap,
		progressEvery: opts.ProgressEvery,
		reset:         opts.Reset,
		checkpoint:    opts.Checkpoint,
		logger:        opts.Logger,
	}, nil
}

// Run ingests the batch. Constraints are declared first, then each record is
// upserted independently: a failing row is logged and skipped, never fatal.
// Only a cancelled context aborts the batch early.
func (p *Pipeline) Run(ctx context.Context, records []types.ArticleRecord) (types.IngestStats, error) {
	stats := types.IngestStats{Total: len(records)}

	if p.reset {
		p.logger.Warn("resetting graph before ingest")
		if err := p.store.Reset(ctx); err != nil {
			return stats, fmt.Errorf("graph reset failed: %w", err)
		}
	}
	if err := p.store.EnsureConstraints(ctx); err != nil {
		return stats, fmt.Errorf("failed to ensure constraints: %w", err)
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		articleID := record.ArticleID
		if articleID == "" {
			articleID = DeriveArticleID(record.URL, time.Now())
		}

		if record.Title == "" && record.Content == "" {
			p.logger.Warn("skipping empty record", "article_id", articleID, "url", record.URL)
			stats.Skipped++
			continue
		}

		if p.checkpoint != nil {
			seen, err := p.checkpoint.Seen(articleID)
			if err != nil {
				return stats, fmt.Errorf("checkpoint lookup failed: %w", err)
			}
			if seen {
				stats.Skipped++
				continue
			}
		}

		fragments, err := p.ingestOne(ctx, articleID, record)
		if err != nil {
			p.logger.Warn("skipping record after ingest failure", "article_id", articleID, "error", err)
			stats.Skipped++
			continue
		}

		if p.checkpoint != nil {
			if err := p.checkpoint.Mark(articleID); err != nil {
				return stats, fmt.Errorf("checkpoint write failed: %w", err)
			}
		}

		stats.Succeeded++
		stats.Fragments += fragments
		if stats.Succeeded%p.progressEvery == 0 {
			p.logger.Info("ingest progress",
				"succeeded", stats.Succeeded,
				"skipped", stats.Skipped,
				"total", stats.Total,
				"fragments", stats.Fragments)
		}
	}

	p.logger.Info("ingest complete",
		"succeeded", stats.Succeeded,
		"skipped", stats.Skipped,
		"total", stats.Total,
		"fragments", stats.Fragments)
	return stats, nil
}

// ingestOne upserts one article with all of its graph structure. Partial
// failure leaves merge-created nodes behind, which the next run converges.
func (p *Pipeline) ingestOne(ctx context.Context, articleID string, record types.ArticleRecord) (int, error) {
	article := types.Article{
		ArticleID:     articleID,
		Title:         record.Title,
		URL:           record.URL,
		PublishedDate: record.PublishedDate,
	}
	if err := p.store.UpsertArticle(ctx, article); err != nil {
		return 0, fmt.Errorf("article upsert: %w", err)
	}

	chunks, err := chunker.Chunk(record.Content, p.chunkSize, p.overlap)
	if err != nil {
		return 0, fmt.Errorf("chunking: %w", err)
	}
	if err := p.store.UpsertFragments(ctx, articleID, chunks, article); err != nil {
		return 0, fmt.Errorf("fragment upsert: %w", err)
	}

	if err := p.store.UpsertMedia(ctx, articleID, record.Source); err != nil {
		return 0, fmt.Errorf("media upsert: %w", err)
	}
	if err := p.store.UpsertCategory(ctx, articleID, record.Category); err != nil {
		return 0, fmt.Errorf("category upsert: %w", err)
	}
	return len(chunks), nil
}
