package newsgraph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsgraph/newsgraph/pkg/answer"
	"github.com/newsgraph/newsgraph/pkg/embedder"
	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/ingest"
	"github.com/newsgraph/newsgraph/pkg/llm"
	"github.com/newsgraph/newsgraph/pkg/retrieval"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// Engine is the main interface for building and querying the news knowledge
// graph.
type Engine interface {
	// EnsureSchema declares the uniqueness constraints and the vector index.
	EnsureSchema(ctx context.Context) error

	// Ingest upserts a batch of article records into the graph.
	Ingest(ctx context.Context, records []types.ArticleRecord) (types.IngestStats, error)

	// IngestFile loads records from a CSV, JSONL or Parquet file and ingests
	// them.
	IngestFile(ctx context.Context, path string) (types.IngestStats, error)

	// Backfill embeds every fragment still missing a vector.
	Backfill(ctx context.Context) (types.BackfillStats, error)

	// Search answers a natural-language question from the graph.
	Search(ctx context.Context, question string, format answer.Format) (*answer.Response, error)

	// Reset destructively wipes the graph.
	Reset(ctx context.Context) error

	// VerifyConnectivity checks that the database is reachable.
	VerifyConnectivity(ctx context.Context) error

	// Close releases all connections.
	Close(ctx context.Context) error
}

// Config holds configuration for the Client.
type Config struct {
	// IndexName is the vector index name, content_vector_index by default.
	IndexName string
	// TopK bounds the vector strategies' result counts.
	TopK int
	// ChunkSize and Overlap control fragmenting; zero values use the
	// chunker defaults.
	ChunkSize int
	Overlap   int
	// ProgressEvery controls ingest/backfill progress logging.
	ProgressEvery int
	// Checkpoint, when set, lets ingest runs resume after interruption.
	Checkpoint ingest.Checkpoint
	// ToolTimeout bounds each retrieval strategy invocation.
	ToolTimeout time.Duration
}

// Client is the main implementation of the Engine interface.
type Client struct {
	store       graph.Store
	embedder    embedder.Client
	llm         llm.Client
	router      *retrieval.Router
	synthesizer *answer.Synthesizer
	config      *Config
	logger      *slog.Logger
}

// NewClient wires the store, embedding client and LLM into a full engine.
func NewClient(store graph.Store, embedderClient embedder.Client, llmClient llm.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if config == nil {
		config = &Config{}
	}
	if config.IndexName == "" {
		config.IndexName = "content_vector_index"
	}
	if config.TopK <= 0 {
		config.TopK = retrieval.DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}

	strategies := []retrieval.Strategy{
		retrieval.NewVectorStrategy(store, embedderClient, config.IndexName, config.TopK),
		retrieval.NewGraphExpandedStrategy(store, embedderClient, config.IndexName, config.TopK),
		retrieval.NewCypherStrategy(store, llmClient),
	}
	router := retrieval.NewRouter(strategies, retrieval.NewLLMSelector(llmClient), config.ToolTimeout, logger)

	return &Client{
		store:       store,
		embedder:    embedderClient,
		llm:         llmClient,
		router:      router,
		synthesizer: answer.NewSynthesizer(llmClient, logger),
		config:      config,
		logger:      logger,
	}, nil
}

// EnsureSchema declares constraints and the vector index up front so search
// works on an empty graph.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if err := c.store.EnsureConstraints(ctx); err != nil {
		return err
	}
	return c.store.EnsureVectorIndex(ctx, c.config.IndexName, c.embedder.Dimensions())
}

// Ingest upserts the batch through the pipeline.
func (c *Client) Ingest(ctx context.Context, records []types.ArticleRecord) (types.IngestStats, error) {
	pipeline, err := ingest.NewPipeline(c.store, ingest.Options{
		ChunkSize:     c.config.ChunkSize,
		Overlap:       c.config.Overlap,
		ProgressEvery: c.config.ProgressEvery,
		Checkpoint:    c.config.Checkpoint,
		Logger:        c.logger,
	})
	if err != nil {
		return types.IngestStats{}, err
	}
	return pipeline.Run(ctx, records)
}

// IngestFile loads and ingests one input file.
func (c *Client) IngestFile(ctx context.Context, path string) (types.IngestStats, error) {
	records, err := ingest.LoadRecords(path)
	if err != nil {
		return types.IngestStats{}, err
	}
	c.logger.Info("loaded article records", "path", path, "count", len(records))
	return c.Ingest(ctx, records)
}

// Backfill embeds pending fragments and ensures the vector index.
func (c *Client) Backfill(ctx context.Context) (types.BackfillStats, error) {
	return ingest.NewBackfiller(c.store, c.embedder, c.config.IndexName, c.logger).Run(ctx)
}

// Search routes the question across the retrieval strategies and synthesizes
// a grounded answer from whatever they returned.
func (c *Client) Search(ctx context.Context, question string, format answer.Format) (*answer.Response, error) {
	merged, err := c.router.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	c.logger.Info("retrieval complete", "tools", merged.Tools, "results", len(merged.Results))
	return c.synthesizer.Synthesize(ctx, merged, format)
}

// Reset wipes the graph. Nothing calls this implicitly.
func (c *Client) Reset(ctx context.Context) error {
	c.logger.Warn("resetting graph")
	return c.store.Reset(ctx)
}

// VerifyConnectivity checks the database connection.
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.store.VerifyConnectivity(ctx)
}

// Close releases the store, embedder and LLM resources.
func (c *Client) Close(ctx context.Context) error {
	var firstErr error
	if err := c.store.Close(ctx); err != nil {
		firstErr = err
	}
	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.llm != nil {
		if err := c.llm.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Engine = (*Client)(nil)
