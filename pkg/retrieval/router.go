package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/newsgraph/newsgraph/pkg/types"
)

// MergedContext is the combined output of the selected strategies, in
// selection order. Empty means no tool produced results, and the answer
// layer must say so instead of inventing content.
type MergedContext struct {
	Question string                  `json:"question"`
	Results  []types.RetrievalResult `json:"results"`
	Tools    []string                `json:"tools"`
}

// Router dispatches a question to zero or more strategies and merges their
// outputs. A failing strategy is excluded from the merged context; the
// remaining tools' results are still used.
type Router struct {
	strategies  []Strategy
	selector    Selector
	logger      *slog.Logger
	toolTimeout time.Duration
}

// NewRouter builds a router over the given strategies. toolTimeout bounds
// each strategy invocation; zero means no per-tool bound beyond the caller's
// context.
func NewRouter(strategies []Strategy, selector Selector, toolTimeout time.Duration, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		strategies:  strategies,
		selector:    selector,
		logger:      logger,
		toolTimeout: toolTimeout,
	}
}

// Tools returns the selection-facing catalog.
func (r *Router) Tools() []ToolInfo {
	tools := make([]ToolInfo, 0, len(r.strategies))
	for _, s := range r.strategies {
		tools = append(tools, ToolInfo{Name: s.Name(), Description: s.Description()})
	}
	return tools
}

// Retrieve selects and invokes strategies for the question. Selection
// failure or an empty selection falls back to the first strategy, so a
// question is never dropped on the routing step alone.
func (r *Router) Retrieve(ctx context.Context, question string) (*MergedContext, error) {
	if len(r.strategies) == 0 {
		return &MergedContext{Question: question}, nil
	}

	names, err := r.selector.Select(ctx, question, r.Tools())
	if err != nil {
		r.logger.Warn("tool selection failed, falling back to first strategy", "error", err)
		names = []string{r.strategies[0].Name()}
	}
	if len(names) == 0 {
		names = []string{r.strategies[0].Name()}
	}

	merged := &MergedContext{Question: question}
	for _, name := range names {
		strategy := r.strategyByName(name)
		if strategy == nil {
			continue
		}

		results, err := r.invoke(ctx, strategy, question)
		if err != nil {
			r.logger.Warn("retrieval tool failed", "tool", name, "error", err)
			continue
		}

		merged.Tools = append(merged.Tools, name)
		merged.Results = append(merged.Results, results...)
	}
	return merged, nil
}

func (r *Router) invoke(ctx context.Context, strategy Strategy, question string) ([]types.RetrievalResult, error) {
	if r.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.toolTimeout)
		defer cancel()
	}
	return strategy.Retrieve(ctx, question)
}

func (r *Router) strategyByName(name string) Strategy {
	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}
