package retrieval

import (
	"context"

	"github.com/newsgraph/newsgraph/pkg/types"
)

// DefaultTopK is the number of fragments the vector-backed strategies ask
// the index for.
const DefaultTopK = 10

// Strategy is a named, independently invokable retrieval procedure with a
// declared applicability description. The router decides per question which
// strategies run.
type Strategy interface {
	// Name identifies the strategy to the router and in logs.
	Name() string

	// Description tells the selection step when this strategy applies.
	Description() string

	// Retrieve answers the question with a ranked list of structured results.
	Retrieve(ctx context.Context, question string) ([]types.RetrievalResult, error)
}

// ToolInfo is the selection-facing view of a strategy.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
