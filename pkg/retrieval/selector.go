package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/newsgraph/newsgraph/pkg/llm"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// Selector decides which of the named strategies apply to a question. It is
// a pure decision: (question, tool descriptions) -> selected names. A fake
// Selector substitutes deterministically in tests.
type Selector interface {
	Select(ctx context.Context, question string, tools []ToolInfo) ([]string, error)
}

// LLMSelector asks the generation service to pick tools by name.
type LLMSelector struct {
	llm llm.Client
}

// NewLLMSelector builds the default selector.
func NewLLMSelector(llmClient llm.Client) *LLMSelector {
	return &LLMSelector{llm: llmClient}
}

type toolSelection struct {
	Tools []string `json:"tools"`
}

// Select prompts with the tool catalog and parses a {"tools": [...]} reply.
// Unknown names are dropped; the caller decides what an empty selection
// means.
func (s *LLMSelector) Select(ctx context.Context, question string, tools []ToolInfo) ([]string, error) {
	var catalog strings.Builder
	for _, tool := range tools {
		fmt.Fprintf(&catalog, "- %s: %s\n", tool.Name, tool.Description)
	}

	system := "You route questions about a news knowledge base to retrieval tools.\n" +
		"Pick the tools whose description matches the question. Pick at least one and at most all of them.\n" +
		"Respond with JSON only, in the form {\"tools\": [\"name\", ...]}.\n\nAvailable tools:\n" + catalog.String()

	resp, err := s.llm.Chat(ctx, []types.Message{
		llm.NewSystemMessage(system),
		llm.NewUserMessage(question),
	})
	if err != nil {
		return nil, fmt.Errorf("tool selection failed: %w", err)
	}

	names, err := parseToolSelection(resp.Content)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(tools))
	for _, tool := range tools {
		known[tool.Name] = true
	}
	selected := make([]string, 0, len(names))
	for _, name := range names {
		if known[name] {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

// parseToolSelection decodes the selection reply, repairing sloppy JSON
// before giving up.
func parseToolSelection(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	var selection toolSelection
	if err := json.Unmarshal([]byte(text), &selection); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, fmt.Errorf("unparseable tool selection %q: %w", raw, err)
		}
		if err := json.Unmarshal([]byte(repaired), &selection); err != nil {
			return nil, fmt.Errorf("unparseable tool selection %q: %w", raw, err)
		}
	}
	return selection.Tools, nil
}

var _ Selector = (*LLMSelector)(nil)
