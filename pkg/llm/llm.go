// Package llm wraps the external generation service used for tool selection,
// Cypher translation and answer synthesis.
package llm

import (
	"context"

	"github.com/newsgraph/newsgraph/pkg/types"
)

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// Client is the generation contract. Implementations must honor context
// cancellation: a timed-out call surfaces as an error, never a hang.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, messages []types.Message) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

// Config holds settings for generation clients.
type Config struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) types.Message {
	return types.Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) types.Message {
	return types.Message{Role: RoleUser, Content: content}
}
