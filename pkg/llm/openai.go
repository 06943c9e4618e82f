package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/newsgraph/newsgraph/pkg/types"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the generation model used when none is configured.
// Temperature stays at zero so routing and Cypher translation are stable
// across repeated runs.
const (
	DefaultModel = "gpt-4o"
	maxRetries   = 2
)

// OpenAIClient implements Client against the OpenAI chat API or any
// compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	config *Config
	logger *slog.Logger
}

// NewOpenAIClient creates a generation client.
func NewOpenAIClient(config *Config, logger *slog.Logger) *OpenAIClient {
	if config == nil {
		config = &Config{}
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}
}

// Chat sends the messages and retries transient failures with quadratic
// backoff.
func (c *OpenAIClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    toOpenAIMessages(messages),
		Temperature: c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			c.logger.Warn("retrying generation request", "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if isRetriable(err) && attempt < maxRetries {
				continue
			}
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no choices returned from generation service")
		}

		response := &types.Response{
			Content:      resp.Choices[0].Message.Content,
			Model:        resp.Model,
			FinishReason: string(resp.Choices[0].FinishReason),
		}
		if resp.Usage.TotalTokens > 0 {
			response.TokensUsed = &types.TokenUsage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			}
		}
		return response, nil
	}
	return nil, fmt.Errorf("all retries exhausted: %w", lastErr)
}

// Close is a no-op for the HTTP-backed client.
func (c *OpenAIClient) Close() error {
	return nil
}

func toOpenAIMessages(messages []types.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		var role string
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// isRetriable reports whether an error is worth another attempt.
func isRetriable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, candidate := range []string{
		"rate limit",
		"rate_limit",
		"timeout",
		"connection",
		"internal server error",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
	} {
		if strings.Contains(msg, candidate) {
			return true
		}
	}
	return false
}

var _ Client = (*OpenAIClient)(nil)
