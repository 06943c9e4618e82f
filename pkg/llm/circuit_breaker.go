package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/newsgraph/newsgraph/pkg/types"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker guarding generation calls.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// CircuitBreakerClient wraps a Client so that a failing generation service
// trips open instead of being hammered by every in-flight query.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewCircuitBreakerClient wraps client with breaker settings. Zero-value
// fields get conservative defaults.
func NewCircuitBreakerClient(client Client, settings BreakerSettings, logger *slog.Logger) *CircuitBreakerClient {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.ReadyToTripRatio <= 0 {
		settings.ReadyToTripRatio = 0.6
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}

	st := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= settings.ReadyToTripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &CircuitBreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
	}
}

// Chat implements Client.
func (c *CircuitBreakerClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Response), nil
}

// Close implements Client.
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}

var _ Client = (*CircuitBreakerClient)(nil)
