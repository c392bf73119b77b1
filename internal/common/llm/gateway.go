// Package llm holds the language model gateways. A gateway turns a system
// instruction and a user message into generated text and nothing more;
// generation parameters are gateway configuration.
package llm

import (
	"context"
	"errors"
	"fmt"

	"dealer-assistant/internal/common/config"
)

var (
	ErrTransport     = errors.New("LLM_TRANSPORT_FAILED")
	ErrRateLimited   = errors.New("LLM_RATE_LIMITED")
	ErrTimeout       = errors.New("LLM_TIMEOUT")
	ErrEmptyResponse = errors.New("LLM_EMPTY_RESPONSE")
)

// Gateway completes one system/user message pair.
type Gateway interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Options are the generation parameters shared by every gateway.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// New builds the gateway selected by cfg.Provider.
func New(cfg config.LLMConfig) (Gateway, error) {
	opts := Options{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIGateway(cfg.APIKey, cfg.BaseURL, opts), nil
	case config.ProviderGenAI:
		return NewGenAIGateway(cfg.BaseURL, cfg.APIKey, opts), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// contextError maps a finished context to ErrTimeout. Both deadline and
// cancellation count; neither is retried.
func contextError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return nil
}
