package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apphttp "dealer-assistant/internal/common/http"
)

const generatePath = "/api/ai/generate"

// GenAIGateway talks to the in-house generation service.
type GenAIGateway struct {
	baseURL string
	client  *apphttp.Client
	opts    Options
}

func NewGenAIGateway(baseURL, apiKey string, opts Options) *GenAIGateway {
	client := apphttp.NewClient(0)
	if apiKey != "" {
		client.WithHeader("Authorization", "Bearer "+apiKey)
	}
	return &GenAIGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		opts:    opts,
	}
}

type generateRequest struct {
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (g *GenAIGateway) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.PostJSON(ctx, g.baseURL+generatePath, generateRequest{
		System:      system,
		Prompt:      user,
		Model:       g.opts.Model,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		if cerr := contextError(ctx); cerr != nil {
			return "", cerr
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if cerr := contextError(ctx); cerr != nil {
			return "", cerr
		}
		return "", fmt.Errorf("%w: decode error: %v", ErrTransport, err)
	}

	if strings.TrimSpace(out.Text) == "" {
		return "", ErrEmptyResponse
	}
	return out.Text, nil
}
