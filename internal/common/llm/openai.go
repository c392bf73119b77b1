package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIGateway uses the chat completions API. Client retries are disabled;
// a failed turn falls back instead of retrying.
type OpenAIGateway struct {
	client *openai.Client
	opts   Options
}

func NewOpenAIGateway(apiKey, baseURL string, opts Options) *OpenAIGateway {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(reqOpts...)
	return &OpenAIGateway{client: &client, opts: opts}
}

func (g *OpenAIGateway) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: shared.ChatModel(g.opts.Model),
	}
	if g.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(g.opts.MaxTokens))
	}
	if g.opts.Temperature >= 0 {
		params.Temperature = openai.Float(g.opts.Temperature)
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAIError(ctx, err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func classifyOpenAIError(ctx context.Context, err error) error {
	if cerr := contextError(ctx); cerr != nil {
		return cerr
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
