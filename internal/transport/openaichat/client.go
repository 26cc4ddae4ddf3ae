// Package openaichat calls upstream chat-completion APIs through the
// OpenAI-compatible wire protocol. This is the only component that spends
// real money.
package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/spendgate/internal/domain"
	"github.com/kailas-cloud/spendgate/internal/metrics"
)

// ProviderConfig holds credentials for one upstream provider.
type ProviderConfig struct {
	APIKey  string
	BaseURL string // empty = library default (api.openai.com)
}

// Client routes chat completions to per-provider OpenAI-compatible clients.
type Client struct {
	clients map[string]*openai.Client
	logger  *zap.Logger
}

// New creates a chat client with one underlying connection per configured
// provider.
func New(providers map[string]ProviderConfig, logger *zap.Logger) *Client {
	clients := make(map[string]*openai.Client, len(providers))
	for name, pc := range providers {
		cfg := openai.DefaultConfig(pc.APIKey)
		if pc.BaseURL != "" {
			cfg.BaseURL = pc.BaseURL
		}
		clients[name] = openai.NewClientWithConfig(cfg)
	}
	return &Client{clients: clients, logger: logger}
}

// Complete performs exactly one chat completion against the named provider.
// The system message is omitted when empty. maxTokens caps the response.
func (c *Client) Complete(
	ctx context.Context, provider, model, system, prompt string, maxTokens int,
) (domain.CompletionResult, error) {
	client, ok := c.clients[provider]
	if !ok {
		return domain.CompletionResult{}, fmt.Errorf("no credentials configured for provider %q: %w",
			provider, domain.ErrUpstreamFailure)
	}

	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	start := time.Now()

	resp, err := client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		return domain.CompletionResult{}, parseAPIError(err)
	}

	metrics.UpstreamRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())

	var answer string
	if len(resp.Choices) > 0 {
		answer = resp.Choices[0].Message.Content
	}

	usage := domain.Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Reported:     resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0,
	}

	c.logger.Debug("upstream completion",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Duration("latency", duration),
		zap.Int("prompt_tokens", usage.InputTokens),
		zap.Int("completion_tokens", usage.OutputTokens),
	)

	return domain.CompletionResult{Answer: answer, Usage: usage}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint) on
// every configured provider.
func (c *Client) HealthCheck(ctx context.Context) error {
	for name, client := range c.clients {
		if _, err := client.ListModels(ctx); err != nil {
			return fmt.Errorf("provider %s: list models: %w", name, err)
		}
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrUpstreamFailure for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrUpstreamFailure

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
