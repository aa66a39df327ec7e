// Package llm wraps the generative-language model used by the
// classification flow. The wire protocol is the OpenAI-compatible chat
// surface exposed by the Gemini API, so the same client serves any
// compatible endpoint (including a local stub in tests).
//
// Design notes:
//   - One prompt in, raw text out; parsing is the caller's concern.
//   - Every call carries an explicit timeout; upstream failures propagate
//     immediately (no retries anywhere in the pipeline).
//   - A process-wide token bucket throttles outbound calls as a cost
//     guard, independent of the per-client inbound limits.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/isimkutusu/go-names-backend/internal/config"
)

// Generator produces a raw model reply for a prompt. Implementations must
// be safe for concurrent use and honor ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the production Generator backed by the configured endpoint.
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	guard   *rate.Limiter
}

// New builds a Client from the Gemini configuration block.
func New(cfg config.GeminiConfig) *Client {
	return &Client{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(cfg.APIKey),
		),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		guard:   rate.NewLimiter(rate.Limit(cfg.OutboundRPS), cfg.OutboundBst),
	}
}

// Generate sends prompt as a single user message and returns the first
// choice's content. The call waits on the outbound cost guard first, then
// runs under the configured timeout.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.guard.Wait(ctx); err != nil {
		return "", fmt.Errorf("outbound budget: %w", err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error calling chat completions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
