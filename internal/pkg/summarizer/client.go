// Package summarizer talks to an OpenAI-compatible chat completions endpoint
// to produce short event summaries.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

const defaultModel = "llama-3.1-8b-instant"

// Input is the event data a summary is written from
type Input struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Capacity    int
	Equipment   []string
	Pattern     string
}

// Summarizer produces a summary for an event
type Summarizer interface {
	Summarize(ctx context.Context, in Input) (string, error)
}

// Config configures a Client. BaseURL points at any OpenAI-compatible API,
// such as Groq or OpenRouter.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is a Summarizer backed by the chat completions API
type Client struct {
	api   *openai.Client
	model string
	ready bool
}

// NewClient creates a Client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: model,
		ready: cfg.BaseURL != "",
	}
}

// Summarize asks the model for a summary of in. Any failure wraps apperrors.ErrUpstream.
func (c *Client) Summarize(ctx context.Context, in Input) (string, error) {
	if !c.ready {
		return "", fmt.Errorf("%w: summarizer base url not configured", apperrors.ErrUpstream)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You write short, friendly summaries of volunteer events. Answer in at most three sentences."},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(in)},
		},
		MaxTokens:   200,
		Temperature: 0.4,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", apperrors.ErrUpstream, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", apperrors.ErrUpstream)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%w: blank summary", apperrors.ErrUpstream)
	}
	return summary, nil
}

// Prompt renders the user prompt for in
func Prompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s\n", in.Title)
	if in.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.Description)
	}
	if in.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", in.Location)
	}
	fmt.Fprintf(&b, "When: %s to %s\n", in.Start.Format("Mon, 02 Jan 2006 15:04"), in.End.Format("15:04"))
	if in.Pattern != "" {
		fmt.Fprintf(&b, "Repeats: %s\n", in.Pattern)
	}
	if in.Capacity > 0 {
		fmt.Fprintf(&b, "Volunteers needed: %d\n", in.Capacity)
	}
	if len(in.Equipment) > 0 {
		fmt.Fprintf(&b, "Bring: %s\n", strings.Join(in.Equipment, ", "))
	}
	return b.String()
}
