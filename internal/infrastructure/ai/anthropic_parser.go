package ai

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.ResumeParser = (*AnthropicParser)(nil)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// AnthropicParser parses resumes with the Anthropic Messages API.
type AnthropicParser struct {
	apiKey string
	model  string
	client *resty.Client
}

// NewAnthropicParser builds the adapter. baseURL may be empty for the public API.
func NewAnthropicParser(apiKey, model, baseURL string) *AnthropicParser {
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json").
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("x-api-key", apiKey)
	return &AnthropicParser{apiKey: apiKey, model: model, client: client}
}

func (p *AnthropicParser) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Parse sends the resume text to the model and decodes its JSON reply.
func (p *AnthropicParser) Parse(ctx context.Context, text string) (*dto.ParsedResume, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("anthropic: ANTHROPIC_API_KEY not configured")
	}
	payload := anthropicRequest{
		Model:     p.model,
		MaxTokens: 2048,
		System:    resumeSystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: truncate(text)}},
	}
	var (
		out    anthropicResponse
		errOut anthropicError
	)
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		SetError(&errOut).
		Post("/v1/messages")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("anthropic: %w", ctx.Err())
		}
		return nil, fmt.Errorf("anthropic: request failed: %w", err)
	}
	if resp.IsError() {
		if errOut.Error != nil {
			return nil, fmt.Errorf("anthropic: %s: %s", errOut.Error.Type, errOut.Error.Message)
		}
		return nil, fmt.Errorf("anthropic: HTTP %d", resp.StatusCode())
	}
	for _, c := range out.Content {
		if c.Type == "text" && c.Text != "" {
			return decodeResume("anthropic", c.Text)
		}
	}
	return nil, fmt.Errorf("anthropic: empty reply")
}
