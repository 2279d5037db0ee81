package ai

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.ResumeParser = (*GeminiParser)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiParser parses resumes with the Gemini generateContent API. The
// response MIME type is pinned to JSON so no fence stripping is needed.
type GeminiParser struct {
	apiKey string
	model  string
	client *resty.Client
}

// NewGeminiParser builds the adapter. baseURL may be empty for the public API.
func NewGeminiParser(apiKey, model, baseURL string) *GeminiParser {
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	return &GeminiParser{apiKey: apiKey, model: model, client: client}
}

func (p *GeminiParser) Name() string { return "gemini" }

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Parse sends the resume text to the model and decodes its JSON reply.
func (p *GeminiParser) Parse(ctx context.Context, text string) (*dto.ParsedResume, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini: GEMINI_API_KEY not configured")
	}
	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: resumeSystemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: truncate(text)}}}},
		GenerationConfig: geminiGenConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1,
			MaxOutputTokens:  2048,
		},
	}
	var (
		out    geminiResponse
		errOut geminiError
	)
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("model", p.model).
		SetQueryParam("key", p.apiKey).
		SetBody(payload).
		SetResult(&out).
		SetError(&errOut).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gemini: %w", ctx.Err())
		}
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	if resp.IsError() {
		if errOut.Error != nil {
			return nil, fmt.Errorf("gemini: error %d: %s", errOut.Error.Code, errOut.Error.Message)
		}
		return nil, fmt.Errorf("gemini: HTTP %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty reply")
	}
	return decodeResume("gemini", out.Candidates[0].Content.Parts[0].Text)
}
