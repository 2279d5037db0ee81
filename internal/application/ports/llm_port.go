package ports

import (
	"context"

	"github.com/jhoicas/talent-api/internal/application/dto"
)

// ResumeParser turns the plain text of a resume into structured fields.
// Adapters (Anthropic, Gemini, heuristic) implement this contract; the ctx
// should carry a timeout since most implementations call out over the network.
type ResumeParser interface {
	Name() string
	Parse(ctx context.Context, text string) (*dto.ParsedResume, error)
}

// TextExtractor reads the plain text out of an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}
