// Package ai holds the resume parsers: two LLM adapters and a local heuristic
// parser used when no provider is configured or the provider fails.
package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/talent-api/internal/application/dto"
)

const (
	defaultTimeout = 30 * time.Second
	// maxResumeChars caps the text sent to a provider.
	maxResumeChars = 24000
)

const resumeSystemPrompt = `You extract structured data from resumes.
Return ONLY a valid JSON object, no markdown and no prose, with this exact shape:
{
  "name": "<full name>",
  "email": "<email or empty>",
  "phone": "<phone or empty>",
  "summary": "<two sentences at most>",
  "skills": ["<skill>", "..."],
  "education": [{"institution": "", "degree": "", "date": "", "description": ""}],
  "experience": [{"position": "", "company": "", "date": "", "description": ""}]
}

Rules:
- Use empty strings and empty arrays for missing data; never invent values.
- skills: short names of tools, languages and techniques, one per entry.
- date: the range as written in the resume, for example "2019 - 2022".`

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls the first JSON object out of a model reply, tolerating
// markdown fences and surrounding prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// decodeResume turns a model reply into a ParsedResume.
func decodeResume(provider, reply string) (*dto.ParsedResume, error) {
	raw := extractJSON(reply)
	if raw == "" {
		return nil, fmt.Errorf("%s: no JSON object in reply", provider)
	}
	var out dto.ParsedResume
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%s: decode resume JSON: %w", provider, err)
	}
	out.Name = strings.TrimSpace(out.Name)
	out.Email = strings.ToLower(strings.TrimSpace(out.Email))
	out.Phone = strings.TrimSpace(out.Phone)
	return &out, nil
}

func truncate(text string) string {
	if len(text) <= maxResumeChars {
		return text
	}
	// keep a valid UTF-8 boundary
	cut := maxResumeChars
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
