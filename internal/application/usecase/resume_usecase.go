package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// ResumeTimeout bounds one parse including the LLM round trip.
const ResumeTimeout = 45 * time.Second

// ResumeUseCase turns an uploaded resume into structured candidate fields.
// The primary parser is usually an LLM; when it fails the fallback parser
// answers instead so an upload never dies on a provider outage.
type ResumeUseCase struct {
	guard     *Guard
	extractor ports.TextExtractor
	parser    ports.ResumeParser
	fallback  ports.ResumeParser
	maxBytes  int64
	log       *logger.Logger
}

// NewResumeUseCase builds the use case. fallback may be nil or equal parser.
func NewResumeUseCase(guard *Guard, extractor ports.TextExtractor, parser, fallback ports.ResumeParser, maxBytes int64, log *logger.Logger) *ResumeUseCase {
	return &ResumeUseCase{
		guard:     guard,
		extractor: extractor,
		parser:    parser,
		fallback:  fallback,
		maxBytes:  maxBytes,
		log:       log.Named("resume"),
	}
}

// Parse extracts and parses one PDF or plain-text resume.
func (uc *ResumeUseCase) Parse(ctx context.Context, actor *rbac.Identity, fileName string, data []byte) (*dto.ResumeParseResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapParseResume); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.Validationf("empty upload")
	}
	if uc.maxBytes > 0 && int64(len(data)) > uc.maxBytes {
		return nil, domain.Validationf("file exceeds %d bytes", uc.maxBytes)
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".txt":
	default:
		return nil, domain.Validationf("only .pdf and .txt resumes are supported")
	}

	ctx, cancel := context.WithTimeout(ctx, ResumeTimeout)
	defer cancel()

	text, err := uc.extractor.Extract(ctx, fileName, data)
	if err != nil {
		return nil, domain.Validationf("could not read %s: %v", fileName, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.Validationf("no text found in %s", fileName)
	}

	parser := uc.parser
	resume, err := parser.Parse(ctx, text)
	if err != nil && uc.fallback != nil && uc.fallback != uc.parser {
		uc.log.Warn().Err(err).Str("parser", parser.Name()).Str("fallback", uc.fallback.Name()).Msg("resume parser failed, using fallback")
		parser = uc.fallback
		resume, err = parser.Parse(ctx, text)
	}
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}
	resume.Skills = NormalizeSkills(resume.Skills)
	if resume.Education == nil {
		resume.Education = []dto.EducationEntry{}
	}
	if resume.Experience == nil {
		resume.Experience = []dto.ExperienceEntry{}
	}
	uc.log.Info().Str("user_id", actor.UserID).Str("parser", parser.Name()).Int("skills", len(resume.Skills)).Msg("resume parsed")
	return &dto.ResumeParseResponse{Success: true, Parser: parser.Name(), FileName: fileName, Resume: resume}, nil
}
