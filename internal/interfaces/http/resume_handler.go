package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/usecase"
	"github.com/jhoicas/talent-api/internal/domain"
)

// ResumeHandler turns uploaded resumes into structured profiles.
type ResumeHandler struct {
	uc       *usecase.ResumeUseCase
	maxBytes int64
}

// NewResumeHandler builds the handler. Uploads larger than maxBytes are rejected.
func NewResumeHandler(uc *usecase.ResumeUseCase, maxBytes int64) *ResumeHandler {
	return &ResumeHandler{uc: uc, maxBytes: maxBytes}
}

// Parse godoc
// @Summary      Parse a resume
// @Description  Accepts PDF or plain text. Uses the configured AI provider and falls back to keyword parsing.
// @Tags         resume
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "resume (.pdf or .txt)"
// @Success      200   {object}  dto.ResumeParseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/resume/parse [post]
func (h *ResumeHandler) Parse(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Validationf("file is required")
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return domain.Validationf("file exceeds %d bytes", h.maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Validationf("unreadable upload: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Validationf("unreadable upload: %v", err)
	}
	out, err := h.uc.Parse(c.UserContext(), GetIdentity(c), fh.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
