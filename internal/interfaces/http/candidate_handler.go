package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// CandidateHandler serves candidate submissions.
type CandidateHandler struct {
	uc *usecase.CandidateUseCase
}

// NewCandidateHandler builds the handler.
func NewCandidateHandler(uc *usecase.CandidateUseCase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

// Submit godoc
// @Summary      Submit a candidate
// @Description  A candidate with the same email is reused.
// @Tags         candidates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitCandidateRequest  true  "candidate"
// @Success      201   {object}  dto.SubmissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/candidates [post]
func (h *CandidateHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitCandidateRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Submit(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Submissions visible to the caller
// @Tags         candidates
// @Security     Bearer
// @Produce      json
// @Param        status        query     string  false  "pending, approved or rejected"
// @Param        allocationId  query     string  false  "allocation filter"
// @Param        mine          query     bool    false  "only the caller's submissions"
// @Success      200           {array}   dto.SubmissionResponse
// @Router       /api/candidates [get]
func (h *CandidateHandler) List(c *fiber.Ctx) error {
	var q dto.SubmissionListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Review a submission
// @Tags         candidates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "submission id"
// @Param        body  body  dto.SubmissionStatusRequest  true  "status, feedback"
// @Success      200   {object}  dto.SubmissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/candidates/{id}/status [put]
func (h *CandidateHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.SubmissionStatusRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
