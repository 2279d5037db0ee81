package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// JobApplicationHandler serves applications to job postings.
type JobApplicationHandler struct {
	uc *usecase.JobApplicationUseCase
}

// NewJobApplicationHandler builds the handler.
func NewJobApplicationHandler(uc *usecase.JobApplicationUseCase) *JobApplicationHandler {
	return &JobApplicationHandler{uc: uc}
}

// Apply godoc
// @Summary      Apply to an open job
// @Description  Name and email are taken from the caller's account.
// @Tags         job-applications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JobApplyRequest  true  "application"
// @Success      201   {object}  dto.JobApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/job-applications [post]
func (h *JobApplicationHandler) Apply(c *fiber.Ctx) error {
	var in dto.JobApplyRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Apply(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Mine godoc
// @Summary      The caller's applications
// @Tags         job-applications
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "page offset"
// @Success      200     {array}   dto.JobApplicationResponse
// @Router       /api/job-applications/mine [get]
func (h *JobApplicationHandler) Mine(c *fiber.Ctx) error {
	var q dto.PageRequest
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.Mine(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Withdraw godoc
// @Summary      Withdraw an application
// @Tags         job-applications
// @Security     Bearer
// @Param        id  path  string  true  "application id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/job-applications/{id} [delete]
func (h *JobApplicationHandler) Withdraw(c *fiber.Ctx) error {
	if err := h.uc.Withdraw(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByJob godoc
// @Summary      Applications to a job
// @Tags         job-applications
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "job id"
// @Param        status  query     string  false  "status filter"
// @Success      200     {array}   dto.JobApplicationResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/applications [get]
func (h *JobApplicationHandler) ListByJob(c *fiber.Ctx) error {
	var q dto.JobApplicationListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListByJob(c.UserContext(), GetIdentity(c), c.Params("id"), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Review an application
// @Tags         job-applications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "application id"
// @Param        body  body  dto.JobApplicationStatusRequest  true  "status"
// @Success      200   {object}  dto.JobApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/job-applications/{id}/status [put]
func (h *JobApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.JobApplicationStatusRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
