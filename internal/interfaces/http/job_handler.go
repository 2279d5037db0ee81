package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
	"github.com/jhoicas/talent-api/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// JobHandler serves job postings and their spreadsheet import.
type JobHandler struct {
	uc *usecase.JobUseCase
}

// NewJobHandler builds the handler.
func NewJobHandler(uc *usecase.JobUseCase) *JobHandler {
	return &JobHandler{uc: uc}
}

// Create godoc
// @Summary      Post a job
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JobRequest  true  "job"
// @Success      201   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.JobRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Jobs
// @Description  Applicants only see open jobs.
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "open, closed or draft"
// @Param        q       query     string  false  "search in title and description"
// @Param        mine    query     bool    false  "only the caller's postings"
// @Param        limit   query     int     false  "page size"
// @Param        offset  query     int     false  "offset"
// @Success      200     {object}  dto.JobListResponse
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	var q dto.JobListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Job by id
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "job id"
// @Success      200  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Edit a job
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "job id"
// @Param        body  body  dto.JobRequest  true  "job"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c *fiber.Ctx) error {
	var in dto.JobRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete a job
// @Tags         jobs
// @Security     Bearer
// @Param        id   path  string  true  "job id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [delete]
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportTemplate godoc
// @Summary      Empty spreadsheet for bulk job import
// @Tags         jobs
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/jobs/import/template [get]
func (h *JobHandler) ImportTemplate(c *fiber.Ctx) error {
	data, err := h.uc.ImportTemplate(GetIdentity(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="jobs-template.xlsx"`)
	return c.Send(data)
}

// Import godoc
// @Summary      Create jobs from a spreadsheet
// @Description  Valid rows are created; invalid rows are listed with their row number.
// @Tags         jobs
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx workbook"
// @Success      200   {object}  dto.JobImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/jobs/import [post]
func (h *JobHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Validationf("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Validationf("unreadable upload: %v", err)
	}
	defer f.Close()
	out, err := h.uc.Import(c.UserContext(), GetIdentity(c), f)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
