package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/deletion"
	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// DeletionHandler exposes the cascading deletion of employers and companies.
type DeletionHandler struct {
	uc *deletion.Orchestrator
}

// NewDeletionHandler builds the handler.
func NewDeletionHandler(uc *deletion.Orchestrator) *DeletionHandler {
	return &DeletionHandler{uc: uc}
}

// DeleteEmployer godoc
// @Summary      Delete an employer with all data of their company
// @Description  Runs in one transaction: either everything is removed or nothing is.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteEmployerRequest  true  "employerId"
// @Success      200   {object}  dto.DeletionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/admin/delete-employer [post]
func (h *DeletionHandler) DeleteEmployer(c *fiber.Ctx) error {
	var in dto.DeleteEmployerRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	res, err := h.uc.DeleteEmployer(c.UserContext(), GetIdentity(c), in.EmployerID)
	if err != nil {
		return err
	}
	return c.JSON(toDeletionResponse(res, fmt.Sprintf("employer %s deleted", res.RootEmail)))
}

// DeleteCompany godoc
// @Summary      Delete a company with its users and data
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "company id"
// @Success      200  {object}  dto.DeletionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [delete]
func (h *DeletionHandler) DeleteCompany(c *fiber.Ctx) error {
	res, err := h.uc.DeleteCompany(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toDeletionResponse(res, "company deleted"))
}

// ListAudits godoc
// @Summary      Completed deletions, newest first
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "offset"
// @Success      200     {array}   dto.DeletionAuditResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/deletions [get]
func (h *DeletionHandler) ListAudits(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	page.DefaultPage()
	audits, err := h.uc.ListAudits(c.UserContext(), GetIdentity(c), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	out := make([]dto.DeletionAuditResponse, 0, len(audits))
	for _, a := range audits {
		out = append(out, toAuditResponse(a))
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      PDF receipt of a completed deletion
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "audit id"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/deletions/{id}/receipt [get]
func (h *DeletionHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Receipt(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="deletion-%s.pdf"`, id))
	return c.Send(pdf)
}

func toDeletionResponse(r *entity.DeletionResult, msg string) dto.DeletionResponse {
	return dto.DeletionResponse{
		Success:   true,
		Message:   msg,
		AuditID:   r.AuditID,
		CompanyID: r.CompanyID,
		Stats:     r.Stats,
	}
}

func toAuditResponse(a *entity.DeletionAudit) dto.DeletionAuditResponse {
	return dto.DeletionAuditResponse{
		ID:          a.ID,
		ActorEmail:  a.ActorEmail,
		RootUserID:  a.RootUserID,
		RootEmail:   a.RootEmail,
		CompanyID:   a.CompanyID,
		CompanyName: a.CompanyName,
		Stats:       a.Stats,
		DurationMS:  a.Duration.Milliseconds(),
		CreatedAt:   a.CreatedAt,
	}
}
