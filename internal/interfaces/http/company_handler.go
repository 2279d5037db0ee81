package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// CompanyHandler serves companies: the admin directory and the employer's own profile.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler builds the handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Create a company
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "company"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Company by id
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "company id"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Companies
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "offset"
// @Success      200     {object}  dto.CompanyListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      The caller's company
// @Tags         employer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employer/company [get]
func (h *CompanyHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.Mine(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SaveMine godoc
// @Summary      Create or update the caller's company profile
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "company"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/employer/company [put]
func (h *CompanyHandler) SaveMine(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SaveMine(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
