package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// UserHandler serves role administration and the employer's staff views.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler builds the handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Users
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        role       query     string  false  "role filter"
// @Param        companyId  query     string  false  "company filter"
// @Param        limit      query     int     false  "page size"
// @Param        offset     query     int     false  "offset"
// @Success      200        {array}   dto.UserResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AssignRole godoc
// @Summary      Set any user's role
// @Description  The change is recorded so the user's open sessions can detect it.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "user id"
// @Param        body  body  dto.AssignRoleRequest  true  "role"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	var in dto.AssignRoleRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AssignRole(c.UserContext(), GetIdentity(c), c.Params("id"), in.Role)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Employees godoc
// @Summary      Active employees and managers of the caller's company
// @Tags         employer
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/employer/employees [get]
func (h *UserHandler) Employees(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.Employees(c.UserContext(), GetIdentity(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PastEmployees godoc
// @Summary      Deactivated staff of the caller's company
// @Tags         employer
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/employer/past-employees [get]
func (h *UserHandler) PastEmployees(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.PastEmployees(c.UserContext(), GetIdentity(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ChangeCompanyRole godoc
// @Summary      Switch a staff member between employee and manager
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "user id"
// @Param        body  body  dto.CompanyRoleRequest  true  "role"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/employer/users/{id}/role [put]
func (h *UserHandler) ChangeCompanyRole(c *fiber.Ctx) error {
	var in dto.CompanyRoleRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ChangeCompanyRole(c.UserContext(), GetIdentity(c), c.Params("id"), in.Role)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
