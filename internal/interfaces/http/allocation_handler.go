package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// AllocationHandler serves profile allocations.
type AllocationHandler struct {
	uc *usecase.AllocationUseCase
}

// NewAllocationHandler builds the handler.
func NewAllocationHandler(uc *usecase.AllocationUseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc}
}

// Create godoc
// @Summary      Open a profile allocation
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationRequest  true  "allocation"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Create(c *fiber.Ctx) error {
	var in dto.AllocationRequest
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
// @Summary      Allocations of the caller's company
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        companyId  query     string  false  "admins only"
// @Success      200        {array}   dto.AllocationResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/allocations [get]
func (h *AllocationHandler) List(c *fiber.Ctx) error {
	var q dto.AllocationListQuery
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
// @Summary      Allocation by id
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "allocation id"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [get]
func (h *AllocationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Candidates godoc
// @Summary      Submissions made against an allocation
// @Description  Always 200: a denied or missing allocation yields an empty list with the error code in the body.
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "allocation id"
// @Success      200  {object}  dto.AllocationCandidatesResponse
// @Router       /api/allocations/{id}/candidates [get]
func (h *AllocationHandler) Candidates(c *fiber.Ctx) error {
	out, err := h.uc.Candidates(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
