package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// TeamHandler serves the teams of the caller's company.
type TeamHandler struct {
	uc *usecase.TeamUseCase
}

// NewTeamHandler builds the handler.
func NewTeamHandler(uc *usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

// Create godoc
// @Summary      Create a team
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TeamRequest  true  "team"
// @Success      201   {object}  dto.TeamResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/employer/teams [post]
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var in dto.TeamRequest
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
// @Summary      Teams with their members
// @Tags         employer
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.TeamResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/employer/teams [get]
func (h *TeamHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Rename a team or change its manager
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "team id"
// @Param        body  body  dto.TeamRequest  true  "team"
// @Success      200   {object}  dto.TeamResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employer/teams/{id} [put]
func (h *TeamHandler) Update(c *fiber.Ctx) error {
	var in dto.TeamRequest
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
// @Summary      Delete a team; members stay in the company
// @Tags         employer
// @Security     Bearer
// @Param        id   path  string  true  "team id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employer/teams/{id} [delete]
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMember godoc
// @Summary      Add a staff member to a team
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                 true  "team id"
// @Param        body  body  dto.TeamMemberRequest  true  "userId"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employer/teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	var in dto.TeamMemberRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.AddMember(c.UserContext(), GetIdentity(c), c.Params("id"), in.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveMember godoc
// @Summary      Remove a member from a team
// @Tags         employer
// @Security     Bearer
// @Param        id      path  string  true  "team id"
// @Param        userId  path  string  true  "user id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employer/teams/{id}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.uc.RemoveMember(c.UserContext(), GetIdentity(c), c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
