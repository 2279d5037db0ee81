package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/usecase"
)

// DashboardHandler serves the admin overview.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// AdminStats godoc
// @Summary      Platform counters
// @Description  Users per role, companies, open jobs, pending requests and completed deletions.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AdminStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/dashboard/stats [get]
func (h *DashboardHandler) AdminStats(c *fiber.Ctx) error {
	out, err := h.uc.AdminStats(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
