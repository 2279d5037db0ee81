package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

// RequireCapability lets the request through only when the caller's role
// grants c. Tenant checks on the addressed resource happen in the use cases.
func RequireCapability(gate *rbac.Gate, c rbac.Capability) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := gate.Authorize(GetIdentity(ctx), c).Err(); err != nil {
			return err
		}
		return ctx.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...rbac.Role) fiber.Handler {
	allowed := make(map[rbac.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id == nil {
			return domain.ErrNotAuthenticated
		}
		if _, ok := allowed[id.Role]; !ok {
			return domain.ErrRoleInsufficient
		}
		return c.Next()
	}
}
