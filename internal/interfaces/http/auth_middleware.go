package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// LocalIdentity is the c.Locals key holding the verified *rbac.Identity.
const LocalIdentity = "identity"

// Verifier turns a session token into an identity.
type Verifier interface {
	Verify(token string) (*rbac.Identity, error)
}

// AuthMiddleware reads the session cookie, then the Bearer header, and stores
// the verified identity in c.Locals. Requests without a valid token stop here
// with 401.
func AuthMiddleware(v Verifier, cookieName string, log *logger.Logger) fiber.Handler {
	log = log.Named("auth")
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, cookieName)
		if token == "" {
			return domain.ErrNotAuthenticated
		}
		id, err := v.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return domain.ErrNotAuthenticated
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx, cookieName string) string {
	if cookieName != "" {
		if t := strings.TrimSpace(c.Cookies(cookieName)); t != "" {
			return t
		}
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetIdentity returns the identity stored by AuthMiddleware, or nil.
func GetIdentity(c *fiber.Ctx) *rbac.Identity {
	id, _ := c.Locals(LocalIdentity).(*rbac.Identity)
	return id
}
