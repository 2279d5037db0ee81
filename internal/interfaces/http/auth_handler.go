package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/auth"
	"github.com/jhoicas/talent-api/internal/application/dto"
)

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles sign-up, sign-in and the caller's own session.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Register godoc
// @Summary      Register an applicant or recruiter account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Sign in
// @Description  Returns the token and also sets it as an HTTP-only cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.setCookie(c, out.Token, out.ExpiresAt)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Sign out
// @Description  Clears the session cookie. Bearer tokens stay valid until they expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setCookie(c, "", time.Unix(0, 0))
	return c.JSON(dto.MessageResponse{Success: true, Message: "signed out"})
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, value string, expires time.Time) {
	if h.cookie.Name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Session godoc
// @Summary      Decoded session and granted capabilities
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	out, err := h.uc.Session(GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Update own name or password
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "name, currentPassword, newPassword"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CheckRole godoc
// @Summary      Whether the stored role differs from the session's
// @Description  Clients call this to decide whether to sign in again after a promotion.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CheckRoleResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/check-role [get]
func (h *AuthHandler) CheckRole(c *fiber.Ctx) error {
	out, err := h.uc.CheckRole(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
