package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/pkg/logger"
)

var statusByCode = map[string]int{
	domain.CodeNotAuthenticated:  fiber.StatusUnauthorized,
	domain.CodeRoleInsufficient:  fiber.StatusForbidden,
	domain.CodeTenantMismatch:    fiber.StatusForbidden,
	domain.CodeNotFound:          fiber.StatusNotFound,
	domain.CodeInvalidTarget:     fiber.StatusBadRequest,
	domain.CodeValidation:        fiber.StatusBadRequest,
	domain.CodeTransactionFailed: fiber.StatusInternalServerError,
	domain.CodeConflict:          fiber.StatusConflict,
	domain.CodeMethodNotAllowed:  fiber.StatusMethodNotAllowed,
	domain.CodeInternal:          fiber.StatusInternalServerError,
}

// StatusOf returns the HTTP status for a domain error.
func StatusOf(err error) int {
	if s, ok := statusByCode[domain.Code(err)]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error as {"error": CODE, "message": text}.
// Router errors (unknown route, wrong method, oversized body) keep their
// status; domain errors are mapped through their taxonomy code. Server-side
// failures are logged and answered with a fixed message.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.Named("http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fiberCode(fe.Code), Message: fe.Message})
		}
		code := domain.Code(err)
		status := StatusOf(err)
		msg := err.Error()
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Str("code", code).Msg("request failed")
			msg = serverMessage(code)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: code, Message: msg})
	}
}

// serverMessage is the fixed client text for a 5xx response.
func serverMessage(code string) string {
	if code == domain.CodeTransactionFailed {
		return domain.ErrTransactionFailed.Error()
	}
	return "internal error"
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return domain.CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return domain.CodeMethodNotAllowed
	case fiber.StatusUnauthorized:
		return domain.CodeNotAuthenticated
	case fiber.StatusForbidden:
		return domain.CodeRoleInsufficient
	case fiber.StatusConflict:
		return domain.CodeConflict
	}
	if status < fiber.StatusInternalServerError {
		return domain.CodeValidation
	}
	return domain.CodeInternal
}

// ── binding ──────────────────────────────────────────────────────────────────

var validate = validator.New()

// bindBody parses the JSON body into out and validates its tags.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Validationf("invalid body: %v", err)
	}
	return check(out)
}

// bindQuery parses query parameters into out and validates its tags.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.Validationf("invalid query: %v", err)
	}
	return check(out)
}

func check(out any) error {
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.Validationf("%s failed %s", lowerFirst(fe.Field()), fe.Tag())
		}
		return domain.Validationf("%v", err)
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
