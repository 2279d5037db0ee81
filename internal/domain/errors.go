package domain

import (
	"errors"
	"fmt"
)

// Domain errors (no external dependencies). Every failure surfaced to a caller
// wraps exactly one of the taxonomy sentinels below.
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrRoleInsufficient  = errors.New("role insufficient")
	ErrTenantMismatch    = errors.New("tenant mismatch")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrValidation        = errors.New("validation failed")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrConflict          = errors.New("conflict with current state")
)

// Refinements that still match their taxonomy parent with errors.Is.
var (
	ErrEmailAlreadyExists = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrInactiveAccount    = fmt.Errorf("account deactivated: %w", ErrRoleInsufficient)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrNotAuthenticated)
	ErrTerminalState      = fmt.Errorf("request already processed: %w", ErrConflict)
)

// Validationf builds a validation error with detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// NotFoundf builds a not-found error naming the missing resource.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Stable machine codes returned to API clients.
const (
	CodeNotAuthenticated  = "NOT_AUTHENTICATED"
	CodeRoleInsufficient  = "ROLE_INSUFFICIENT"
	CodeTenantMismatch    = "TENANT_MISMATCH"
	CodeNotFound          = "RESOURCE_NOT_FOUND"
	CodeInvalidTarget     = "INVALID_TARGET"
	CodeValidation        = "VALIDATION_FAILED"
	CodeTransactionFailed = "TRANSACTION_FAILED"
	CodeConflict          = "CONFLICT"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternal          = "INTERNAL"
)

// Code maps err onto its stable code. Errors outside the taxonomy are INTERNAL.
// A failed transaction wins over whatever it wraps.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransactionFailed):
		return CodeTransactionFailed
	case errors.Is(err, ErrNotAuthenticated):
		return CodeNotAuthenticated
	case errors.Is(err, ErrRoleInsufficient):
		return CodeRoleInsufficient
	case errors.Is(err, ErrTenantMismatch):
		return CodeTenantMismatch
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidTarget):
		return CodeInvalidTarget
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}
