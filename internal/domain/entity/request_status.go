package entity

import (
	"strings"

	"github.com/jhoicas/talent-api/internal/domain"
)

// RequestStatus is the lifecycle of an admin-reviewed request.
// pending -> approved | rejected; both outcomes are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ParseRequestStatus accepts any casing; unknown values return false.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case RequestPending, RequestApproved, RequestRejected:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// TransitionTo validates a move to next. Terminal requests are never reopened;
// a new request record is required instead.
func (s RequestStatus) TransitionTo(next RequestStatus) error {
	if s.IsTerminal() {
		return domain.ErrTerminalState
	}
	if s != RequestPending {
		return domain.Validationf("unknown request status %q", s)
	}
	if !next.IsTerminal() {
		return domain.Validationf("status must be approved or rejected, got %q", next)
	}
	return nil
}
