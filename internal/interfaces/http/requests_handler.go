package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/requests"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// RequestsHandler serves the three admin-reviewed workflows: employer access,
// user creation and employee deletion. Queues are reviewed with PUT on the
// collection carrying the request id in the body.
type RequestsHandler struct {
	access    *requests.EmployerAccess
	creations *requests.UserCreation
	deletions *requests.EmployeeDeletion
}

// NewRequestsHandler builds the handler.
func NewRequestsHandler(access *requests.EmployerAccess, creations *requests.UserCreation, deletions *requests.EmployeeDeletion) *RequestsHandler {
	return &RequestsHandler{access: access, creations: creations, deletions: deletions}
}

// ── employer access ──────────────────────────────────────────────────────────

// ApplyEmployerAccess godoc
// @Summary      Ask to become the employer of a company
// @Tags         recruiter
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployerAccessRequest  true  "companyName, reason"
// @Success      201   {object}  dto.EmployerApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recruiter/employer-access [post]
func (h *RequestsHandler) ApplyEmployerAccess(c *fiber.Ctx) error {
	var in dto.EmployerAccessRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	app, err := h.access.Apply(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toApplicationResponse(requests.ApplicationView{Application: app}))
}

// EmployerAccessStatus godoc
// @Summary      The caller's latest employer application
// @Tags         recruiter
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.EmployerApplicationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recruiter/employer-access [get]
func (h *RequestsHandler) EmployerAccessStatus(c *fiber.Ctx) error {
	app, err := h.access.MyStatus(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(toApplicationResponse(requests.ApplicationView{Application: app}))
}

// ListEmployerApplications godoc
// @Summary      Employer applications queue
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Param        limit   query     int     false  "page size"
// @Param        offset  query     int     false  "offset"
// @Success      200     {array}   dto.EmployerApplicationResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/employer-applications [get]
func (h *RequestsHandler) ListEmployerApplications(c *fiber.Ctx) error {
	f, err := requestFilter(c)
	if err != nil {
		return err
	}
	views, err := h.access.List(c.UserContext(), GetIdentity(c), f)
	if err != nil {
		return err
	}
	out := make([]dto.EmployerApplicationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toApplicationResponse(v))
	}
	return c.JSON(out)
}

// ReviewEmployerApplication godoc
// @Summary      Approve or reject an employer application
// @Description  Approval promotes the recruiter to employer.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDReviewRequest  true  "id, status, notes"
// @Success      200   {object}  dto.EmployerApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/employer-applications [put]
func (h *RequestsHandler) ReviewEmployerApplication(c *fiber.Ctx) error {
	in, status, err := bindReview(c)
	if err != nil {
		return err
	}
	app, err := h.access.Review(c.UserContext(), GetIdentity(c), in.ID, status, in.Notes)
	if err != nil {
		return err
	}
	return c.JSON(toApplicationResponse(requests.ApplicationView{Application: app}))
}

// ── user creation ────────────────────────────────────────────────────────────

// CreateUserCreation godoc
// @Summary      Ask an admin to create a manager or employee account
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UserCreationInput  true  "name, email, role, managerId"
// @Success      201   {object}  dto.UserCreationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/employer/user-creation-requests [post]
func (h *RequestsHandler) CreateUserCreation(c *fiber.Ctx) error {
	var in dto.UserCreationInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	req, err := h.creations.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCreationResponse(req))
}

// CompanyUserCreations godoc
// @Summary      User creation requests of the caller's company
// @Tags         employer
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Success      200     {array}   dto.UserCreationResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/employer/user-creation-requests [get]
func (h *RequestsHandler) CompanyUserCreations(c *fiber.Ctx) error {
	f, err := requestFilter(c)
	if err != nil {
		return err
	}
	list, err := h.creations.ListForCompany(c.UserContext(), GetIdentity(c), f)
	if err != nil {
		return err
	}
	return c.JSON(toCreationResponses(list))
}

// ListUserCreations godoc
// @Summary      User creation queue
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Success      200     {array}   dto.UserCreationResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/user-creation-requests [get]
func (h *RequestsHandler) ListUserCreations(c *fiber.Ctx) error {
	f, err := requestFilter(c)
	if err != nil {
		return err
	}
	list, err := h.creations.List(c.UserContext(), GetIdentity(c), f)
	if err != nil {
		return err
	}
	return c.JSON(toCreationResponses(list))
}

// ReviewUserCreation godoc
// @Summary      Approve or reject a user creation request
// @Description  Approval creates the account with a generated password, revealed once.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDReviewRequest  true  "id, status, notes"
// @Success      200   {object}  dto.UserCreationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/user-creation-requests [put]
func (h *RequestsHandler) ReviewUserCreation(c *fiber.Ctx) error {
	in, status, err := bindReview(c)
	if err != nil {
		return err
	}
	req, err := h.creations.Review(c.UserContext(), GetIdentity(c), in.ID, status, in.Notes)
	if err != nil {
		return err
	}
	return c.JSON(toCreationResponse(req))
}

// RevealCredential godoc
// @Summary      Reveal the generated password of an approved request
// @Description  Works once; later calls return 404.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "request id"
// @Success      200  {object}  dto.CredentialResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/user-creation-requests/{id}/credential [get]
func (h *RequestsHandler) RevealCredential(c *fiber.Ctx) error {
	cred, err := h.creations.RevealCredential(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(dto.CredentialResponse{
		RequestID: cred.RequestID,
		UserID:    cred.UserID,
		Email:     cred.Email,
		Password:  cred.Password,
	})
}

// ── employee deletion ────────────────────────────────────────────────────────

// CreateEmployeeDeletion godoc
// @Summary      Ask an admin to deactivate an employee
// @Tags         employer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeDeletionInput  true  "employeeId, reason"
// @Success      201   {object}  dto.EmployeeDeletionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/employer/deletion-requests [post]
func (h *RequestsHandler) CreateEmployeeDeletion(c *fiber.Ctx) error {
	var in dto.EmployeeDeletionInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	req, err := h.deletions.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toEmployeeDeletionResponse(requests.DeletionView{Request: req}))
}

// CompanyEmployeeDeletions godoc
// @Summary      Employee deletion requests of the caller's company
// @Tags         employer
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Success      200     {array}   dto.EmployeeDeletionResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/employer/deletion-requests [get]
func (h *RequestsHandler) CompanyEmployeeDeletions(c *fiber.Ctx) error {
	f, err := requestFilter(c)
	if err != nil {
		return err
	}
	views, err := h.deletions.ListForCompany(c.UserContext(), GetIdentity(c), f)
	if err != nil {
		return err
	}
	return c.JSON(toEmployeeDeletionResponses(views))
}

// ListEmployeeDeletions godoc
// @Summary      Employee deletion queue
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Success      200     {array}   dto.EmployeeDeletionResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/employee-deletion-requests [get]
func (h *RequestsHandler) ListEmployeeDeletions(c *fiber.Ctx) error {
	f, err := requestFilter(c)
	if err != nil {
		return err
	}
	views, err := h.deletions.List(c.UserContext(), GetIdentity(c), f)
	if err != nil {
		return err
	}
	return c.JSON(toEmployeeDeletionResponses(views))
}

// ReviewEmployeeDeletion godoc
// @Summary      Approve or reject an employee deletion request
// @Description  Approval deactivates the account; its data stays.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDReviewRequest  true  "id, status, notes"
// @Success      200   {object}  dto.EmployeeDeletionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/employee-deletion-requests [put]
func (h *RequestsHandler) ReviewEmployeeDeletion(c *fiber.Ctx) error {
	in, status, err := bindReview(c)
	if err != nil {
		return err
	}
	req, err := h.deletions.Review(c.UserContext(), GetIdentity(c), in.ID, status, in.Notes)
	if err != nil {
		return err
	}
	return c.JSON(toEmployeeDeletionResponse(requests.DeletionView{Request: req}))
}

// ── helpers ──────────────────────────────────────────────────────────────────

func requestFilter(c *fiber.Ctx) (repository.RequestFilter, error) {
	var q dto.RequestListQuery
	if err := bindQuery(c, &q); err != nil {
		return repository.RequestFilter{}, err
	}
	q.DefaultPage()
	f := repository.RequestFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		st, ok := entity.ParseRequestStatus(q.Status)
		if !ok {
			return f, domain.Validationf("unknown status %q", q.Status)
		}
		f.Status = st
	}
	return f, nil
}

func bindReview(c *fiber.Ctx) (dto.IDReviewRequest, entity.RequestStatus, error) {
	var in dto.IDReviewRequest
	if err := bindBody(c, &in); err != nil {
		return in, "", err
	}
	st, ok := entity.ParseRequestStatus(in.Status)
	if !ok {
		return in, "", domain.Validationf("unknown status %q", in.Status)
	}
	return in, st, nil
}

func toApplicationResponse(v requests.ApplicationView) dto.EmployerApplicationResponse {
	a := v.Application
	out := dto.EmployerApplicationResponse{
		ID:          a.ID,
		RecruiterID: a.RecruiterID,
		CompanyName: a.CompanyName,
		Reason:      a.Reason,
		Status:      string(a.Status),
		AdminNotes:  a.AdminNotes,
		ReviewedAt:  a.ReviewedAt,
		CreatedAt:   a.CreatedAt,
	}
	if v.Recruiter != nil {
		out.RecruiterName = v.Recruiter.Name
		out.RecruiterEmail = v.Recruiter.Email
	}
	return out
}

func toCreationResponse(r *entity.UserCreationRequest) dto.UserCreationResponse {
	return dto.UserCreationResponse{
		ID:              r.ID,
		CompanyID:       r.CompanyID,
		RequestedBy:     r.RequestedBy,
		Name:            r.Name,
		Email:           r.Email,
		Role:            r.Role.String(),
		ManagerID:       r.ManagerID,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		CreatedUserID:   r.CreatedUserID,
		CredentialReady: r.Status == entity.RequestApproved && r.CreatedUserID != "",
		ReviewedAt:      r.ReviewedAt,
		CreatedAt:       r.CreatedAt,
	}
}

func toCreationResponses(list []*entity.UserCreationRequest) []dto.UserCreationResponse {
	out := make([]dto.UserCreationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toCreationResponse(r))
	}
	return out
}

func toEmployeeDeletionResponse(v requests.DeletionView) dto.EmployeeDeletionResponse {
	r := v.Request
	out := dto.EmployeeDeletionResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		RequestedBy: r.RequestedBy,
		EmployeeID:  r.EmployeeID,
		Reason:      r.Reason,
		Status:      string(r.Status),
		AdminNotes:  r.AdminNotes,
		ReviewedAt:  r.ReviewedAt,
		CreatedAt:   r.CreatedAt,
	}
	if v.Employee != nil {
		out.EmployeeName = v.Employee.Name
		out.EmployeeEmail = v.Employee.Email
	}
	return out
}

func toEmployeeDeletionResponses(views []requests.DeletionView) []dto.EmployeeDeletionResponse {
	out := make([]dto.EmployeeDeletionResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toEmployeeDeletionResponse(v))
	}
	return out
}
