package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-api/internal/application/auth"
	"github.com/jhoicas/talent-api/internal/application/deletion"
	"github.com/jhoicas/talent-api/internal/application/requests"
	"github.com/jhoicas/talent-api/internal/application/usecase"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// RouterDeps dependencies of the API routes.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Deletions    *deletion.Orchestrator
	Access       *requests.EmployerAccess
	Creations    *requests.UserCreation
	EmpDeletions *requests.EmployeeDeletion
	CompanyUC    *usecase.CompanyUseCase
	UserUC       *usecase.UserUseCase
	TeamUC       *usecase.TeamUseCase
	JobUC        *usecase.JobUseCase
	JobAppUC     *usecase.JobApplicationUseCase
	CandidateUC  *usecase.CandidateUseCase
	AllocationUC *usecase.AllocationUseCase
	ReportUC     *usecase.ReportUseCase
	ResumeUC     *usecase.ResumeUseCase
	DashboardUC  *usecase.DashboardUseCase

	Gate           *rbac.Gate
	Cookie         CookieConfig
	MaxResumeBytes int64
	Log            *logger.Logger
}

// Router registers the /api routes. Group middlewares reject callers by role
// early; every use case re-checks its capability and the tenant of the
// addressed resource.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authed := AuthMiddleware(deps.AuthUC, deps.Cookie.Name, deps.Log)
	admins := RequireRole(rbac.RoleAdmin, rbac.RoleSuperadmin, rbac.RoleSuperAdmin)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authed, authHandler.Me)
	authGroup.Get("/session", authed, authHandler.Session)
	authGroup.Put("/profile", authed, authHandler.UpdateProfile)
	authGroup.Get("/check-role", authed, authHandler.CheckRole)

	deletionHandler := NewDeletionHandler(deps.Deletions)
	requestsHandler := NewRequestsHandler(deps.Access, deps.Creations, deps.EmpDeletions)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	userHandler := NewUserHandler(deps.UserUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	// Admin
	admin := api.Group("/admin", authed, admins)
	admin.Post("/delete-employer", RequireCapability(deps.Gate, rbac.CapDeleteEmployers), deletionHandler.DeleteEmployer)
	admin.Delete("/companies/:id", RequireCapability(deps.Gate, rbac.CapDeleteEmployers), deletionHandler.DeleteCompany)
	admin.Get("/deletions", deletionHandler.ListAudits)
	admin.Get("/deletions/:id/receipt", deletionHandler.Receipt)
	admin.Get("/employer-applications", requestsHandler.ListEmployerApplications)
	admin.Put("/employer-applications", requestsHandler.ReviewEmployerApplication)
	admin.Get("/user-creation-requests", requestsHandler.ListUserCreations)
	admin.Put("/user-creation-requests", requestsHandler.ReviewUserCreation)
	admin.Get("/user-creation-requests/:id/credential", requestsHandler.RevealCredential)
	admin.Get("/employee-deletion-requests", requestsHandler.ListEmployeeDeletions)
	admin.Put("/employee-deletion-requests", requestsHandler.ReviewEmployeeDeletion)
	admin.Get("/users", userHandler.List)
	admin.Put("/users/:id/role", RequireCapability(deps.Gate, rbac.CapAssignRoles), userHandler.AssignRole)
	admin.Get("/companies", companyHandler.List)
	admin.Post("/companies", companyHandler.Create)
	admin.Get("/companies/:id", companyHandler.GetByID)
	admin.Get("/dashboard/stats", dashboardHandler.AdminStats)

	// Recruiter
	recruiter := api.Group("/recruiter", authed, RequireCapability(deps.Gate, rbac.CapApplyEmployerAccess))
	recruiter.Post("/employer-access", requestsHandler.ApplyEmployerAccess)
	recruiter.Get("/employer-access", requestsHandler.EmployerAccessStatus)

	// Employer
	teamHandler := NewTeamHandler(deps.TeamUC)
	employer := api.Group("/employer", authed)
	employer.Get("/company", companyHandler.Mine)
	employer.Put("/company", companyHandler.SaveMine)
	employer.Get("/employees", userHandler.Employees)
	employer.Get("/past-employees", userHandler.PastEmployees)
	employer.Put("/users/:id/role", userHandler.ChangeCompanyRole)
	employer.Post("/user-creation-requests", requestsHandler.CreateUserCreation)
	employer.Get("/user-creation-requests", requestsHandler.CompanyUserCreations)
	employer.Post("/deletion-requests", requestsHandler.CreateEmployeeDeletion)
	employer.Get("/deletion-requests", requestsHandler.CompanyEmployeeDeletions)
	employer.Post("/teams", teamHandler.Create)
	employer.Get("/teams", teamHandler.List)
	employer.Put("/teams/:id", teamHandler.Update)
	employer.Delete("/teams/:id", teamHandler.Delete)
	employer.Post("/teams/:id/members", teamHandler.AddMember)
	employer.Delete("/teams/:id/members/:userId", teamHandler.RemoveMember)

	// Jobs; the template route is registered before /:id
	jobHandler := NewJobHandler(deps.JobUC)
	manageJobs := RequireCapability(deps.Gate, rbac.CapManageJobs)
	jobs := api.Group("/jobs", authed)
	jobs.Get("/", jobHandler.List)
	jobs.Post("/", manageJobs, jobHandler.Create)
	jobs.Get("/import/template", manageJobs, jobHandler.ImportTemplate)
	jobs.Post("/import", manageJobs, jobHandler.Import)
	jobs.Get("/:id", jobHandler.Get)
	jobs.Put("/:id", manageJobs, jobHandler.Update)
	jobs.Delete("/:id", manageJobs, jobHandler.Delete)

	// Job applications
	jobAppHandler := NewJobApplicationHandler(deps.JobAppUC)
	reviewApps := RequireCapability(deps.Gate, rbac.CapReviewJobApplications)
	jobs.Get("/:id/applications", reviewApps, jobAppHandler.ListByJob)
	jobApps := api.Group("/job-applications", authed)
	jobApps.Post("/", RequireCapability(deps.Gate, rbac.CapApplyJobs), jobAppHandler.Apply)
	jobApps.Get("/mine", jobAppHandler.Mine)
	jobApps.Delete("/:id", jobAppHandler.Withdraw)
	jobApps.Put("/:id/status", reviewApps, jobAppHandler.UpdateStatus)

	// Candidates
	candidateHandler := NewCandidateHandler(deps.CandidateUC)
	candidates := api.Group("/candidates", authed)
	candidates.Post("/", candidateHandler.Submit)
	candidates.Get("/", candidateHandler.List)
	candidates.Put("/:id/status", candidateHandler.UpdateStatus)

	// Allocations; candidates of an allocation answer 200 even on denial
	allocationHandler := NewAllocationHandler(deps.AllocationUC)
	allocations := api.Group("/allocations", authed)
	allocations.Post("/", allocationHandler.Create)
	allocations.Get("/", allocationHandler.List)
	allocations.Get("/:id", allocationHandler.Get)
	allocations.Get("/:id/candidates", allocationHandler.Candidates)

	// Reports
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := api.Group("/reports", authed)
	reports.Post("/", reportHandler.Create)
	reports.Get("/", reportHandler.List)
	reports.Get("/unread-count", reportHandler.UnreadCount)
	reports.Put("/:id/read", reportHandler.MarkRead)

	// Resume
	resumeHandler := NewResumeHandler(deps.ResumeUC, deps.MaxResumeBytes)
	api.Post("/resume/parse", authed, RequireCapability(deps.Gate, rbac.CapParseResume), resumeHandler.Parse)
}
