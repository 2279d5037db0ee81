package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/talent-api/docs"
	"github.com/jhoicas/talent-api/internal/application/auth"
	"github.com/jhoicas/talent-api/internal/application/deletion"
	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/application/requests"
	"github.com/jhoicas/talent-api/internal/application/rolechange"
	"github.com/jhoicas/talent-api/internal/application/usecase"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	infraai "github.com/jhoicas/talent-api/internal/infrastructure/ai"
	"github.com/jhoicas/talent-api/internal/infrastructure/cache"
	"github.com/jhoicas/talent-api/internal/infrastructure/excel"
	"github.com/jhoicas/talent-api/internal/infrastructure/metrics"
	"github.com/jhoicas/talent-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/talent-api/internal/infrastructure/pdf"
	"github.com/jhoicas/talent-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/talent-api/internal/interfaces/http"
	"github.com/jhoicas/talent-api/pkg/config"
	"github.com/jhoicas/talent-api/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API. Configuration comes from the environment or a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().Str("env", cfg.App.Env).Str("app", cfg.App.Name).Bool("strict_tenant", cfg.Auth.StrictTenantMode).Msg("starting")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	prom := metrics.New("talent")
	deps, err := buildDeps(ctx, cfg, pool, prom, log)
	if err != nil {
		return err
	}

	bodyLimit := 4 * 1024 * 1024
	if cfg.Resume.MaxUploadBytes+1024*1024 > bodyLimit {
		bodyLimit = cfg.Resume.MaxUploadBytes + 1024*1024
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler(log),
		BodyLimit:    bodyLimit,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Minute,
		IdleTimeout:  time.Minute,
	})
	app.Use(recover.New())
	app.Use(prom.Middleware())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
	return nil
}

// buildDeps wires repositories, adapters and use cases.
func buildDeps(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, prom *metrics.Prometheus, log *logger.Logger) (httpRouter.RouterDeps, error) {
	gate := rbac.NewGate(cfg.Auth.StrictTenantMode)
	tx := postgres.NewTxRunner(pool)

	users := postgres.NewUserRepository(pool)
	companies := postgres.NewCompanyRepository(pool)
	roleChanges := postgres.NewRoleChangeRepository(pool)

	var notifier ports.Notifier = ports.NopNotifier{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Secret)
	}

	var creds ports.CredentialCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return httpRouter.RouterDeps{}, fmt.Errorf("connect redis: %w", err)
		}
		creds = cache.NewRedisCache(client, cfg.Redis.CredentialTTL)
	} else {
		creds = cache.NewMemoryCache(cfg.Redis.CredentialTTL)
	}

	tracker := rolechange.NewTracker(roleChanges, notifier, log)
	authUC := auth.NewAuthUseCase(users, tracker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	orchestrator := deletion.NewOrchestrator(tx, postgres.NewDeletionAuditRepository(pool), gate, log, deletion.Options{
		Receipts: infrapdf.NewReceiptRenderer(cfg.App.Name),
		Notifier: notifier,
		Metrics:  prom,
		Timeout:  cfg.Deletion.Timeout,
	})

	reqDeps := requests.Deps{Tx: tx, Users: users, Gate: gate, Notifier: notifier, Metrics: prom, Log: log}
	guard := usecase.NewGuard(gate, users, prom, log)

	jobs := postgres.NewJobRepository(pool)

	heuristic := infraai.NewHeuristicParser()
	parser := resumeParser(cfg.AI, heuristic)
	log.Info().Str("parser", parser.Name()).Msg("resume parser selected")

	return httpRouter.RouterDeps{
		AuthUC:       authUC,
		Deletions:    orchestrator,
		Access:       requests.NewEmployerAccess(reqDeps, postgres.NewEmployerApplicationRepository(pool), tracker),
		Creations:    requests.NewUserCreation(reqDeps, postgres.NewUserCreationRequestRepository(pool), creds),
		EmpDeletions: requests.NewEmployeeDeletion(reqDeps, postgres.NewEmployeeDeletionRequestRepository(pool)),
		CompanyUC:    usecase.NewCompanyUseCase(guard, companies, users),
		UserUC:       usecase.NewUserUseCase(guard, users, tracker, log),
		TeamUC:       usecase.NewTeamUseCase(guard, postgres.NewTeamRepository(pool), users),
		JobUC:        usecase.NewJobUseCase(guard, jobs, excel.NewJobSheet(), log),
		JobAppUC:     usecase.NewJobApplicationUseCase(guard, postgres.NewJobApplicationRepository(pool), jobs),
		CandidateUC:  usecase.NewCandidateUseCase(guard, postgres.NewCandidateRepository(pool), postgres.NewAllocationRepository(pool)),
		AllocationUC: usecase.NewAllocationUseCase(guard, postgres.NewAllocationRepository(pool), postgres.NewCandidateRepository(pool)),
		ReportUC:     usecase.NewReportUseCase(guard, postgres.NewReportRepository(pool), users),
		ResumeUC: usecase.NewResumeUseCase(guard, infrapdf.NewTextExtractor(), parser, heuristic,
			int64(cfg.Resume.MaxUploadBytes), log),
		DashboardUC: usecase.NewDashboardUseCase(guard, postgres.NewStatsRepository(pool), users),

		Gate:           gate,
		Cookie:         httpRouter.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.SecureCookie},
		MaxResumeBytes: int64(cfg.Resume.MaxUploadBytes),
		Log:            log,
	}, nil
}

// resumeParser picks the configured LLM provider; without a key the keyword
// parser is used directly.
func resumeParser(cfg config.AIConfig, heuristic ports.ResumeParser) ports.ResumeParser {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			return infraai.NewAnthropicParser(cfg.AnthropicAPIKey, cfg.AnthropicModel, "")
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return infraai.NewGeminiParser(cfg.GeminiAPIKey, cfg.GeminiModel, "")
		}
	}
	return heuristic
}
