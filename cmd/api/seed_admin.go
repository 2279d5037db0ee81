package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/talent-api/internal/application/auth"
	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/application/rolechange"
	"github.com/jhoicas/talent-api/internal/infrastructure/postgres"
	"github.com/jhoicas/talent-api/pkg/config"
	"github.com/jhoicas/talent-api/pkg/logger"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or promote the super admin account",
	Long: `Create a superadmin with the given email, or promote and reactivate an
existing account. The password may also come from SEED_ADMIN_PASSWORD.`,
	RunE: runSeedAdmin,
}

func init() {
	seedAdminCmd.Flags().String("email", "", "admin email")
	seedAdminCmd.Flags().String("password", "", "admin password (min 8 characters)")
	seedAdminCmd.Flags().String("name", "Administrator", "display name")
	_ = seedAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(seedAdminCmd)
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")
	if password == "" {
		password = os.Getenv("SEED_ADMIN_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := cmd.Context()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	tracker := rolechange.NewTracker(postgres.NewRoleChangeRepository(pool), ports.NopNotifier{}, log)
	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), tracker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	user, err := uc.EnsureAdmin(ctx, email, password, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin ready: %s (%s)\n", user.Email, user.ID)
	return nil
}
