package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/jhoicas/talent-api/migrations"
	"github.com/jhoicas/talent-api/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down [version]|status]",
	Short: "Run database migrations",
	Long:  `Apply or roll back the embedded SQL migrations. The DSN defaults to the configured database.`,
	Args:  migrateArgs,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().String("dsn", "", "PostgreSQL DSN (defaults to DATABASE_URL / DB_*)")
	rootCmd.AddCommand(migrateCmd)
}

func migrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "up", "status":
		if len(args) == 2 {
			return fmt.Errorf("%s takes no version", args[0])
		}
	case "down":
		if len(args) == 2 {
			if v, err := strconv.Atoi(args[1]); err != nil || v < 0 {
				return fmt.Errorf("invalid version %q", args[1])
			}
		}
	default:
		return fmt.Errorf("unknown migrate command %q", args[0])
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	version := int64(-1)
	if len(args) > 1 {
		v, _ := strconv.Atoi(args[1])
		version = int64(v)
	}

	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dsn = cfg.DB.ConnectionString()
	}
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse DSN: %w", err)
	}
	db := stdlib.OpenDB(*connCfg)
	defer db.Close()

	ctx := cmd.Context()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	out := cmd.OutOrStdout()
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		printResults(out, results)
		return err
	case "down":
		if version < 0 {
			res, err := provider.Down(ctx)
			if res != nil {
				printResults(out, []*goose.MigrationResult{res})
			}
			return err
		}
		results, err := provider.DownTo(ctx, version)
		printResults(out, results)
		return err
	default:
		return migrationStatus(ctx, provider, out)
	}
}

func printResults(out io.Writer, results []*goose.MigrationResult) {
	if len(results) == 0 {
		fmt.Fprintln(out, "no migrations to run")
		return
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-4s %-40s %s\n", r.Direction, r.Source.Path, r.Duration.Round(time.Millisecond))
	}
}

func migrationStatus(ctx context.Context, provider *goose.Provider, out io.Writer) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "    Applied At                  Migration")
	fmt.Fprintln(out, "    =======================================")
	for _, s := range statuses {
		appliedAt := "Pending"
		if s.State == goose.StateApplied {
			appliedAt = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(out, "    %-24s -- %s\n", appliedAt, s.Source.Path)
	}
	return nil
}
