package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/migrations"
)

// migrationsDir is where create writes new files
const migrationsDir = "migrations"

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage tool state migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Write a new empty SQL migration into ./migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// create writes to disk, not the embedded set
			goose.SetBaseFS(nil)
			return goose.Create(nil, migrationsDir, args[0], "sql")
		},
	})

	cmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", func(ctx context.Context, db *sql.DB, _ printer) error {
			return goose.UpContext(ctx, db, ".")
		}),
		migrateStep("down", "Roll back the latest migration", func(ctx context.Context, db *sql.DB, _ printer) error {
			return goose.DownContext(ctx, db, ".")
		}),
		migrateStep("status", "Print the state of every migration", func(ctx context.Context, db *sql.DB, _ printer) error {
			return goose.StatusContext(ctx, db, ".")
		}),
		migrateStep("version", "Print the current schema version", func(ctx context.Context, db *sql.DB, p printer) error {
			v, err := goose.GetDBVersionContext(ctx, db)
			if err != nil {
				return err
			}
			p.Info("Schema version %d", v)
			return nil
		}),
	)
	return cmd
}

// migrateStep wraps a goose operation against the configured database and
// the embedded migration set.
func migrateStep(name, short string, step func(context.Context, *sql.DB, printer) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout())

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := sql.Open("pgx", cfg.GetDBConnString())
			if err != nil {
				return err
			}
			defer db.Close()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
				return err
			}

			if err := step(cmd.Context(), db, p); err != nil {
				return fmt.Errorf("migrate %s: %w", name, err)
			}
			p.Success("migrate %s complete", name)
			return nil
		},
	}
}
