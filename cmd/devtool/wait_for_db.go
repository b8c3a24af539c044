package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/osse101/ToolForge_Go/internal/config"
)

const (
	defaultWaitAttempts = 30
	defaultWaitInterval = 2 * time.Second
)

func newWaitForDBCmd() *cobra.Command {
	var (
		attempts int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait-for-db",
		Short: "Wait for the database to accept connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if attempts < 1 {
				return fmt.Errorf("--attempts must be a positive integer, got %d", attempts)
			}
			p := newPrinter(cmd.OutOrStdout())
			p.Header("Waiting for database...")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.UsesPostgres() {
				p.Info("STORAGE=%s, nothing to wait for", cfg.Storage)
				return nil
			}

			for i := 0; i < attempts; i++ {
				err = ping(cfg.GetDBConnString())
				if err == nil {
					p.Success("Database is ready")
					return nil
				}

				p.Warning("Database not ready (%d/%d): %v", i+1, attempts, err)
				if i < attempts-1 {
					time.Sleep(interval)
				}
			}
			return fmt.Errorf("database failed to become ready after %d attempts", attempts)
		},
	}

	cmd.Flags().IntVar(&attempts, "attempts", defaultWaitAttempts, "Number of connection attempts")
	cmd.Flags().DurationVar(&interval, "interval", defaultWaitInterval, "Delay between attempts")
	return cmd
}

func ping(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}
