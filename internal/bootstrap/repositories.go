package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/internal/database"
	"github.com/osse101/ToolForge_Go/internal/database/memory"
	"github.com/osse101/ToolForge_Go/internal/database/postgres"
	"github.com/osse101/ToolForge_Go/internal/repository"
	"github.com/osse101/ToolForge_Go/migrations"
)

// ToolStorage is the selected tool state backend. Pool is nil for memory.
type ToolStorage struct {
	Repo repository.ToolState
	Pool *pgxpool.Pool
}

// InitializeToolStorage opens the backend named by cfg.Storage. Postgres is
// migrated before the repository is handed out.
func InitializeToolStorage(ctx context.Context, cfg *config.Config) (*ToolStorage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		slog.Info(LogMsgToolStateBackend, "storage", cfg.Storage)
		return &ToolStorage{Repo: memory.NewToolStateRepository()}, nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, database.PoolConfig{
			ConnString:      cfg.GetDBConnString(),
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
		}
		if err := database.RunMigrations(ctx, pool, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedRunMigrations, err)
		}
		slog.Info(LogMsgToolStateBackend, "storage", cfg.Storage, "db_host", cfg.DBHost, "db_name", cfg.DBName)
		return &ToolStorage{Repo: postgres.NewToolStateRepository(pool), Pool: pool}, nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnsupportedStorage, cfg.Storage)
	}
}
