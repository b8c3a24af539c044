package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/ToolForge_Go/internal/database"
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/migrations"
)

// setupPool starts a container, applies migrations and returns a pool.
// The test is skipped when Docker is unavailable.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	var pgContainer *postgres.PostgresContainer
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		pgContainer, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
	}()
	if err != nil || pgContainer == nil {
		t.Skipf("Skipping integration test: postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPool(ctx, database.PoolConfig{ConnString: connStr, MaxConns: 5, MaxConnIdleTime: time.Minute, MaxConnLifetime: 5 * time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool, migrations.FS))
	return pool
}

func TestToolStateRepository_Integration(t *testing.T) {
	pool := setupPool(t)
	repo := NewToolStateRepository(pool)
	ctx := context.Background()

	id := uuid.NewString()
	// Key order and spacing must survive storage unchanged.
	data := []byte(`{"version":2,  "tool_type":"pickaxe","baseData":{"materials":["wood","stone"],"modifiers":[]}}`)

	t.Run("insert and get round-trips bytes", func(t *testing.T) {
		tool := &domain.StoredTool{ID: id, ToolType: "pickaxe", Data: data}
		require.NoError(t, repo.Insert(ctx, tool))
		assert.Equal(t, int64(1), tool.Revision)

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(got.Data))
		assert.Equal(t, "pickaxe", got.ToolType)
	})

	t.Run("duplicate insert", func(t *testing.T) {
		err := repo.Insert(ctx, &domain.StoredTool{ID: id, ToolType: "pickaxe", Data: data})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("replace with matching revision", func(t *testing.T) {
		rev, err := repo.Replace(ctx, id, 1, []byte(`{"version":2}`))
		require.NoError(t, err)
		assert.Equal(t, int64(2), rev)
	})

	t.Run("replace with stale revision", func(t *testing.T) {
		_, err := repo.Replace(ctx, id, 1, []byte(`{"version":2,"stale":true}`))
		assert.ErrorIs(t, err, domain.ErrRevisionConflict)

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, `{"version":2}`, string(got.Data))
	})

	t.Run("unknown id", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := repo.Get(ctx, missing)
		assert.ErrorIs(t, err, domain.ErrToolNotFound)

		_, err = repo.Replace(ctx, missing, 1, []byte(`{}`))
		assert.ErrorIs(t, err, domain.ErrToolNotFound)
	})

	t.Run("id that is not a uuid", func(t *testing.T) {
		_, err := repo.Get(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrToolNotFound)

		_, err = repo.Replace(ctx, "abc", 1, []byte(`{}`))
		assert.ErrorIs(t, err, domain.ErrToolNotFound)
	})
}

func TestRunMigrations_Idempotent(t *testing.T) {
	pool := setupPool(t)

	require.NoError(t, database.RunMigrations(context.Background(), pool, migrations.FS))

	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'tool_states')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
}
