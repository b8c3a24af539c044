package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// ToolStateRepository implements repository.ToolState.
// The data column is JSON, not JSONB, so bytes round-trip exactly.
type ToolStateRepository struct {
	db *pgxpool.Pool
}

// NewToolStateRepository creates a new tool state repository
func NewToolStateRepository(db *pgxpool.Pool) *ToolStateRepository {
	return &ToolStateRepository{db: db}
}

// checkID rejects ids the tool_id column could never hold. Postgres would
// fail them with invalid_text_representation; callers see them as unknown.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: '%s'", domain.ErrToolNotFound, id)
	}
	return nil
}

// Get retrieves a stored tool by id
func (r *ToolStateRepository) Get(ctx context.Context, id string) (*domain.StoredTool, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `
		SELECT tool_id::text, tool_type, data, revision, created_at, updated_at
		FROM tool_states
		WHERE tool_id = $1
	`
	var tool domain.StoredTool
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tool.ID,
		&tool.ToolType,
		&tool.Data,
		&tool.Revision,
		&tool.CreatedAt,
		&tool.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrToolNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToGetTool, id, err)
	}
	return &tool, nil
}

// Insert stores a new tool at revision 1
func (r *ToolStateRepository) Insert(ctx context.Context, tool *domain.StoredTool) error {
	if _, err := uuid.Parse(tool.ID); err != nil {
		return fmt.Errorf("%w: tool id '%s' is not a UUID", domain.ErrInvalidInput, tool.ID)
	}
	query := `
		INSERT INTO tool_states (tool_id, tool_type, data, revision)
		VALUES ($1, $2, $3, 1)
		RETURNING revision, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, tool.ID, tool.ToolType, tool.Data).Scan(
		&tool.Revision,
		&tool.CreatedAt,
		&tool.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
			return fmt.Errorf("%w: tool '%s' already exists", domain.ErrInvalidInput, tool.ID)
		}
		return fmt.Errorf(ErrMsgFailedToInsertTool, tool.ID, err)
	}
	return nil
}

// Replace swaps the stored bytes when the revision still matches
func (r *ToolStateRepository) Replace(ctx context.Context, id string, expectedRevision int64, data []byte) (int64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	query := `
		UPDATE tool_states
		SET data = $3, revision = revision + 1, updated_at = NOW()
		WHERE tool_id = $1 AND revision = $2
		RETURNING revision
	`
	var revision int64
	err := r.db.QueryRow(ctx, query, id, expectedRevision, data).Scan(&revision)
	if err == nil {
		return revision, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf(ErrMsgFailedToReplaceTool, id, err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tool_states WHERE tool_id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf(ErrMsgFailedToReplaceTool, id, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: '%s'", domain.ErrToolNotFound, id)
	}
	return 0, fmt.Errorf("%w: tool '%s' is no longer at revision %d", domain.ErrRevisionConflict, id, expectedRevision)
}
