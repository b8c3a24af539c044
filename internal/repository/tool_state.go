package repository

import (
	"context"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// ToolState defines the interface for tool document persistence.
// Stored bytes are opaque here; encoding belongs to the toolstate package.
type ToolState interface {
	// Get returns domain.ErrToolNotFound when the id is unknown
	Get(ctx context.Context, id string) (*domain.StoredTool, error)

	// Insert stores a new tool at revision 1
	Insert(ctx context.Context, tool *domain.StoredTool) error

	// Replace swaps the stored bytes only if the revision still matches,
	// returning the new revision or domain.ErrRevisionConflict
	Replace(ctx context.Context, id string, expectedRevision int64, data []byte) (int64, error)
}
