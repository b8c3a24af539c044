// Package memory holds in-process repository implementations for tests and dev mode.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// ToolStateRepository implements repository.ToolState in memory
type ToolStateRepository struct {
	mu    sync.RWMutex
	tools map[string]domain.StoredTool
	now   func() time.Time
}

// NewToolStateRepository creates an empty repository
func NewToolStateRepository() *ToolStateRepository {
	return &ToolStateRepository{
		tools: make(map[string]domain.StoredTool),
		now:   time.Now,
	}
}

// Get returns a copy of the stored tool
func (r *ToolStateRepository) Get(_ context.Context, id string) (*domain.StoredTool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrToolNotFound, id)
	}
	tool.Data = append([]byte(nil), tool.Data...)
	return &tool, nil
}

// Insert stores a new tool at revision 1
func (r *ToolStateRepository) Insert(_ context.Context, tool *domain.StoredTool) error {
	if tool == nil || tool.ID == "" {
		return fmt.Errorf("%w: tool id is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[tool.ID]; ok {
		return fmt.Errorf("%w: tool '%s' already exists", domain.ErrInvalidInput, tool.ID)
	}

	now := r.now()
	tool.Revision = 1
	tool.CreatedAt = now
	tool.UpdatedAt = now

	stored := *tool
	stored.Data = append([]byte(nil), tool.Data...)
	r.tools[tool.ID] = stored
	return nil
}

// Replace swaps the stored bytes when the revision still matches
func (r *ToolStateRepository) Replace(_ context.Context, id string, expectedRevision int64, data []byte) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tool, ok := r.tools[id]
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", domain.ErrToolNotFound, id)
	}
	if tool.Revision != expectedRevision {
		return 0, fmt.Errorf("%w: tool '%s' is no longer at revision %d", domain.ErrRevisionConflict, id, expectedRevision)
	}

	tool.Data = append([]byte(nil), data...)
	tool.Revision++
	tool.UpdatedAt = r.now()
	r.tools[id] = tool
	return tool.Revision, nil
}

// Len returns the number of stored tools
func (r *ToolStateRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
