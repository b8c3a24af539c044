package forge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ToolForge_Go/configs"
	"github.com/osse101/ToolForge_Go/internal/database/memory"
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/event"
	"github.com/osse101/ToolForge_Go/internal/material"
	"github.com/osse101/ToolForge_Go/internal/modifier"
	"github.com/osse101/ToolForge_Go/internal/registry"
	"github.com/osse101/ToolForge_Go/internal/repair"
	"github.com/osse101/ToolForge_Go/internal/repository"
	"github.com/osse101/ToolForge_Go/internal/tool"
	"github.com/osse101/ToolForge_Go/internal/toolstate"
	"github.com/osse101/ToolForge_Go/internal/validation"
)

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}

// published returns the event types in publish order
func (m *MockPublisher) published() []event.Type {
	var types []event.Type
	for _, call := range m.Calls {
		if call.Method == "PublishWithRetry" {
			types = append(types, call.Arguments.Get(1).(event.Event).Type)
		}
	}
	return types
}

// MockToolStateRepo is a testify mock of repository.ToolState
type MockToolStateRepo struct {
	mock.Mock
}

func (m *MockToolStateRepo) Get(ctx context.Context, id string) (*domain.StoredTool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredTool), args.Error(1)
}

func (m *MockToolStateRepo) Insert(ctx context.Context, tool *domain.StoredTool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolStateRepo) Replace(ctx context.Context, id string, expectedRevision int64, data []byte) (int64, error) {
	args := m.Called(ctx, id, expectedRevision, data)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	registry  *registry.Registry
	codec     *toolstate.Codec
	builder   *tool.Builder
	types     *tool.Catalog
	repo      *memory.ToolStateRepository
	publisher *MockPublisher
	svc       *service
}

type fixtureOption func(*Dependencies)

func withRepo(repo repository.ToolState) fixtureOption {
	return func(d *Dependencies) { d.Repo = repo }
}

func withoutCache() fixtureOption {
	return func(d *Dependencies) { d.CacheSize = 0 }
}

// newFixture wires the service to the embedded material pack, the standard
// tool types and an in-memory repository.
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	reg := registry.New()
	_, err := material.LoadInto(context.Background(), material.NewLoader(configs.FS), configs.MaterialsPath, reg)
	require.NoError(t, err)
	for _, m := range modifier.Builtins() {
		require.NoError(t, reg.RegisterModifier(m))
	}
	reg.Freeze()

	types := tool.StandardCatalog()
	builder := tool.NewBuilder(reg)
	codec := toolstate.NewCodec(validation.NewSchemaValidator(configs.FS))
	modifiers := modifier.NewEngine(reg)

	repo := memory.NewToolStateRepository()
	publisher := &MockPublisher{}
	publisher.On("PublishWithRetry", mock.Anything, mock.Anything).Return()

	deps := Dependencies{
		Repo:      repo,
		Materials: reg,
		Types:     types,
		Builder:   builder,
		Rebuilder: toolstate.NewRebuilder(codec, builder, types, modifiers),
		Repairer:  repair.NewEngine(reg, types, repair.Options{}),
		Modifiers: modifiers,
		Publisher: publisher,
		CacheSize: 16,
		CacheTTL:  0,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &fixture{
		registry:  reg,
		codec:     codec,
		builder:   builder,
		types:     types,
		repo:      repo,
		publisher: publisher,
		svc:       NewService(deps).(*service),
	}
}

// store writes raw bytes as a tool, bypassing the service
func (f *fixture) store(t *testing.T, id, toolType string, data []byte) {
	t.Helper()
	require.NoError(t, f.repo.Insert(context.Background(), &domain.StoredTool{ID: id, ToolType: toolType, Data: data}))
}

func (f *fixture) encoded(t *testing.T, toolType string, ids ...string) []byte {
	t.Helper()
	typ, err := f.types.Get(toolType)
	require.NoError(t, err)
	doc, err := f.builder.BuildFromIDs(typ, ids)
	require.NoError(t, err)
	data, err := f.codec.Encode(doc)
	require.NoError(t, err)
	return data
}
