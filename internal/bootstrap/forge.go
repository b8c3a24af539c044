package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/ToolForge_Go/configs"
	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/internal/event"
	"github.com/osse101/ToolForge_Go/internal/forge"
	"github.com/osse101/ToolForge_Go/internal/material"
	"github.com/osse101/ToolForge_Go/internal/modifier"
	"github.com/osse101/ToolForge_Go/internal/registry"
	"github.com/osse101/ToolForge_Go/internal/repair"
	"github.com/osse101/ToolForge_Go/internal/repository"
	"github.com/osse101/ToolForge_Go/internal/tool"
	"github.com/osse101/ToolForge_Go/internal/toolstate"
	"github.com/osse101/ToolForge_Go/internal/validation"
)

// LoadRegistry fills a registry with the material pack named by
// cfg.MaterialsConfig and the built-in modifiers, then freezes it.
func LoadRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, *material.Pack, error) {
	reg := registry.New()

	pack, err := material.LoadInto(ctx, material.NewLoader(configs.FS), cfg.MaterialsConfig, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadMaterials, err)
	}

	for _, m := range modifier.Builtins() {
		if err := reg.RegisterModifier(m); err != nil {
			return nil, nil, fmt.Errorf("%s %s: %w", ErrMsgFailedRegisterModifier, m.ID(), err)
		}
	}
	reg.Freeze()

	slog.Info(LogMsgMaterialsLoaded,
		"path", cfg.MaterialsConfig,
		"materials", len(reg.Materials()),
		"modifiers", len(reg.Modifiers()),
		"checksum", pack.Checksum)

	return reg, pack, nil
}

// NewForgeService assembles the composition, repair and modifier engines
// around a frozen registry.
func NewForgeService(cfg *config.Config, reg *registry.Registry, repo repository.ToolState, publisher event.Publisher) forge.Service {
	types := tool.StandardCatalog()
	builder := tool.NewBuilder(reg)
	codec := toolstate.NewCodec(validation.NewSchemaValidator(configs.FS))
	modifiers := modifier.NewEngine(reg)

	return forge.NewService(forge.Dependencies{
		Repo:      repo,
		Materials: reg,
		Types:     types,
		Builder:   builder,
		Rebuilder: toolstate.NewRebuilder(codec, builder, types, modifiers),
		Repairer:  repair.NewEngine(reg, types, repair.Options{RequireAllConsumed: cfg.RepairRequireAllConsumed}),
		Modifiers: modifiers,
		Publisher: publisher,
		CacheSize: cfg.ToolCacheSize,
		CacheTTL:  cfg.ToolCacheTTL,
	})
}
