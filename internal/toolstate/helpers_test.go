package toolstate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/ToolForge_Go/configs"
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/modifier"
	"github.com/osse101/ToolForge_Go/internal/part"
	"github.com/osse101/ToolForge_Go/internal/registry"
	"github.com/osse101/ToolForge_Go/internal/tool"
	"github.com/osse101/ToolForge_Go/internal/validation"
)

type fixture struct {
	registry  *registry.Registry
	catalog   *tool.Catalog
	builder   *tool.Builder
	codec     *Codec
	rebuilder *Rebuilder
}

func twoSlotType() *tool.Type {
	return &tool.Type{
		Name: "test_pick",
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindPickHead, domain.StatKindHead),
		},
		Categories: []domain.Category{domain.CategoryTool, domain.CategoryHarvest},
		Strategy:   tool.SimpleTool{},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := registry.New()
	require.NoError(t, r.RegisterMaterial(domain.Material{
		ID:    "wood",
		Color: "#8e661b",
		Stats: domain.MaterialStats{
			Handle: &domain.HandleStats{Modifier: 1.0},
			Extra:  &domain.ExtraStats{ExtraDurability: 15},
		},
		Traits: map[domain.StatKind][]string{domain.StatKindHandle: {"ecological"}},
	}))
	require.NoError(t, r.RegisterMaterial(domain.Material{
		ID:    "stone",
		Color: "#999999",
		Stats: domain.MaterialStats{
			Head: &domain.HeadStats{Durability: 131, MiningSpeed: 4, HarvestLevel: 1, Attack: 1},
		},
		Traits: map[domain.StatKind][]string{domain.StatKindHead: {"cheapskate"}},
	}))
	require.NoError(t, r.RegisterMaterial(domain.Material{
		ID:    "iron",
		Color: "#dddddd",
		Stats: domain.MaterialStats{
			Head:   &domain.HeadStats{Durability: 250, MiningSpeed: 6, HarvestLevel: 2, Attack: 2},
			Handle: &domain.HandleStats{Modifier: 1.3},
			Extra:  &domain.ExtraStats{ExtraDurability: 50},
		},
	}))
	for _, m := range modifier.Builtins() {
		require.NoError(t, r.RegisterModifier(m))
	}
	r.Freeze()

	catalog, err := tool.NewCatalog(twoSlotType(), tool.Pickaxe())
	require.NoError(t, err)

	builder := tool.NewBuilder(r)
	codec := NewCodec(validation.NewSchemaValidator(configs.FS))

	return &fixture{
		registry:  r,
		catalog:   catalog,
		builder:   builder,
		codec:     codec,
		rebuilder: NewRebuilder(codec, builder, catalog, modifier.NewEngine(r)),
	}
}

func (f *fixture) build(t *testing.T, typeName string, ids ...string) *domain.ToolDocument {
	t.Helper()
	typ, err := f.catalog.Get(typeName)
	require.NoError(t, err)
	doc, err := f.builder.BuildFromIDs(typ, ids)
	require.NoError(t, err)
	return doc
}

func (f *fixture) encode(t *testing.T, doc *domain.ToolDocument) []byte {
	t.Helper()
	data, err := f.codec.Encode(doc)
	require.NoError(t, err)
	return data
}

// setRegion replaces one top-level region of encoded document bytes
func setRegion(t *testing.T, data []byte, region string, value any) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc[region] = value
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}

// setField replaces one field inside a region of encoded document bytes
func setField(t *testing.T, data []byte, region, field string, value any) []byte {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	var fields map[string]any
	require.NoError(t, json.Unmarshal(doc[region], &fields))
	fields[field] = value
	return setRegion(t, data, region, fields)
}
