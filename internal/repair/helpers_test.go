package repair

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/part"
	"github.com/osse101/ToolForge_Go/internal/registry"
	"github.com/osse101/ToolForge_Go/internal/tool"
)

const (
	itemStoneIngot = "stone_ingot"
	itemIronIngot  = "iron_ingot"
	itemRepairKit  = "repair_kit"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.New()
	require.NoError(t, r.RegisterMaterial(domain.Material{
		ID:    "wood",
		Stats: domain.MaterialStats{Handle: &domain.HandleStats{Modifier: 1.0}},
		Match: []domain.MatchRule{{Item: "planks", Value: 1}},
	}))
	require.NoError(t, r.RegisterMaterial(domain.Material{
		ID:    "stone",
		Stats: domain.MaterialStats{Head: &domain.HeadStats{Durability: 131}},
		Match: []domain.MatchRule{
			{Item: itemStoneIngot, Value: 1},
			{Item: "cobblestone", Value: 1},
			{Item: "stone_block", Value: 9},
		},
	}))
	require.NoError(t, r.RegisterMaterial(domain.Material{
		ID:    "iron",
		Stats: domain.MaterialStats{Head: &domain.HeadStats{Durability: 250}},
		Match: []domain.MatchRule{{Item: itemIronIngot, Value: 1}},
	}))
	r.Freeze()
	return r
}

func twoSlotType() *tool.Type {
	return &tool.Type{
		Name: "test_pick",
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindPickHead, domain.StatKindHead),
		},
		Categories: []domain.Category{domain.CategoryTool},
		Strategy:   tool.SimpleTool{},
	}
}

// doubleHeadType is repaired through both of its head slots
func doubleHeadType() *tool.Type {
	return &tool.Type{
		Name: "double_axe",
		Requirements: []part.Requirement{
			part.New(part.KindAxeHead, domain.StatKindHead),
			part.New(part.KindAxeHead, domain.StatKindHead),
		},
		Strategy:    tool.SimpleTool{},
		RepairParts: []int{0, 1},
	}
}

// kitType also accepts repair kits, each worth 20 raw durability
func kitType() *tool.Type {
	typ := twoSlotType()
	typ.Name = "kit_pick"
	typ.CustomRepair = func(_ *domain.Material, candidates []domain.ItemStack) int {
		for i := range candidates {
			if candidates[i].Item == itemRepairKit && candidates[i].Quantity > 0 {
				candidates[i].Quantity--
				if candidates[i].Quantity == 0 {
					candidates[i] = domain.ItemStack{}
				}
				return 20
			}
		}
		return 0
	}
	return typ
}

type fixture struct {
	catalog *tool.Catalog
	builder *tool.Builder
	engine  *Engine
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	r := newTestRegistry(t)
	catalog, err := tool.NewCatalog(twoSlotType(), doubleHeadType(), kitType())
	require.NoError(t, err)

	return &fixture{
		catalog: catalog,
		builder: tool.NewBuilder(r),
		engine:  NewEngine(r, catalog, opts),
	}
}

// damaged builds a tool and applies the given damage
func (f *fixture) damaged(t *testing.T, typeName string, damage int, ids ...string) *domain.ToolDocument {
	t.Helper()
	typ, err := f.catalog.Get(typeName)
	require.NoError(t, err)
	doc, err := f.builder.BuildFromIDs(typ, ids)
	require.NoError(t, err)
	doc.Tool.Damage = damage
	return doc
}

func stack(item string, quantity int) domain.ItemStack {
	return domain.ItemStack{Item: item, Quantity: quantity}
}
