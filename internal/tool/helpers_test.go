package tool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/part"
	"github.com/osse101/ToolForge_Go/internal/registry"
)

// newTestRegistry returns a frozen registry with a small material set
func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.New()
	materials := []domain.Material{
		{
			ID:    "wood",
			Color: "#8e661b",
			Stats: domain.MaterialStats{
				Head:   &domain.HeadStats{Durability: 35, MiningSpeed: 2, HarvestLevel: 0, Attack: 2},
				Handle: &domain.HandleStats{Modifier: 1.0, Durability: 0},
				Extra:  &domain.ExtraStats{ExtraDurability: 15},
			},
			Traits: map[domain.StatKind][]string{
				domain.StatKindHandle: {"ecological"},
				domain.StatKindExtra:  {"ecological"},
			},
		},
		{
			ID:    "stone",
			Color: "#999999",
			Stats: domain.MaterialStats{
				Head:  &domain.HeadStats{Durability: 131, MiningSpeed: 4, HarvestLevel: 1, Attack: 3},
				Extra: &domain.ExtraStats{ExtraDurability: 0},
			},
			Traits: map[domain.StatKind][]string{
				domain.StatKindHead: {"cheapskate", "cheap"},
			},
			Match: []domain.MatchRule{{Item: "cobblestone", Value: 1}},
		},
		{
			ID:    "iron",
			Color: "#dddddd",
			Stats: domain.MaterialStats{
				Head:   &domain.HeadStats{Durability: 204, MiningSpeed: 6, HarvestLevel: 2, Attack: 4},
				Handle: &domain.HandleStats{Modifier: 0.85, Durability: 60},
				Extra:  &domain.ExtraStats{ExtraDurability: 50},
			},
			Traits: map[domain.StatKind][]string{
				domain.StatKindHead:   {"magnetic"},
				domain.StatKindHandle: {"magnetic"},
			},
		},
		{
			ID:    "feather",
			Color: "#eeeeee",
			Stats: domain.MaterialStats{
				Extra: &domain.ExtraStats{},
			},
		},
	}
	for _, m := range materials {
		require.NoError(t, r.RegisterMaterial(m))
	}
	r.Freeze()
	return r
}

// twoSlotType is the handle + head tool used throughout the tests
func twoSlotType() *Type {
	return &Type{
		Name: "test_pick",
		Requirements: []part.Requirement{
			part.New(part.KindToolRod, domain.StatKindHandle),
			part.New(part.KindPickHead, domain.StatKindHead),
		},
		Categories: []domain.Category{domain.CategoryTool, domain.CategoryHarvest},
		Strategy:   SimpleTool{},
	}
}
