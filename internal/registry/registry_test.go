package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/modifier"
)

func stone() domain.Material {
	return domain.Material{
		ID:    "stone",
		Color: "#999999",
		Stats: domain.MaterialStats{
			Head: &domain.HeadStats{Durability: 131, MiningSpeed: 4, HarvestLevel: 1, Attack: 3},
		},
		Traits: map[domain.StatKind][]string{domain.StatKindHead: {"cheapskate"}},
		Match:  []domain.MatchRule{{Item: "cobblestone", Value: 1}},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMaterial(stone()))
	require.NoError(t, r.RegisterMaterial(domain.Material{ID: "flint"}))

	m, ok := r.Material("stone")
	require.True(t, ok)
	assert.Equal(t, 131, m.Stats.Head.Durability)

	_, ok = r.Material("obsidian")
	assert.False(t, ok)

	all := r.Materials()
	require.Len(t, all, 2)
	assert.Equal(t, "flint", all[0].ID)
	assert.Equal(t, "stone", all[1].ID)
}

func TestRegisterMaterial_Duplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMaterial(stone()))
	err := r.RegisterMaterial(stone())
	assert.ErrorIs(t, err, domain.ErrDuplicateMaterial)
}

func TestRegisterMaterial_EmptyID(t *testing.T) {
	r := New()
	err := r.RegisterMaterial(domain.Material{})
	assert.ErrorIs(t, err, domain.ErrInvalidMaterialDef)
}

func TestFreeze_RejectsMutation(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMaterial(stone()))
	r.Freeze()
	assert.True(t, r.Frozen())

	assert.ErrorIs(t, r.RegisterMaterial(domain.Material{ID: "iron"}), domain.ErrRegistryFrozen)
	assert.ErrorIs(t, r.RegisterTrait(domain.Trait{ID: "stonebound"}), domain.ErrRegistryFrozen)
	assert.ErrorIs(t, r.RegisterModifier(modifier.Diamond()), domain.ErrRegistryFrozen)

	// reads still work
	_, ok := r.Material("stone")
	assert.True(t, ok)
}

func TestRegisterMaterial_CopiesInput(t *testing.T) {
	r := New()
	m := stone()
	require.NoError(t, r.RegisterMaterial(m))

	m.Stats.Head.Durability = 1
	m.Traits[domain.StatKindHead][0] = "changed"

	got, _ := r.Material("stone")
	assert.Equal(t, 131, got.Stats.Head.Durability)
	assert.Equal(t, []string{"cheapskate"}, got.TraitsFor(domain.StatKindHead))
}

func TestModifiers(t *testing.T) {
	r := New()
	for _, m := range modifier.Builtins() {
		require.NoError(t, r.RegisterModifier(m))
	}
	assert.ErrorIs(t, r.RegisterModifier(modifier.Diamond()), domain.ErrDuplicateModifier)

	mod, ok := r.Modifier(modifier.IDEmerald)
	require.True(t, ok)
	assert.Equal(t, 1, mod.MaxLevel())
	assert.Equal(t, []string{"diamond", "emerald", "quartz", "redstone", "reinforced"}, r.Modifiers())
}

func TestTraits(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterTrait(domain.Trait{ID: "cheapskate", Name: "Cheapskate"}))
	assert.ErrorIs(t, r.RegisterTrait(domain.Trait{ID: "cheapskate"}), domain.ErrDuplicateTrait)

	trait, ok := r.Trait("cheapskate")
	require.True(t, ok)
	assert.Equal(t, "Cheapskate", trait.Name)
}

func TestSuggestMaterial(t *testing.T) {
	r := New()
	for _, id := range []string{"stone", "string", "wood", "iron"} {
		m := stone()
		m.ID = id
		require.NoError(t, r.RegisterMaterial(m))
	}

	tests := []struct {
		input string
		want  string
		found bool
	}{
		{"ston", "stone", true},
		{"stonee", "stone", true},
		{"wod", "wood", true},
		{"irn", "iron", true},
		{"obsidian", "", false},
		{"xx", "", false},
	}
	for _, tt := range tests {
		got, ok := r.SuggestMaterial(tt.input)
		assert.Equal(t, tt.found, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
