// Package part models the per-slot requirements of a tool type.
package part

import (
	"github.com/osse101/ToolForge_Go/internal/domain"
)

// Part item kinds accepted by the standard tool types
const (
	KindToolRod    = "tool_rod"
	KindPickHead   = "pick_head"
	KindShovelHead = "shovel_head"
	KindAxeHead    = "axe_head"
	KindSwordBlade = "sword_blade"
	KindWideGuard  = "wide_guard"
	KindBinding    = "binding"
	KindArrowHead  = "arrow_head"
	KindArrowShaft = "arrow_shaft"
	KindFletching  = "fletching"
)

// MaterialLookup resolves materials by id
type MaterialLookup interface {
	Material(id string) (*domain.Material, bool)
}

// Requirement is one slot of a tool type: the part item kind it accepts and
// the stat kinds the part's material has to provide. The first stat kind is
// the one the slot contributes to the tool's stats.
type Requirement struct {
	Part      string
	StatKinds []domain.StatKind
}

// New creates a requirement for the given part kind
func New(partKind string, kinds ...domain.StatKind) Requirement {
	return Requirement{Part: partKind, StatKinds: kinds}
}

// PrimaryKind returns the stat kind the slot contributes, or "" if none is declared.
func (r Requirement) PrimaryKind() domain.StatKind {
	if len(r.StatKinds) == 0 {
		return ""
	}
	return r.StatKinds[0]
}

// IsValidMaterial reports whether the material provides every stat kind the slot needs.
func (r Requirement) IsValidMaterial(m *domain.Material) bool {
	if m == nil {
		return false
	}
	for _, kind := range r.StatKinds {
		if !m.Stats.Has(kind) {
			return false
		}
	}
	return true
}

// IsValid reports whether the stack is a part of the required kind cast from a
// registered material that satisfies the slot.
func (r Requirement) IsValid(stack domain.ItemStack, materials MaterialLookup) bool {
	if stack.IsEmpty() || stack.Item != r.Part {
		return false
	}
	m, ok := materials.Material(stack.Material)
	if !ok {
		return false
	}
	return r.IsValidMaterial(m)
}

// ApplicableTraits returns the traits the material grants in this slot, in
// declaration order with duplicates removed.
func (r Requirement) ApplicableTraits(m *domain.Material) []string {
	if m == nil {
		return nil
	}

	var traits []string
	seen := make(map[string]struct{})
	for _, kind := range r.StatKinds {
		for _, id := range m.TraitsFor(kind) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			traits = append(traits, id)
		}
	}
	return traits
}
