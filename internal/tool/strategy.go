package tool

import (
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/utils"
)

// SimpleTool aggregates slots by the stat kind they contribute.
// Heads are averaged (harvest level takes the best), extras add flat
// durability, then the averaged handle modifier scales the durability and
// handle durability is added on top.
type SimpleTool struct{}

// Compute implements StatStrategy
func (SimpleTool) Compute(slots []Slot) domain.ToolData {
	var (
		heads   []*domain.HeadStats
		handles []*domain.HandleStats
		extras  []*domain.ExtraStats
	)
	for _, slot := range slots {
		if slot.Material == nil {
			continue
		}
		switch slot.Requirement.PrimaryKind() {
		case domain.StatKindHead:
			if slot.Material.Stats.Head != nil {
				heads = append(heads, slot.Material.Stats.Head)
			}
		case domain.StatKindHandle:
			if slot.Material.Stats.Handle != nil {
				handles = append(handles, slot.Material.Stats.Handle)
			}
		case domain.StatKindExtra:
			if slot.Material.Stats.Extra != nil {
				extras = append(extras, slot.Material.Stats.Extra)
			}
		}
	}

	data := domain.ToolData{
		FreeModifiers: domain.DefaultModifierSlots,
		Traits:        []domain.TraitEntry{},
	}

	if len(heads) > 0 {
		for _, head := range heads {
			data.Durability += head.Durability
			data.Attack += head.Attack
			data.MiningSpeed += head.MiningSpeed
			data.HarvestLevel = max(data.HarvestLevel, head.HarvestLevel)
		}
		data.Durability = max(1, data.Durability/len(heads))
		data.Attack /= float64(len(heads))
		data.MiningSpeed /= float64(len(heads))
	}

	for _, extra := range extras {
		data.Durability += extra.ExtraDurability
	}

	if len(handles) > 0 {
		modifier := 0.0
		flat := 0
		for _, handle := range handles {
			modifier += handle.Modifier
			flat += handle.Durability
			data.FreeModifiers += handle.ModifierSlots
		}
		modifier /= float64(len(handles))
		data.Durability = utils.RoundHalfUp(float64(data.Durability)*modifier) + flat
	}

	data.Durability = max(1, data.Durability)
	return data
}

// Projectile is SimpleTool with durability scaled down to ammunition counts.
type Projectile struct {
	SimpleTool
}

// Compute implements StatStrategy
func (p Projectile) Compute(slots []Slot) domain.ToolData {
	data := p.SimpleTool.Compute(slots)
	data.Durability = max(1, utils.RoundHalfUp(float64(data.Durability)/domain.ProjectileDurabilityDivisor))
	return data
}

// StrategyFunc adapts a plain function to StatStrategy
type StrategyFunc func(slots []Slot) domain.ToolData

// Compute implements StatStrategy
func (f StrategyFunc) Compute(slots []Slot) domain.ToolData {
	return f(slots)
}
