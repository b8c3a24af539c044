package repair

import (
	"math"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/tool"
	"github.com/osse101/ToolForge_Go/internal/utils"
)

// CalculateRepairAmount turns matched items into a raw repair amount and
// removes what it uses from items.
//
// materials is indexed by slot; only the type's repair slots are read. Each
// distinct material is matched once even when several repair slots use it,
// and tools repaired from several distinct materials at once get a bonus of
// 1/9 per extra material.
func CalculateRepairAmount(typ *tool.Type, materials []*domain.Material, items []domain.ItemStack) (amount int, units int) {
	matched := make(map[string]struct{})
	durability := 0.0

	for _, index := range typ.RepairPartIndices() {
		if index < 0 || index >= len(materials) || materials[index] == nil {
			continue
		}
		material := materials[index]
		if _, done := matched[material.ID]; done {
			continue
		}
		partModifier := typ.RepairModifierForPart(index)

		if typ.CustomRepair != nil {
			durability += float64(typ.CustomRepair(material, items)) * partModifier
		}

		match := FindMatch(material, items)
		if match == nil || material.Stats.Head == nil {
			continue
		}
		matched[material.ID] = struct{}{}
		durability += float64(material.Stats.Head.Durability) * float64(match.Units) * partModifier / domain.RepairUnitDivisor
		units += match.Units
		RemoveMatch(items, match)
	}

	durability *= 1 + float64(len(matched)-1)/9
	return int(durability), units
}

// CalculateRepair converts a raw amount into the durability restored on this tool.
//
// Durability raised by modifiers scales the repair up (at most tenfold) and at
// least 1/64 of the maximum is restored. Used modifier slots and the number of
// previous repairs then reduce the result, the latter never below half.
func CalculateRepair(doc *domain.ToolDocument, amount int) int {
	actual := float64(doc.Tool.Durability)
	factor := 1.0
	if doc.Original.Durability > 0 {
		factor = actual / float64(doc.Original.Durability)
	}

	increase := float64(amount) * math.Min(domain.RepairMaxDurabilityFactor, factor)
	increase = math.Max(increase, actual/domain.RepairMinFraction)

	increase *= ModifierPenalty(doc.ModifiersUsed())
	increase *= utils.DiminishingFactor(doc.Extra.RepairCount, DiminishingStep, domain.RepairDiminishingFloor)

	return utils.CeilInt(increase)
}

// ModifierPenalty returns the repair scale for the number of modifier slots used
func ModifierPenalty(used int) float64 {
	switch {
	case used >= 3:
		return PenaltyThreeModifiers
	case used == 2:
		return PenaltyTwoModifiers
	case used == 1:
		return PenaltyOneModifier
	default:
		return 1.0
	}
}
