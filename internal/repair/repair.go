// Package repair restores tool durability by consuming matching raw materials.
package repair

import (
	"fmt"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/part"
	"github.com/osse101/ToolForge_Go/internal/tool"
)

// TypeLookup resolves tool types by name
type TypeLookup interface {
	Get(name string) (*tool.Type, error)
}

// Options tune the repair engine
type Options struct {
	// RequireAllConsumed rejects a repair when any supplied stack would be left
	// untouched, so players cannot throw unrelated items into the repair slots.
	RequireAllConsumed bool
}

// Result describes a committed repair
type Result struct {
	// Document is the repaired copy; the input document is never modified
	Document *domain.ToolDocument
	// Remaining is the candidate slice after consumption
	Remaining []domain.ItemStack
	// UnitsConsumed counts matched material units taken from the candidates
	UnitsConsumed int
	// Iterations is the number of repair steps, one repair count each
	Iterations int
	// Restored is the total damage removed
	Restored int
}

// Engine repairs tools
type Engine struct {
	materials part.MaterialLookup
	types     TypeLookup
	opts      Options
}

// NewEngine creates a repair engine
func NewEngine(materials part.MaterialLookup, types TypeLookup, opts Options) *Engine {
	return &Engine{materials: materials, types: types, opts: opts}
}

// Repair restores durability on doc using candidates.
//
// A nil result with a nil error means there was nothing to do: the tool is
// undamaged, or nothing in candidates can be consumed. Matching is first tried
// on a private copy of candidates; only when that shows something would be
// consumed are the items taken from candidates itself, which is mutated in
// place and also returned as Result.Remaining.
func (e *Engine) Repair(doc *domain.ToolDocument, candidates []domain.ItemStack) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil tool", domain.ErrInvalidInput)
	}
	if !doc.IsDamaged() {
		return nil, nil
	}

	typ, err := e.types.Get(doc.ToolType)
	if err != nil {
		return nil, err
	}
	materials, err := e.repairMaterials(typ, doc)
	if err != nil {
		return nil, err
	}

	if !e.dryRun(typ, materials, candidates) {
		return nil, nil
	}

	out := doc.Clone()
	result := &Result{Document: out, Remaining: candidates}

	for (out.Tool.Damage > 0 || out.Tool.Broken) && result.Iterations < MaxIterations {
		working := domain.CopyStacks(candidates)
		amount, units := CalculateRepairAmount(typ, materials, working)
		if amount <= 0 {
			break
		}
		copy(candidates, working)

		delta := CalculateRepair(out, amount)
		before := out.Tool.Damage
		out.Tool.Damage = max(0, out.Tool.Damage-delta)
		out.Tool.Broken = false
		out.Extra.RepairCount++

		result.Iterations++
		result.UnitsConsumed += units
		result.Restored += before - out.Tool.Damage
	}

	if result.Iterations == 0 {
		return nil, nil
	}
	return result, nil
}

// dryRun reports whether candidates hold anything the tool could consume.
// It never touches candidates.
func (e *Engine) dryRun(typ *tool.Type, materials []*domain.Material, candidates []domain.ItemStack) bool {
	work := domain.CopyStacks(candidates)
	units := 0
	custom := false

	for _, index := range typ.RepairPartIndices() {
		material := materials[index]
		if typ.CustomRepair != nil && typ.CustomRepair(material, work) > 0 {
			custom = true
		}
		for match := FindMatch(material, work); match != nil; match = FindMatch(material, work) {
			units += match.Units
			RemoveMatch(work, match)
		}
	}

	if units == 0 && !custom {
		return false
	}

	if e.opts.RequireAllConsumed {
		for i, stack := range candidates {
			if !stack.IsEmpty() && stack == work[i] {
				return false
			}
		}
	}
	return true
}

// repairMaterials resolves the materials of the repair slots, indexed by slot.
func (e *Engine) repairMaterials(typ *tool.Type, doc *domain.ToolDocument) ([]*domain.Material, error) {
	materials := make([]*domain.Material, len(doc.Base.Materials))
	for _, index := range typ.RepairPartIndices() {
		if index < 0 || index >= len(doc.Base.Materials) {
			return nil, fmt.Errorf("%w: repair part %d but tool has %d materials",
				domain.ErrMalformedState, index, len(doc.Base.Materials))
		}
		id := doc.Base.Materials[index]
		m, ok := e.materials.Material(id)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", domain.ErrUnknownMaterial, id)
		}
		materials[index] = m
	}
	return materials, nil
}
