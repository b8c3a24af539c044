package tool

import (
	"fmt"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/part"
)

// Hook observes or augments a freshly built document. Hooks run in
// registration order after the document is complete and must be deterministic.
type Hook func(doc *domain.ToolDocument, materials []*domain.Material)

// Builder turns ordered materials into tool documents.
type Builder struct {
	materials part.MaterialLookup
	hooks     []Hook
}

// NewBuilder creates a builder resolving materials through the given lookup
func NewBuilder(materials part.MaterialLookup, hooks ...Hook) *Builder {
	return &Builder{materials: materials, hooks: hooks}
}

// Materials returns the lookup the builder resolves ids with
func (b *Builder) Materials() part.MaterialLookup {
	return b.materials
}

// Build creates the document of a new tool. The material count must equal the
// type's slot count and every material must satisfy its slot, otherwise
// ErrInvalidComposition is returned and nothing is built.
func (b *Builder) Build(t *Type, materials []*domain.Material) (*domain.ToolDocument, error) {
	if len(materials) != len(t.Requirements) {
		return nil, fmt.Errorf("%w: %s needs %d parts, got %d",
			domain.ErrInvalidComposition, t.Name, len(t.Requirements), len(materials))
	}

	slots := make([]Slot, len(materials))
	ids := make([]string, len(materials))
	for i, m := range materials {
		if !t.Requirements[i].IsValidMaterial(m) {
			return nil, fmt.Errorf("%w: slot %d of %s rejects material '%s'",
				domain.ErrInvalidComposition, i, t.Name, materialID(m))
		}
		slots[i] = Slot{Requirement: t.Requirements[i], Material: m}
		ids[i] = m.ID
	}

	stats := t.Strategy.Compute(slots)
	stats.Damage = 0
	stats.Broken = false
	stats.Traits = collectTraits(slots)

	doc := &domain.ToolDocument{
		Version:    domain.ToolDocumentVersion,
		ToolType:   t.Name,
		Categories: append([]domain.Category{}, t.Categories...),
		Base: domain.BaseData{
			Materials: ids,
			Modifiers: []domain.ModifierEntry{},
		},
		Tool:     stats,
		Original: stats.Clone(),
	}

	for _, hook := range b.hooks {
		hook(doc, materials)
	}
	return doc, nil
}

// BuildFromIDs resolves material ids and builds the tool.
// Unresolvable ids fail with ErrUnknownMaterial.
func (b *Builder) BuildFromIDs(t *Type, ids []string) (*domain.ToolDocument, error) {
	materials, err := b.Resolve(ids)
	if err != nil {
		return nil, err
	}
	return b.Build(t, materials)
}

// BuildFromStacks builds a tool from part item stacks, one per slot.
func (b *Builder) BuildFromStacks(t *Type, stacks []domain.ItemStack) (*domain.ToolDocument, error) {
	if len(stacks) != len(t.Requirements) {
		return nil, fmt.Errorf("%w: %s needs %d parts, got %d",
			domain.ErrInvalidComposition, t.Name, len(t.Requirements), len(stacks))
	}

	materials := make([]*domain.Material, len(stacks))
	for i, stack := range stacks {
		if !t.IsValidComponent(i, stack, b.materials) {
			return nil, fmt.Errorf("%w: slot %d of %s rejects part '%s' (%s)",
				domain.ErrInvalidComposition, i, t.Name, stack.Item, stack.Material)
		}
		materials[i], _ = b.materials.Material(stack.Material)
	}
	return b.Build(t, materials)
}

// RenderDocument builds a display-only document holding just the base data.
// No validation is done; it is meant for previews of arbitrary combinations.
func (b *Builder) RenderDocument(t *Type, materials []*domain.Material) *domain.ToolDocument {
	ids := make([]string, len(materials))
	for i, m := range materials {
		ids[i] = materialID(m)
	}
	return &domain.ToolDocument{
		Version:    domain.ToolDocumentVersion,
		ToolType:   t.Name,
		Categories: append([]domain.Category{}, t.Categories...),
		Base: domain.BaseData{
			Materials: ids,
			Modifiers: []domain.ModifierEntry{},
		},
		Missing: []string{domain.RegionToolData, domain.RegionToolDataOriginal},
	}
}

// Resolve looks up every id, failing on the first unknown one
func (b *Builder) Resolve(ids []string) ([]*domain.Material, error) {
	materials := make([]*domain.Material, len(ids))
	for i, id := range ids {
		m, ok := b.materials.Material(id)
		if !ok {
			return nil, &domain.UnknownMaterialError{ID: id}
		}
		materials[i] = m
	}
	return materials, nil
}

// collectTraits walks slots in order and adds each applicable trait once,
// colored by the first material granting it.
func collectTraits(slots []Slot) []domain.TraitEntry {
	traits := []domain.TraitEntry{}
	seen := make(map[string]struct{})
	for _, slot := range slots {
		for _, id := range slot.Requirement.ApplicableTraits(slot.Material) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			traits = append(traits, domain.TraitEntry{ID: id, Color: slot.Material.Color})
		}
	}
	return traits
}

func materialID(m *domain.Material) string {
	if m == nil {
		return ""
	}
	return m.ID
}
