// Package registry holds the process-wide material, trait and modifier tables.
// It is populated during startup and frozen before the first tool is built;
// after Freeze every mutation fails and lookups never change.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/modifier"
)

// Registry is the material registry
type Registry struct {
	mu        sync.RWMutex
	frozen    bool
	materials map[string]*domain.Material
	traits    map[string]*domain.Trait
	modifiers map[string]modifier.Modifier
}

// New creates an empty, unfrozen registry
func New() *Registry {
	return &Registry{
		materials: make(map[string]*domain.Material),
		traits:    make(map[string]*domain.Trait),
		modifiers: make(map[string]modifier.Modifier),
	}
}

// RegisterMaterial adds a material. The registry keeps its own copy.
func (r *Registry) RegisterMaterial(m domain.Material) error {
	if m.ID == "" {
		return fmt.Errorf("%w: empty material id", domain.ErrInvalidMaterialDef)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register material '%s'", domain.ErrRegistryFrozen, m.ID)
	}
	if _, exists := r.materials[m.ID]; exists {
		return fmt.Errorf("%w: '%s'", domain.ErrDuplicateMaterial, m.ID)
	}

	r.materials[m.ID] = copyMaterial(m)
	return nil
}

// RegisterTrait adds a trait definition
func (r *Registry) RegisterTrait(t domain.Trait) error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty trait id", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register trait '%s'", domain.ErrRegistryFrozen, t.ID)
	}
	if _, exists := r.traits[t.ID]; exists {
		return fmt.Errorf("%w: '%s'", domain.ErrDuplicateTrait, t.ID)
	}

	trait := t
	r.traits[t.ID] = &trait
	return nil
}

// RegisterModifier adds a modifier implementation
func (r *Registry) RegisterModifier(m modifier.Modifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register modifier '%s'", domain.ErrRegistryFrozen, m.ID())
	}
	if _, exists := r.modifiers[m.ID()]; exists {
		return fmt.Errorf("%w: '%s'", domain.ErrDuplicateModifier, m.ID())
	}

	r.modifiers[m.ID()] = m
	return nil
}

// Freeze ends the startup phase
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the startup phase is over
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Material returns the material with the given id.
// The returned material is shared and must not be modified.
func (r *Registry) Material(id string) (*domain.Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[id]
	return m, ok
}

// Materials returns all materials sorted by id
func (r *Registry) Materials() []*domain.Material {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SuggestMaterial returns the registered id closest to an unknown one. Only
// ids within a third of the input's length in edits (at least one) qualify;
// ties go to the lower id.
func (r *Registry) SuggestMaterial(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := max(1, len(id)/3)
	best, bestDist := "", limit+1
	for candidate := range r.materials {
		dist := levenshtein.ComputeDistance(id, candidate)
		if dist < bestDist || (dist == bestDist && candidate < best) {
			best, bestDist = candidate, dist
		}
	}
	return best, best != ""
}

// Trait returns the trait with the given id
func (r *Registry) Trait(id string) (*domain.Trait, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.traits[id]
	return t, ok
}

// Modifier returns the modifier with the given id
func (r *Registry) Modifier(id string) (modifier.Modifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modifiers[id]
	return m, ok
}

// Modifiers returns all modifier ids sorted
func (r *Registry) Modifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.modifiers))
	for id := range r.modifiers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func copyMaterial(m domain.Material) *domain.Material {
	out := m
	if m.Stats.Head != nil {
		head := *m.Stats.Head
		out.Stats.Head = &head
	}
	if m.Stats.Handle != nil {
		handle := *m.Stats.Handle
		out.Stats.Handle = &handle
	}
	if m.Stats.Extra != nil {
		extra := *m.Stats.Extra
		out.Stats.Extra = &extra
	}
	if m.Traits != nil {
		out.Traits = make(map[domain.StatKind][]string, len(m.Traits))
		for kind, ids := range m.Traits {
			out.Traits[kind] = append([]string(nil), ids...)
		}
	}
	if m.Match != nil {
		out.Match = append([]domain.MatchRule(nil), m.Match...)
	}
	return &out
}
