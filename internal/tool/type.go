// Package tool builds tool stat documents from ordered material parts.
//
// A tool kind is plain data: a Type descriptor holding the slot requirements,
// the categories and the strategy that aggregates the per-slot stats.
package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/part"
)

// Slot is a requirement paired with the material filling it.
type Slot struct {
	Requirement part.Requirement
	Material    *domain.Material
}

// StatStrategy aggregates the slots of a tool into its computed stats.
// Implementations must be pure: same slots, same result.
type StatStrategy interface {
	Compute(slots []Slot) domain.ToolData
}

// CustomRepairFunc lets a tool type accept repair items beyond the material's
// matching rules. It removes what it uses from candidates and returns the raw
// durability it contributes.
type CustomRepairFunc func(material *domain.Material, candidates []domain.ItemStack) int

// Type describes one kind of tool.
type Type struct {
	Name         string
	Requirements []part.Requirement
	Categories   []domain.Category
	Strategy     StatStrategy

	// RepairParts are the slot indices whose materials repair the tool.
	// Defaults to the head slot.
	RepairParts []int

	// RepairModifiers scales the repair value per slot index. Missing entries count as 1.0.
	RepairModifiers map[int]float64

	CustomRepair CustomRepairFunc
}

// SlotCount returns the number of parts the tool is built from
func (t *Type) SlotCount() int {
	return len(t.Requirements)
}

// RepairPartIndices returns the configured repair slots or the default one
func (t *Type) RepairPartIndices() []int {
	if len(t.RepairParts) == 0 {
		return []int{domain.RepairDefaultPart}
	}
	return t.RepairParts
}

// RepairModifierForPart returns the repair scale of a slot
func (t *Type) RepairModifierForPart(index int) float64 {
	if mod, ok := t.RepairModifiers[index]; ok {
		return mod
	}
	return 1.0
}

// IsValidComponent reports whether the stack may fill the given slot.
// Slots outside [0, SlotCount) are never valid.
func (t *Type) IsValidComponent(slot int, stack domain.ItemStack, materials part.MaterialLookup) bool {
	if slot < 0 || slot >= len(t.Requirements) {
		return false
	}
	return t.Requirements[slot].IsValid(stack, materials)
}

// IsValidMaterial reports whether the material satisfies the slot's stat requirements.
func (t *Type) IsValidMaterial(slot int, m *domain.Material) bool {
	if slot < 0 || slot >= len(t.Requirements) {
		return false
	}
	return t.Requirements[slot].IsValidMaterial(m)
}

// HasValidMaterials checks a stored document against the current registry:
// the material count matches, every id resolves and every material still
// satisfies its slot.
func (t *Type) HasValidMaterials(doc *domain.ToolDocument, materials part.MaterialLookup) bool {
	if doc == nil || len(doc.Base.Materials) != len(t.Requirements) {
		return false
	}
	for i, id := range doc.Base.Materials {
		m, ok := materials.Material(id)
		if !ok || !t.Requirements[i].IsValidMaterial(m) {
			return false
		}
	}
	return true
}

// Validate checks the descriptor itself
func (t *Type) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: tool type without name", domain.ErrInvalidInput)
	}
	if len(t.Requirements) == 0 {
		return fmt.Errorf("%w: tool type '%s' has no parts", domain.ErrInvalidInput, t.Name)
	}
	if t.Strategy == nil {
		return fmt.Errorf("%w: tool type '%s' has no stat strategy", domain.ErrInvalidInput, t.Name)
	}
	for _, idx := range t.RepairPartIndices() {
		if idx < 0 || idx >= len(t.Requirements) {
			return fmt.Errorf("%w: tool type '%s' repair part %d out of range", domain.ErrInvalidInput, t.Name, idx)
		}
	}
	return nil
}

// Catalog is the set of known tool types
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewCatalog creates a catalog holding the given types
func NewCatalog(types ...*Type) (*Catalog, error) {
	c := &Catalog{types: make(map[string]*Type)}
	for _, t := range types {
		if err := c.Register(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a tool type
func (c *Catalog) Register(t *Type) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.types[t.Name]; exists {
		return fmt.Errorf("%w: duplicate tool type '%s'", domain.ErrInvalidInput, t.Name)
	}
	c.types[t.Name] = t
	return nil
}

// Get returns the tool type with the given name
func (c *Catalog) Get(name string) (*Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownToolType, name)
	}
	return t, nil
}

// All returns every tool type sorted by name
func (c *Catalog) All() []*Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Type, 0, len(c.types))
	for _, t := range c.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
