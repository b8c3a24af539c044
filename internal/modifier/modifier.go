// Package modifier implements the modifier engine: player-applied enhancements
// stacked onto built tools and reapplied, in application order, on rebuild.
package modifier

import (
	"fmt"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// Modifier is an enhancement that changes the computed stats of a tool.
// Apply is called once per level.
type Modifier interface {
	ID() string
	Color() string
	MaxLevel() int
	Apply(tool *domain.ToolData, original domain.ToolData, levels int)
}

// Lookup resolves modifiers by id
type Lookup interface {
	Modifier(id string) (Modifier, bool)
}

// Engine applies and reapplies modifiers on tool documents
type Engine interface {
	Apply(doc *domain.ToolDocument, modifierID string) error
	Reapply(doc *domain.ToolDocument) error
	FreeModifiers(doc *domain.ToolDocument) int
}

type engine struct {
	modifiers Lookup
}

// NewEngine creates a new modifier engine backed by the given lookup
func NewEngine(modifiers Lookup) Engine {
	return &engine{modifiers: modifiers}
}

// Apply adds one level of the modifier to the document and updates the live stats.
// The document is left untouched when an error is returned.
func (e *engine) Apply(doc *domain.ToolDocument, modifierID string) error {
	mod, ok := e.modifiers.Modifier(modifierID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownModifier, modifierID)
	}
	if doc.Tool.FreeModifiers <= 0 {
		return domain.ErrNoFreeModifiers
	}

	idx := -1
	for i, entry := range doc.Base.Modifiers {
		if entry.ID == modifierID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		if doc.Base.Modifiers[idx].Level >= mod.MaxLevel() {
			return fmt.Errorf("%w: %s (level %d)", domain.ErrModifierMaxLevel, modifierID, doc.Base.Modifiers[idx].Level)
		}
		doc.Base.Modifiers[idx].Level++
	} else {
		doc.Base.Modifiers = append(doc.Base.Modifiers, domain.ModifierEntry{
			ID:    modifierID,
			Level: 1,
			Color: mod.Color(),
		})
	}

	mod.Apply(&doc.Tool, doc.Original, 1)
	doc.Tool.FreeModifiers--
	return nil
}

// Reapply applies every stored modifier in application order onto freshly built stats.
// Entries stored without a color get the modifier's color.
func (e *engine) Reapply(doc *domain.ToolDocument) error {
	for i, entry := range doc.Base.Modifiers {
		mod, ok := e.modifiers.Modifier(entry.ID)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownModifier, entry.ID)
		}
		if entry.Color == "" {
			doc.Base.Modifiers[i].Color = mod.Color()
		}
		for level := 0; level < entry.Level; level++ {
			mod.Apply(&doc.Tool, doc.Original, 1)
			doc.Tool.FreeModifiers--
		}
	}
	if doc.Tool.FreeModifiers < 0 {
		doc.Tool.FreeModifiers = 0
	}
	return nil
}

// FreeModifiers returns the number of modifier slots still available.
func (e *engine) FreeModifiers(doc *domain.ToolDocument) int {
	return doc.Tool.FreeModifiers
}
