package forge

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// SlotInfo describes one part slot of a tool type
type SlotInfo struct {
	Part      string            `json:"part"`
	StatKinds []domain.StatKind `json:"stat_kinds"`
}

// ToolTypeInfo is the public description of a tool type
type ToolTypeInfo struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Categories  []domain.Category `json:"categories"`
	Slots       []SlotInfo        `json:"slots"`
	RepairParts []int             `json:"repair_parts"`
}

// TraitInfo is a trait as shown next to a material
type TraitInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MaterialInfo is the public description of a material
type MaterialInfo struct {
	ID          string                          `json:"id"`
	DisplayName string                          `json:"display_name"`
	Color       string                          `json:"color"`
	Stats       domain.MaterialStats            `json:"stats"`
	Traits      map[domain.StatKind][]TraitInfo `json:"traits,omitempty"`
	RepairItems []domain.MatchRule              `json:"repair_items,omitempty"`
}

// ListToolTypes returns every registered tool type sorted by name
func (s *service) ListToolTypes(_ context.Context) []ToolTypeInfo {
	types := s.types.All()
	out := make([]ToolTypeInfo, 0, len(types))
	for _, t := range types {
		slots := make([]SlotInfo, len(t.Requirements))
		for i, req := range t.Requirements {
			slots[i] = SlotInfo{Part: req.Part, StatKinds: append([]domain.StatKind(nil), req.StatKinds...)}
		}
		out = append(out, ToolTypeInfo{
			Name:        t.Name,
			DisplayName: displayName(t.Name),
			Categories:  append([]domain.Category(nil), t.Categories...),
			Slots:       slots,
			RepairParts: t.RepairPartIndices(),
		})
	}
	return out
}

// ListMaterials returns every registered material sorted by id
func (s *service) ListMaterials(_ context.Context) []MaterialInfo {
	materials := s.materials.Materials()
	out := make([]MaterialInfo, 0, len(materials))
	for _, m := range materials {
		name := m.Name
		if name == "" {
			name = displayName(m.ID)
		}
		info := MaterialInfo{
			ID:          m.ID,
			DisplayName: name,
			Color:       m.Color,
			Stats:       m.Stats,
			RepairItems: append([]domain.MatchRule(nil), m.Match...),
		}
		if len(m.Traits) > 0 {
			info.Traits = make(map[domain.StatKind][]TraitInfo, len(m.Traits))
			for kind, ids := range m.Traits {
				for _, id := range ids {
					ti := TraitInfo{ID: id, Name: displayName(id)}
					if trait, ok := s.materials.Trait(id); ok && trait.Name != "" {
						ti.Name = trait.Name
					}
					info.Traits[kind] = append(info.Traits[kind], ti)
				}
			}
		}
		out = append(out, info)
	}
	return out
}

// displayName turns an id such as "stone_sword" into "Stone Sword"
func displayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}
