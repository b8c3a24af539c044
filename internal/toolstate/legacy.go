package toolstate

import (
	"encoding/json"
	"fmt"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// legacyStats is the stat block of version 1 documents. Traits were stored as bare ids.
type legacyStats struct {
	Durability    int      `json:"durability"`
	Damage        int      `json:"damage"`
	Broken        bool     `json:"broken"`
	Attack        float64  `json:"attack"`
	MiningSpeed   float64  `json:"mining_speed"`
	HarvestLevel  int      `json:"harvest_level"`
	FreeModifiers int      `json:"free_modifiers"`
	Traits        []string `json:"traits"`
}

// legacyDocument is the flat version 1 layout: no regions, modifiers stored
// once per applied level, repair count at the root.
type legacyDocument struct {
	ToolType      string       `json:"tool_type"`
	Materials     []string     `json:"materials"`
	Modifiers     []string     `json:"modifiers"`
	Stats         *legacyStats `json:"stats"`
	StatsOriginal *legacyStats `json:"stats_original"`
	RepairCount   int          `json:"repair_count"`
}

func decodeLegacy(data []byte) (*domain.ToolDocument, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: legacy document: %v", domain.ErrMalformedState, err)
	}
	if legacy.Materials == nil {
		return nil, domain.ErrNoBaseData
	}
	return migrateLegacy(&legacy), nil
}

// migrateLegacy lifts a version 1 document into the region layout.
// Categories and trait colors did not exist in version 1; a rebuild fills them in.
func migrateLegacy(legacy *legacyDocument) *domain.ToolDocument {
	doc := &domain.ToolDocument{
		Version:  domain.ToolDocumentVersion,
		ToolType: legacy.ToolType,
		Base: domain.BaseData{
			Materials: append([]string{}, legacy.Materials...),
			Modifiers: foldModifierLevels(legacy.Modifiers),
		},
		Extra: domain.ExtraData{RepairCount: legacy.RepairCount},
	}

	if legacy.Stats != nil {
		doc.Tool = legacy.Stats.toToolData()
	} else {
		doc.Missing = append(doc.Missing, domain.RegionToolData)
	}
	if legacy.StatsOriginal != nil {
		doc.Original = legacy.StatsOriginal.toToolData()
	} else {
		doc.Missing = append(doc.Missing, domain.RegionToolDataOriginal)
	}
	return doc
}

// foldModifierLevels turns repeated ids into levels, keeping first-application order.
func foldModifierLevels(ids []string) []domain.ModifierEntry {
	entries := []domain.ModifierEntry{}
	index := make(map[string]int)
	for _, id := range ids {
		if i, ok := index[id]; ok {
			entries[i].Level++
			continue
		}
		index[id] = len(entries)
		entries = append(entries, domain.ModifierEntry{ID: id, Level: 1})
	}
	return entries
}

func (s *legacyStats) toToolData() domain.ToolData {
	traits := make([]domain.TraitEntry, 0, len(s.Traits))
	for _, id := range s.Traits {
		traits = append(traits, domain.TraitEntry{ID: id})
	}
	return domain.ToolData{
		Durability:    s.Durability,
		Damage:        s.Damage,
		Broken:        s.Broken,
		Attack:        s.Attack,
		MiningSpeed:   s.MiningSpeed,
		HarvestLevel:  s.HarvestLevel,
		FreeModifiers: s.FreeModifiers,
		Traits:        traits,
	}
}
