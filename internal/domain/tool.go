package domain

import "time"

// Category classifies what a tool type can do.
type Category string

const (
	CategoryTool       Category = "TOOL"
	CategoryWeapon     Category = "WEAPON"
	CategoryHarvest    Category = "HARVEST"
	CategoryProjectile Category = "PROJECTILE"
)

// ToolDocumentVersion is the current persisted tool state schema version.
const ToolDocumentVersion = 2

// Document region names, used for missing-region reporting and schema paths
const (
	RegionBaseData         = "baseData"
	RegionToolData         = "toolData"
	RegionToolDataOriginal = "toolDataOriginal"
	RegionExtraData        = "extraData"
)

// TraitEntry is a trait applied to a tool, tagged with the color of the material that granted it.
type TraitEntry struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// ModifierEntry is a modifier applied to a built tool.
type ModifierEntry struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Color string `json:"color,omitempty"`
}

// BaseData is the source of truth of a tool: the materials it was built from
// and the modifiers applied since, in application order.
type BaseData struct {
	Materials []string        `json:"materials"`
	Modifiers []ModifierEntry `json:"modifiers"`
}

// ToolData holds the computed stats of a tool.
type ToolData struct {
	Durability    int          `json:"durability"`
	Damage        int          `json:"damage"`
	Broken        bool         `json:"broken"`
	Attack        float64      `json:"attack"`
	MiningSpeed   float64      `json:"mining_speed"`
	HarvestLevel  int          `json:"harvest_level"`
	FreeModifiers int          `json:"free_modifiers"`
	Traits        []TraitEntry `json:"traits"`
}

// Clone returns a deep copy of the stats.
func (t ToolData) Clone() ToolData {
	out := t
	if t.Traits != nil {
		out.Traits = make([]TraitEntry, len(t.Traits))
		copy(out.Traits, t.Traits)
	}
	return out
}

// HasTrait reports whether the trait is present.
func (t ToolData) HasTrait(id string) bool {
	for _, trait := range t.Traits {
		if trait.ID == id {
			return true
		}
	}
	return false
}

// ExtraData holds auxiliary counters.
type ExtraData struct {
	RepairCount int            `json:"repairCount"`
	Counters    map[string]int `json:"counters,omitempty"`
}

// ToolDocument is the persisted state of a tool instance.
type ToolDocument struct {
	Version    int        `json:"version"`
	ToolType   string     `json:"tool_type"`
	Categories []Category `json:"categories"`
	Base       BaseData   `json:"baseData"`
	Tool       ToolData   `json:"toolData"`
	Original   ToolData   `json:"toolDataOriginal"`
	Extra      ExtraData  `json:"extraData"`

	// Missing lists regions absent from the decoded bytes, or dropped as
	// unusable. Never persisted.
	Missing []string `json:"-"`
}

// Clone returns a deep copy of the document.
func (d *ToolDocument) Clone() *ToolDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.Categories != nil {
		out.Categories = append([]Category(nil), d.Categories...)
	}
	if d.Base.Materials != nil {
		out.Base.Materials = append([]string(nil), d.Base.Materials...)
	}
	if d.Base.Modifiers != nil {
		out.Base.Modifiers = append([]ModifierEntry(nil), d.Base.Modifiers...)
	}
	out.Tool = d.Tool.Clone()
	out.Original = d.Original.Clone()
	if d.Extra.Counters != nil {
		out.Extra.Counters = make(map[string]int, len(d.Extra.Counters))
		for k, v := range d.Extra.Counters {
			out.Extra.Counters[k] = v
		}
	}
	if d.Missing != nil {
		out.Missing = append([]string(nil), d.Missing...)
	}
	return &out
}

// HasCategory reports whether the tool carries the category.
func (d *ToolDocument) HasCategory(c Category) bool {
	for _, have := range d.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// IsMissing reports whether the named region was absent or dropped when decoded.
func (d *ToolDocument) IsMissing(region string) bool {
	for _, r := range d.Missing {
		if r == region {
			return true
		}
	}
	return false
}

// ModifiersUsed returns the number of modifier slots consumed, one per applied level.
func (d *ToolDocument) ModifiersUsed() int {
	used := 0
	for _, m := range d.Base.Modifiers {
		used += m.Level
	}
	return used
}

// IsDamaged reports whether the tool needs repair.
func (d *ToolDocument) IsDamaged() bool {
	return d.Tool.Damage > 0 || d.Tool.Broken
}

// StoredTool is a persisted tool document with its storage metadata.
type StoredTool struct {
	ID        string    `json:"id"`
	ToolType  string    `json:"tool_type"`
	Data      []byte    `json:"-"`
	Revision  int64     `json:"revision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
