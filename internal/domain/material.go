package domain

// StatKind names a material stat block. Part requirements declare which kinds
// a slot needs; materials provide blocks per kind.
type StatKind string

const (
	StatKindHead   StatKind = "head"
	StatKindHandle StatKind = "handle"
	StatKindExtra  StatKind = "extra"
)

// HeadStats is the stat block used by the working end of a tool.
type HeadStats struct {
	Durability   int     `json:"durability"`
	MiningSpeed  float64 `json:"mining_speed"`
	HarvestLevel int     `json:"harvest_level"`
	Attack       float64 `json:"attack"`
}

// HandleStats is the stat block used by handle-like parts.
// Modifier multiplies the head durability, Durability is added flat afterwards.
type HandleStats struct {
	Modifier      float64 `json:"modifier"`
	Durability    int     `json:"durability"`
	ModifierSlots int     `json:"modifier_slots,omitempty"`
}

// ExtraStats is the stat block used by bindings, guards and fletchings.
type ExtraStats struct {
	ExtraDurability int `json:"extra_durability"`
}

// MaterialStats holds the optional stat blocks of a material.
// A nil block means the material cannot be used for parts of that kind.
type MaterialStats struct {
	Head   *HeadStats   `json:"head,omitempty"`
	Handle *HandleStats `json:"handle,omitempty"`
	Extra  *ExtraStats  `json:"extra,omitempty"`
}

// Has reports whether the material provides a stat block of the given kind.
func (s MaterialStats) Has(kind StatKind) bool {
	switch kind {
	case StatKindHead:
		return s.Head != nil
	case StatKindHandle:
		return s.Handle != nil
	case StatKindExtra:
		return s.Extra != nil
	default:
		return false
	}
}

// MatchRule declares that each item with the given id counts Value units of the material.
type MatchRule struct {
	Item  string `json:"item"`
	Value int    `json:"value"`
}

// Material is a registered substance tools are built from.
// Materials are immutable once registered.
type Material struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Color  string                `json:"color"`
	Stats  MaterialStats         `json:"stats"`
	Traits map[StatKind][]string `json:"traits,omitempty"`
	Match  []MatchRule           `json:"match,omitempty"`
}

// TraitsFor returns the trait ids the material grants when used for a stat kind.
func (m *Material) TraitsFor(kind StatKind) []string {
	if m == nil || m.Traits == nil {
		return nil
	}
	return m.Traits[kind]
}

// MatchValue returns how many material units a single item with the given id is worth.
func (m *Material) MatchValue(itemID string) int {
	for _, rule := range m.Match {
		if rule.Item == itemID {
			return rule.Value
		}
	}
	return 0
}

// Trait is a passive effect a tool gains from its materials.
type Trait struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
