package modifier

import "github.com/osse101/ToolForge_Go/internal/domain"

// Built-in modifier ids
const (
	IDReinforced = "reinforced"
	IDDiamond    = "diamond"
	IDEmerald    = "emerald"
	IDRedstone   = "redstone"
	IDQuartz     = "quartz"
)

// Built-in modifier tuning
const (
	ReinforcedDurabilityPerLevel = 75
	DiamondDurability            = 500
	DiamondHarvestLevel          = 1
	DiamondMiningSpeed           = 0.5
	RedstoneSpeedPerLevel        = 0.4
	QuartzAttackPerLevel         = 1.0
	DefaultMaxLevel              = 5
)

type statModifier struct {
	id       string
	color    string
	maxLevel int
	apply    func(tool *domain.ToolData, original domain.ToolData, levels int)
}

func (m *statModifier) ID() string    { return m.id }
func (m *statModifier) Color() string { return m.color }
func (m *statModifier) MaxLevel() int { return m.maxLevel }

func (m *statModifier) Apply(tool *domain.ToolData, original domain.ToolData, levels int) {
	m.apply(tool, original, levels)
}

// Reinforced adds flat durability per level.
func Reinforced() Modifier {
	return &statModifier{
		id:       IDReinforced,
		color:    "#3b3b5c",
		maxLevel: DefaultMaxLevel,
		apply: func(tool *domain.ToolData, _ domain.ToolData, levels int) {
			tool.Durability += ReinforcedDurabilityPerLevel * levels
		},
	}
}

// Diamond adds durability, one harvest level and some mining speed. Single level.
func Diamond() Modifier {
	return &statModifier{
		id:       IDDiamond,
		color:    "#8cf4e2",
		maxLevel: 1,
		apply: func(tool *domain.ToolData, _ domain.ToolData, levels int) {
			tool.Durability += DiamondDurability * levels
			tool.HarvestLevel += DiamondHarvestLevel * levels
			tool.MiningSpeed += DiamondMiningSpeed * float64(levels)
		},
	}
}

// Emerald adds half of the original durability. Single level.
func Emerald() Modifier {
	return &statModifier{
		id:       IDEmerald,
		color:    "#41f384",
		maxLevel: 1,
		apply: func(tool *domain.ToolData, original domain.ToolData, levels int) {
			tool.Durability += original.Durability / 2 * levels
		},
	}
}

// Redstone adds mining speed per level.
func Redstone() Modifier {
	return &statModifier{
		id:       IDRedstone,
		color:    "#ff0000",
		maxLevel: DefaultMaxLevel,
		apply: func(tool *domain.ToolData, _ domain.ToolData, levels int) {
			tool.MiningSpeed += RedstoneSpeedPerLevel * float64(levels)
		},
	}
}

// Quartz adds attack per level.
func Quartz() Modifier {
	return &statModifier{
		id:       IDQuartz,
		color:    "#ffffff",
		maxLevel: DefaultMaxLevel,
		apply: func(tool *domain.ToolData, _ domain.ToolData, levels int) {
			tool.Attack += QuartzAttackPerLevel * float64(levels)
		},
	}
}

// Builtins returns every built-in modifier.
func Builtins() []Modifier {
	return []Modifier{Reinforced(), Diamond(), Emerald(), Redstone(), Quartz()}
}
