package domain

// Repair constants
const (
	// RepairUnitDivisor converts material units times head durability into repair amount
	RepairUnitDivisor = 144

	// RepairMaxDurabilityFactor caps how much modifier-inflated durability scales a repair
	RepairMaxDurabilityFactor = 10.0

	// RepairMinFraction is the minimum share of max durability restored by one repair step
	RepairMinFraction = 64

	// RepairDiminishingFloor is the lowest diminishing-returns factor
	RepairDiminishingFloor = 0.5

	// RepairDefaultPart is the slot index whose material repairs a tool (the head)
	RepairDefaultPart = 1
)

// Stat building constants
const (
	// DefaultModifierSlots is the number of free modifier slots a freshly built tool has
	DefaultModifierSlots = 3

	// ProjectileDurabilityDivisor scales projectile durability down
	ProjectileDurabilityDivisor = 10
)
