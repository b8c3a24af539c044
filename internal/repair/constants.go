package repair

// DiminishingStep is how many repairs it takes to lose 1% efficiency
const DiminishingStep = 2

// MaxIterations bounds the commit loop. Every iteration consumes items, so
// real repairs stop long before this; it only guards custom repair hooks that
// report durability without consuming anything.
const MaxIterations = 1000

// Modifier penalties applied to the repair increase, by modifier slots used
const (
	PenaltyOneModifier    = 0.95
	PenaltyTwoModifiers   = 0.90
	PenaltyThreeModifiers = 0.85
)
