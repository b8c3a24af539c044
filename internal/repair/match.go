package repair

import "github.com/osse101/ToolForge_Go/internal/domain"

// matchedStack records how many items of one candidate stack a match takes
type matchedStack struct {
	Index    int
	Quantity int
}

// Match is a set of candidate items that together count as some units of a material.
type Match struct {
	Stacks []matchedStack
	// Units is the number of material units the matched items are worth
	Units int
}

// FindMatch collects every candidate item the material's matching rules
// accept. It returns nil when nothing matches.
//
// Matching stacks are taken whole. One repair iteration can therefore spend
// more units than the damage needs; the repair loop only stops between
// iterations.
func FindMatch(m *domain.Material, candidates []domain.ItemStack) *Match {
	if m == nil {
		return nil
	}

	var match Match
	for i, stack := range candidates {
		if stack.IsEmpty() {
			continue
		}
		value := m.MatchValue(stack.Item)
		if value <= 0 {
			continue
		}
		match.Stacks = append(match.Stacks, matchedStack{Index: i, Quantity: stack.Quantity})
		match.Units += value * stack.Quantity
	}

	if match.Units == 0 {
		return nil
	}
	return &match
}

// RemoveMatch takes the matched items out of candidates. Emptied stacks are cleared.
func RemoveMatch(candidates []domain.ItemStack, match *Match) {
	if match == nil {
		return
	}
	for _, taken := range match.Stacks {
		stack := &candidates[taken.Index]
		stack.Quantity -= taken.Quantity
		if stack.Quantity <= 0 {
			*stack = domain.ItemStack{}
		}
	}
}
