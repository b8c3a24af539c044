package domain

// ItemStack is a host item stack as seen by the tool core.
// Part items carry the material they were cast from; raw items do not.
type ItemStack struct {
	Item     string `json:"item" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"min=0"`
	Material string `json:"material,omitempty" validate:"max=64"`
}

// IsEmpty reports whether the stack holds nothing.
func (s ItemStack) IsEmpty() bool {
	return s.Item == "" || s.Quantity <= 0
}

// CopyStacks returns an independent copy of the stacks.
func CopyStacks(stacks []ItemStack) []ItemStack {
	if stacks == nil {
		return nil
	}
	out := make([]ItemStack, len(stacks))
	copy(out, stacks)
	return out
}
