package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Composition errors
	ErrMsgInvalidComposition = "invalid composition"
	ErrMsgUnknownMaterial    = "unknown material"
	ErrMsgUnknownToolType    = "unknown tool type"

	// Stored state errors
	ErrMsgMalformedState = "malformed stored state"
	ErrMsgNoBaseData     = "no base data present"

	// Registry errors
	ErrMsgRegistryFrozen     = "registry is frozen"
	ErrMsgDuplicateMaterial  = "duplicate material"
	ErrMsgDuplicateTrait     = "duplicate trait"
	ErrMsgDuplicateModifier  = "duplicate modifier"
	ErrMsgUnknownTrait       = "unknown trait"
	ErrMsgUnknownModifier    = "unknown modifier"
	ErrMsgNoFreeModifiers    = "no free modifier slots"
	ErrMsgModifierMaxLevel   = "modifier is at max level"
	ErrMsgInvalidMaterialDef = "invalid material definition"

	// Persistence errors
	ErrMsgToolNotFound     = "tool not found"
	ErrMsgRevisionConflict = "revision conflict"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrInvalidComposition = errors.New(ErrMsgInvalidComposition)
	ErrUnknownMaterial    = errors.New(ErrMsgUnknownMaterial)
	ErrUnknownToolType    = errors.New(ErrMsgUnknownToolType)

	ErrMalformedState = errors.New(ErrMsgMalformedState)
	ErrNoBaseData     = errors.New(ErrMsgNoBaseData)

	ErrRegistryFrozen     = errors.New(ErrMsgRegistryFrozen)
	ErrDuplicateMaterial  = errors.New(ErrMsgDuplicateMaterial)
	ErrDuplicateTrait     = errors.New(ErrMsgDuplicateTrait)
	ErrDuplicateModifier  = errors.New(ErrMsgDuplicateModifier)
	ErrUnknownTrait       = errors.New(ErrMsgUnknownTrait)
	ErrUnknownModifier    = errors.New(ErrMsgUnknownModifier)
	ErrNoFreeModifiers    = errors.New(ErrMsgNoFreeModifiers)
	ErrModifierMaxLevel   = errors.New(ErrMsgModifierMaxLevel)
	ErrInvalidMaterialDef = errors.New(ErrMsgInvalidMaterialDef)

	ErrToolNotFound     = errors.New(ErrMsgToolNotFound)
	ErrRevisionConflict = errors.New(ErrMsgRevisionConflict)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// UnknownMaterialError names a material id that did not resolve. Suggestion is
// the closest registered id, empty when nothing is close enough.
type UnknownMaterialError struct {
	ID         string
	Suggestion string
}

func (e *UnknownMaterialError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("%s: '%s'", ErrMsgUnknownMaterial, e.ID)
	}
	return fmt.Sprintf("%s: '%s' (did you mean '%s'?)", ErrMsgUnknownMaterial, e.ID, e.Suggestion)
}

func (e *UnknownMaterialError) Unwrap() error {
	return ErrUnknownMaterial
}
