package material

// File operation error messages
const (
	ErrMsgReadConfigFileFailed = "failed to read materials config file: %w"
	ErrMsgParseConfigFailed    = "failed to parse materials config: %w"
	ErrMsgSchemaFailed         = "schema validation failed for %s: %w"
)

// Validation error messages (fragments used with error wrapping)
const (
	ErrMsgConfigNil          = "config is nil"
	ErrMsgNoMaterialsDefined = "no materials defined"
)

// These format strings are used with fmt.Errorf for detailed error messages
const (
	ErrFmtTraitAtIndexEmpty    = "%w: trait at index %d has empty id"
	ErrFmtMaterialAtIndexEmpty = "%w: material at index %d has empty id"
	ErrFmtMaterialNoStats      = "%w: material '%s' has no stat blocks"
	ErrFmtMaterialNegative     = "%w: material '%s' has negative %s"
	ErrFmtMaterialBadMatch     = "%w: material '%s' match rule %d needs an item and a positive value"
	ErrFmtMaterialUnknownTrait = "%w: material '%s' references trait '%s'"
	ErrFmtMaterialTraitKind    = "%w: material '%s' lists traits for '%s' without that stat block"
	ErrFmtRegisterFailed       = "failed to register %s '%s': %w"
)

// Log messages
const (
	LogMsgPackLoaded     = "Material pack loaded"
	LogMsgPackRegistered = "Material pack registered"
)
