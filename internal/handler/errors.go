package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingPathParam      = "Missing %s path parameter"
	ErrMsgRequestTooLarge       = "Request body too large"

	// Tool operation error messages
	ErrMsgBuildToolFailed     = "Failed to build tool"
	ErrMsgPreviewToolFailed   = "Failed to preview tool"
	ErrMsgGetToolFailed       = "Failed to load tool"
	ErrMsgRepairToolFailed    = "Failed to repair tool"
	ErrMsgDamageToolFailed    = "Failed to damage tool"
	ErrMsgApplyModifierFailed = "Failed to apply modifier"
)

// Success messages for API responses
const (
	MsgToolBuilt       = "Tool built"
	MsgToolRepaired    = "Tool repaired"
	MsgNothingRepaired = "Nothing to repair with the supplied items"
	MsgModifierApplied = "Modifier applied"
	MsgNothingToBuild  = "Stored tool has no base data to rebuild from"
)

// Log messages
const (
	LogMsgDecodeFailed    = "Failed to decode request"
	LogMsgRequestDecoded  = "Request decoded"
	LogMsgRequestInvalid  = "Invalid request"
	LogMsgServiceError    = "Tool service error"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgReadinessFailed = "Readiness check failed"
)
