package forge

// CacheSchemaVersion is the current version of the tool cache entries.
// Increment this when the cached data structure changes to auto-invalidate old entries.
const CacheSchemaVersion = "2.0"

// MaxWriteAttempts bounds retries after a revision conflict with another writer
const MaxWriteAttempts = 3

// Build failure reasons used as metric labels
const (
	ReasonUnknownToolType    = "unknown_tool_type"
	ReasonUnknownMaterial    = "unknown_material"
	ReasonInvalidComposition = "invalid_composition"
	ReasonStorage            = "storage"
	ReasonOther              = "other"
)

// Log messages
const (
	LogMsgToolBuilt         = "Tool built"
	LogMsgToolBuildRejected = "Tool build rejected"
	LogMsgToolRebuilt       = "Stored tool rebuilt"
	LogMsgRebuildFailed     = "Stored tool could not be rebuilt, leaving it untouched"
	LogMsgStaleMaterials    = "Stored tool materials no longer fit its type, leaving it untouched"
	LogMsgNothingToRebuild  = "Stored tool has no base data"
	LogMsgRevisionConflict  = "Revision conflict, reloading tool"
	LogMsgToolRepaired      = "Tool repaired"
	LogMsgNothingRepaired   = "Nothing usable for repair"
	LogMsgToolDamaged       = "Tool damaged"
	LogMsgModifierApplied   = "Modifier applied"
	LogMsgCacheEntryVersion = "Dropping cached tool with old schema version"
)

// Error messages
const (
	ErrMsgEncodeFailed  = "failed to encode tool: %w"
	ErrMsgLoadFailed    = "failed to load tool '%s': %w"
	ErrMsgPersistFailed = "failed to persist tool '%s': %w"
)
