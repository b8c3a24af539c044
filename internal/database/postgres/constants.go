package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Tool State Operations
const (
	ErrMsgFailedToGetTool     = "failed to get tool '%s': %w"
	ErrMsgFailedToInsertTool  = "failed to insert tool '%s': %w"
	ErrMsgFailedToReplaceTool = "failed to replace tool '%s': %w"
)
