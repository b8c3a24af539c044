package bootstrap

import "time"

// File System Permissions
const (
	DirPermission     = 0o755
	LogFilePermission = 0o666
)

// Logger Configuration
const (
	// LogFileTimestampFormat sorts lexically in creation order
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	LogFileNamePattern = "forge_%s.log"
	LogFileExtension   = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingToolForge   = "Starting ToolForge"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
)

// Event System Configuration
const (
	EventDefaultMaxRetries = 5
	// EventDefaultRetryDelay doubles on every attempt
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is where events land after the last retry
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgToolAuditRegistered        = "Tool audit logger registered"
	LogMsgToolBroke                  = "Tool broke"
	ErrMsgFailedCreateDeadLetterDir  = "failed to create dead-letter directory"
	ErrMsgFailedCreatePublisher      = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// Forge Assembly
const (
	LogMsgMaterialsLoaded  = "Material pack loaded"
	LogMsgToolStateBackend = "Tool state backend selected"

	ErrMsgFailedLoadMaterials     = "failed to load material pack"
	ErrMsgFailedRegisterModifier  = "failed to register modifier"
	ErrMsgFailedBuildToolCatalog  = "failed to build tool catalog"
	ErrMsgFailedConnectDatabase   = "failed to connect to database"
	ErrMsgFailedRunMigrations     = "failed to run database migrations"
	ErrMsgUnsupportedStorage      = "unsupported tool state backend"
)

// Shutdown Messages
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgClosingDatabase            = "Closing database pool..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
)
