package config

import "time"

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Defaults
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultServiceName     = "tool-forge"
	DefaultMaterialsConfig = "materials.json"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultToolCacheSize = 1024
	DefaultToolCacheTTL  = 10 * time.Minute
)
