package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion must match ENV_SCHEMA_VERSION; bump it whenever .env.example gains a required key
const ExpectedEnvSchemaVersion = "1.0"

// DatabaseEnvVars must be set when tool state is kept in Postgres
var DatabaseEnvVars = []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"}

// ExampleDBPassword is the placeholder shipped in .env.example
const ExampleDBPassword = "change_this_secure_password"

var (
	ErrEnvSchemaMissing  = errors.New("ENV_SCHEMA_VERSION is not set")
	ErrEnvSchemaMismatch = errors.New("ENV_SCHEMA_VERSION mismatch")
	ErrEnvMissing        = errors.New("missing required environment variables")
)

// ValidateEnv fails fast on an outdated or incomplete environment.
// The DB_* variables are only required when STORAGE selects Postgres.
func ValidateEnv() error {
	switch v := os.Getenv("ENV_SCHEMA_VERSION"); v {
	case ExpectedEnvSchemaVersion:
	case "":
		return fmt.Errorf("%w: add it to your .env file (expected %s)", ErrEnvSchemaMissing, ExpectedEnvSchemaVersion)
	default:
		return fmt.Errorf("%w: expected %s, got %s; your .env file may be outdated", ErrEnvSchemaMismatch, ExpectedEnvSchemaVersion, v)
	}

	storage := strings.ToLower(os.Getenv("STORAGE"))
	if storage != "" && storage != StoragePostgres {
		return nil
	}

	var missing []string
	for _, key := range DatabaseEnvVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvMissing, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and then reports settings that
// work but are probably not what an operator wants.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	warn := func(cond bool, msg string) {
		if cond {
			warnings = append(warnings, msg)
		}
	}

	warn(os.Getenv("DB_PASSWORD") == ExampleDBPassword,
		"DB_PASSWORD is still the example value; set a real password")
	warn(strings.EqualFold(os.Getenv("STORAGE"), StorageMemory),
		"STORAGE=memory keeps tools in process memory; they are lost on restart")

	env := os.Getenv("ENVIRONMENT")
	warn(os.Getenv("API_KEY") == "" && env != "" && env != "dev" && env != "development",
		fmt.Sprintf("API_KEY is empty in %s; tool writes are unauthenticated", env))

	return warnings, nil
}
