// Package configs embeds the default material pack and the JSON schemas.
package configs

import "embed"

// Default file locations inside FS
const (
	MaterialsPath       = "materials.json"
	MaterialsSchemaPath = "schemas/materials.schema.json"
)

// FS holds the embedded configuration files
//
//go:embed materials.json schemas/*.json
var FS embed.FS
