package toolstate

// Schemas v2 documents are validated against, relative to the configs file
// system. ToolDataSchemaPath covers each computed region on its own.
const (
	ToolStateSchemaPath = "schemas/tool_state.schema.json"
	ToolDataSchemaPath  = "schemas/tool_data.schema.json"
)

// LegacyDocumentVersion is the flat pre-region document layout
const LegacyDocumentVersion = 1

// Top-level keys used to sniff the document layout
const (
	keyVersion         = "version"
	keyLegacyMaterials = "materials"
)
