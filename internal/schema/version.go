package schema

// Version constants for the update schema.
const (
	// SchemaVersion is the version of the role/action/attribute catalog.
	SchemaVersion = "1"

	// EngineVersion is the axtree engine version.
	EngineVersion = "0.1.0"
)
