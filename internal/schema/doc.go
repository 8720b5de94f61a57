// Package schema provides the data types of an accessibility tree update.
//
// This package contains type definitions, their JSON codec, structural
// equality, and field-level diffing. It performs no invariant checking; that
// is the engine's job. All other internal packages import schema; schema
// imports nothing internal.
//
// Key design constraints:
//   - NodeID zero is never a valid id and means "absent" in optional fields
//   - The order of TreeUpdate.Nodes is significant and survives every codec
//   - Each attribute kind appears at most once per node (Attributes is a map)
//   - All JSON tags use snake_case
//   - Roles, actions, and attribute kinds are a versioned catalog
//     (SchemaVersion); the engine treats them as opaque payload
package schema
