// Package engine maintains a consistent accessibility tree and turns tree
// updates into semantic change events.
//
// ARCHITECTURE:
//
// Copy-on-write snapshots:
// The tree state is an immutable snapshot published through an atomic
// pointer. Apply builds the next snapshot from the current one and swaps it
// in only when the whole update is valid, so readers never observe a partial
// update and a rejected update leaves the tree untouched.
//
// Update processing:
//  1. Clear the descendants of NodeIDToClear, if set
//  2. Upsert the node entries in order, checking the parent/child rules
//  3. Check that every new child was defined and the root exists
//  4. Drop nodes that are no longer reachable from the root
//  5. Compute the changes against the previous snapshot
//
// Changes are ordered: additions and updates in order of first definition,
// then removals by ascending node id, then tree metadata, then focus.
//
// Writers are serialized by a mutex; readers are lock-free. Reader values
// returned by Tree.Read stay valid and unchanged after later updates.
package engine
