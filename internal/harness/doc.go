// Package harness runs scenario files against a real bridge.
//
// A scenario is a YAML file with an initial tree, a list of steps, and
// assertions on the final state:
//
//	name: rename_label
//	description: A name change is announced as one property change
//	initial:
//	  root_id: 1
//	  tree: {id: main}
//	  nodes:
//	    - {id: 1, role: window, child_ids: [2]}
//	    - {id: 2, role: static_text, attributes: {name: Hello}}
//	steps:
//	  - query: {objid: -4}
//	  - update:
//	      nodes:
//	        - {id: 2, role: static_text, attributes: {name: Bye}}
//	    expect:
//	      changes: ["node_updated(2)"]
//	      native: ["raise_property_changed(2, name: Hello -> Bye)"]
//	assertions:
//	  - {type: native_count, kind: raise_property_changed, count: 1}
//
// Tree updates inside a scenario use the same field names as the JSON
// encoding of schema.TreeUpdate. If the initial update has no tree
// metadata, the scenario name is used as the tree id. Each run uses a fresh bridge over a
// recording native fake and a deterministic clock, so the trace of a
// scenario is identical across runs and can be compared to a golden file.
//
// Scenario files can be checked against an embedded CUE schema with
// ValidateScenarioFile before running them.
package harness
