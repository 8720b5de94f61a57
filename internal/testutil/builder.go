package testutil

import "github.com/roach88/axtree/internal/schema"

// DefaultTreeID is the tree id used by Init.
const DefaultTreeID = "test-tree"

// Node returns a node with the given role and children.
func Node(id schema.NodeID, role schema.Role, children ...schema.NodeID) schema.Node {
	return schema.Node{ID: id, Role: role, ChildIDs: children}
}

// Named returns n with its name attribute set.
func Named(n schema.Node, name string) schema.Node {
	return WithAttr(n, schema.AttrName, schema.String(name))
}

// WithAttr returns n with one attribute set. n's attribute map is copied.
func WithAttr(n schema.Node, kind schema.AttrKind, v schema.Value) schema.Node {
	attrs := n.Attributes.Clone()
	if attrs == nil {
		attrs = schema.Attributes{}
	}
	attrs[kind] = v
	n.Attributes = attrs
	return n
}

// Focusable returns n with the focusable state flag set.
func Focusable(n schema.Node) schema.Node {
	n.State.Focusable = true
	return n
}

// Meta returns tree metadata for DefaultTreeID focused on focus.
func Meta(focus schema.NodeID) *schema.Tree {
	return &schema.Tree{ID: DefaultTreeID, FocusedNodeID: focus}
}

// Init returns a full update that initializes a tree rooted at root.
func Init(root, focus schema.NodeID, nodes ...schema.Node) schema.TreeUpdate {
	return schema.TreeUpdate{
		Nodes:  nodes,
		Tree:   Meta(focus),
		RootID: root,
	}
}

// Nodes returns an update that upserts nodes and changes nothing else.
func Nodes(nodes ...schema.Node) schema.TreeUpdate {
	return schema.TreeUpdate{Nodes: nodes}
}

// Focus returns an update that only moves focus.
func Focus(focus schema.NodeID) schema.TreeUpdate {
	return schema.TreeUpdate{Tree: Meta(focus)}
}

// Window returns the initial update used across tests: a window (1) with a
// focusable button "OK" (2) and a static text "Hello" (3), focused on 2.
func Window() schema.TreeUpdate {
	return Init(1, 2,
		Named(Node(1, schema.RoleWindow, 2, 3), "Main"),
		Focusable(Named(Node(2, schema.RoleButton), "OK")),
		Named(Node(3, schema.RoleStaticText), "Hello"),
	)
}
