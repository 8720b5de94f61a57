package schema

import "slices"

// Node is a single accessible object. A complete UI is a tree of these.
type Node struct {
	ID     NodeID          `json:"id"`
	Role   Role            `json:"role"`
	Bounds *RelativeBounds `json:"bounds,omitempty"`
	// ChildIDs is ordered; each child has exactly one parent.
	ChildIDs []NodeID  `json:"child_ids,omitempty"`
	State    NodeState `json:"state"`
	// Actions is the unordered set of actions supported by this node.
	Actions    ActionSet  `json:"actions,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Name returns the node's name attribute, or "".
func (n *Node) Name() string {
	s, _ := n.Attributes.Text(AttrName)
	return s
}

// Equal reports field-for-field equality. Nil and empty child lists and
// attribute sets are equal; nil nodes are equal only to nil.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.ID == o.ID &&
		n.Role == o.Role &&
		n.Bounds.Equal(o.Bounds) &&
		slices.Equal(n.ChildIDs, o.ChildIDs) &&
		n.State == o.State &&
		n.Actions == o.Actions &&
		n.Attributes.Equal(o.Attributes)
}

// Clone returns a copy that shares no mutable state with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.ChildIDs = slices.Clone(n.ChildIDs)
	c.Attributes = n.Attributes.Clone()
	if n.Bounds != nil {
		b := *n.Bounds
		if n.Bounds.Transform != nil {
			t := *n.Bounds.Transform
			b.Transform = &t
		}
		c.Bounds = &b
	}
	return &c
}

// Tree is the data associated with a tree as a whole rather than any node.
type Tree struct {
	// ID is globally unique. A UUIDv4 is a safe choice (see UUIDGenerator).
	ID string `json:"id"`

	// ParentTreeID is the tree this tree is embedded in, if any.
	ParentTreeID string `json:"parent_tree_id,omitempty"`

	// FocusedTreeID names the tree holding focus when it is a descendant of
	// this tree rather than this tree itself.
	FocusedTreeID string `json:"focused_tree_id,omitempty"`

	// FocusedNodeID is the node with keyboard focus within this tree, if any.
	FocusedNodeID NodeID `json:"focused_node_id,omitempty"`

	// RootScrollerID is the node used as the root scroller, if any.
	RootScrollerID NodeID `json:"root_scroller_id,omitempty"`
}

// Equal reports field-for-field equality; nil equals nil.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	return *t == *o
}

// EffectiveFocus returns the focused node of this tree, or zero when focus
// is held by another (descendant) tree.
func (t *Tree) EffectiveFocus() NodeID {
	if t == nil {
		return 0
	}
	if t.FocusedTreeID != "" && t.FocusedTreeID != t.ID {
		return 0
	}
	return t.FocusedNodeID
}

// SameExceptFocus reports whether t and o differ at most in FocusedNodeID.
func (t *Tree) SameExceptFocus(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	a, b := *t, *o
	a.FocusedNodeID, b.FocusedNodeID = 0, 0
	return a == b
}

// TreeUpdate is an atomic change to a tree.
//
// The sender and receiver must be in sync: an update only brings a tree from
// one specific state into the next. For each entry of Nodes, in order:
//
//   - Either the id is already in the tree, or it was introduced as a new
//     child earlier in this update, or the tree is empty (or the root is
//     changing) and the node is the new root.
//   - Every id in ChildIDs is either already a child of this node or an id
//     not currently attached anywhere. Moving a child requires detaching it
//     from its previous parent first.
//   - A new id in ChildIDs must be defined later in the same update.
//
// Violations are fatal for the update; the engine rejects it as a whole.
type TreeUpdate struct {
	// NodeIDToClear, if set, names a node whose descendants are deleted before
	// the node entries are applied. The node itself stays and must be
	// redefined in Nodes.
	NodeIDToClear NodeID `json:"node_id_to_clear,omitempty"`

	// Nodes are the node definitions to upsert, in order.
	Nodes []Node `json:"nodes"`

	// Tree replaces the tree metadata. Required when initializing a tree;
	// may be omitted when unchanged.
	Tree *Tree `json:"tree,omitempty"`

	// RootID is required when initializing a tree or when the root changes.
	RootID NodeID `json:"root_id,omitempty"`
}

// Equal reports structural equality. The order of Nodes is significant.
func (u *TreeUpdate) Equal(o *TreeUpdate) bool {
	if u == nil || o == nil {
		return u == o
	}
	if u.NodeIDToClear != o.NodeIDToClear || u.RootID != o.RootID || !u.Tree.Equal(o.Tree) {
		return false
	}
	if len(u.Nodes) != len(o.Nodes) {
		return false
	}
	for i := range u.Nodes {
		if !u.Nodes[i].Equal(&o.Nodes[i]) {
			return false
		}
	}
	return true
}
