package engine

import (
	"maps"
	"slices"

	"github.com/roach88/axtree/internal/schema"
)

// snapshot is one immutable tree state. Nodes are never modified once a
// snapshot is published; the next snapshot shares unchanged node pointers.
type snapshot struct {
	seq     int64
	rootID  schema.NodeID
	tree    schema.Tree
	nodes   map[schema.NodeID]*schema.Node
	parents map[schema.NodeID]schema.NodeID
}

var emptySnapshot = &snapshot{}

func (s *snapshot) empty() bool {
	return s.rootID == 0
}

// Reader is a read-only view of one tree state. It stays valid and
// unchanged after later updates are applied.
type Reader struct {
	s *snapshot
}

// Empty reports whether the tree has not been initialized.
func (r Reader) Empty() bool {
	return r.s.empty()
}

// Seq returns the clock value of the update that produced this state.
func (r Reader) Seq() int64 {
	return r.s.seq
}

// RootID returns the root node id, zero when empty.
func (r Reader) RootID() schema.NodeID {
	return r.s.rootID
}

// Root returns the root node, nil when empty.
func (r Reader) Root() *schema.Node {
	return r.s.nodes[r.s.rootID]
}

// Node returns the node with the given id.
func (r Reader) Node(id schema.NodeID) (*schema.Node, bool) {
	n, ok := r.s.nodes[id]
	return n, ok
}

// Contains reports whether id is in the tree.
func (r Reader) Contains(id schema.NodeID) bool {
	_, ok := r.s.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (r Reader) Len() int {
	return len(r.s.nodes)
}

// Tree returns the tree metadata. The zero value when empty.
func (r Reader) Tree() schema.Tree {
	return r.s.tree
}

// Parent returns the parent id of a node. The root has no parent.
func (r Reader) Parent(id schema.NodeID) (schema.NodeID, bool) {
	p, ok := r.s.parents[id]
	return p, ok
}

// Focus returns the node with effective focus, if any.
func (r Reader) Focus() (*schema.Node, bool) {
	id := r.s.tree.EffectiveFocus()
	if id == 0 {
		return nil, false
	}
	return r.Node(id)
}

// IDs returns all node ids in ascending order.
func (r Reader) IDs() []schema.NodeID {
	return slices.Sorted(maps.Keys(r.s.nodes))
}

// Walk visits the tree depth-first in child order, starting at the root.
// Returning false from fn skips the node's subtree.
func (r Reader) Walk(fn func(n *schema.Node, depth int) bool) {
	root := r.Root()
	if root == nil {
		return
	}
	type frame struct {
		n     *schema.Node
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.n, f.depth) {
			continue
		}
		for i := len(f.n.ChildIDs) - 1; i >= 0; i-- {
			if c, ok := r.s.nodes[f.n.ChildIDs[i]]; ok {
				stack = append(stack, frame{c, f.depth + 1})
			}
		}
	}
}

// Digest returns a content hash of the tree state. Two states with the same
// root, metadata, and nodes have the same digest regardless of history.
func (r Reader) Digest() (string, error) {
	nodes := make([]*schema.Node, 0, len(r.s.nodes))
	for _, n := range r.s.nodes {
		nodes = append(nodes, n)
	}
	return schema.SnapshotDigest(r.s.rootID, r.s.tree, nodes)
}

// Update returns a full update that recreates this state from scratch.
// Nodes are listed parents-first so the update is valid on an empty tree.
func (r Reader) Update() schema.TreeUpdate {
	u := schema.TreeUpdate{RootID: r.s.rootID}
	if r.s.empty() {
		return u
	}
	tree := r.s.tree
	u.Tree = &tree
	u.Nodes = make([]schema.Node, 0, len(r.s.nodes))
	r.Walk(func(n *schema.Node, _ int) bool {
		u.Nodes = append(u.Nodes, *n.Clone())
		return true
	})
	return u
}
