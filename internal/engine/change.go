package engine

import (
	"fmt"

	"github.com/roach88/axtree/internal/schema"
)

// ChangeKind identifies the kind of a semantic tree change.
type ChangeKind uint8

const (
	NodeAdded ChangeKind = iota + 1
	NodeUpdated
	NodeRemoved
	FocusMoved
	TreeMetadataChanged
)

var changeKindNames = map[ChangeKind]string{
	NodeAdded:           "node_added",
	NodeUpdated:         "node_updated",
	NodeRemoved:         "node_removed",
	FocusMoved:          "focus_moved",
	TreeMetadataChanged: "tree_changed",
}

func (k ChangeKind) String() string {
	if s, ok := changeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("change_kind(%d)", uint8(k))
}

// Change is one semantic difference between two tree states.
//
// Node pointers refer to immutable snapshots and must not be modified.
//
//   - NodeAdded: NewNode
//   - NodeUpdated: OldNode and NewNode, same id
//   - NodeRemoved: OldNode
//   - FocusMoved: OldNode and NewNode, either may be nil when no node had focus
//   - TreeMetadataChanged: OldTree (nil on initialization) and NewTree
type Change struct {
	Kind    ChangeKind
	OldNode *schema.Node
	NewNode *schema.Node
	OldTree *schema.Tree
	NewTree *schema.Tree
}

// NodeID returns the id the change is about: the new node when present,
// otherwise the old one. Zero for tree metadata changes.
func (c Change) NodeID() schema.NodeID {
	if c.NewNode != nil {
		return c.NewNode.ID
	}
	if c.OldNode != nil {
		return c.OldNode.ID
	}
	return 0
}

func (c Change) String() string {
	switch c.Kind {
	case FocusMoved:
		return fmt.Sprintf("%s(%s -> %s)", c.Kind, nodeLabel(c.OldNode), nodeLabel(c.NewNode))
	case TreeMetadataChanged:
		return c.Kind.String()
	default:
		return fmt.Sprintf("%s(%d)", c.Kind, c.NodeID())
	}
}

func nodeLabel(n *schema.Node) string {
	if n == nil {
		return "none"
	}
	return n.ID.String()
}

func added(n *schema.Node) Change {
	return Change{Kind: NodeAdded, NewNode: n}
}

func updated(old, n *schema.Node) Change {
	return Change{Kind: NodeUpdated, OldNode: old, NewNode: n}
}

func removed(old *schema.Node) Change {
	return Change{Kind: NodeRemoved, OldNode: old}
}

func focusMoved(old, n *schema.Node) Change {
	return Change{Kind: FocusMoved, OldNode: old, NewNode: n}
}

func treeChanged(old, n *schema.Tree) Change {
	return Change{Kind: TreeMetadataChanged, OldTree: old, NewTree: n}
}
