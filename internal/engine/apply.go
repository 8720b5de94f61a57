package engine

import (
	"maps"
	"slices"
	"strings"

	"github.com/roach88/axtree/internal/schema"
)

// batch is the working state of one update. It starts as a shallow copy of
// the previous snapshot and is discarded on the first violation.
type batch struct {
	prev    *snapshot
	rootID  schema.NodeID
	nodes   map[schema.NodeID]*schema.Node
	parents map[schema.NodeID]schema.NodeID

	// pending holds children introduced by this update but not yet defined.
	pending map[schema.NodeID]struct{}

	// defined records node entries in order of first definition.
	defined    []schema.NodeID
	definedSet map[schema.NodeID]struct{}
}

func newBatch(prev *snapshot) *batch {
	b := &batch{
		prev:       prev,
		rootID:     prev.rootID,
		nodes:      maps.Clone(prev.nodes),
		parents:    maps.Clone(prev.parents),
		pending:    make(map[schema.NodeID]struct{}),
		definedSet: make(map[schema.NodeID]struct{}),
	}
	if b.nodes == nil {
		b.nodes = make(map[schema.NodeID]*schema.Node)
	}
	if b.parents == nil {
		b.parents = make(map[schema.NodeID]schema.NodeID)
	}
	return b
}

// apply computes the snapshot that results from u on top of prev, and the
// changes between the two. prev is not modified.
func apply(prev *snapshot, u *schema.TreeUpdate) (*snapshot, []Change, error) {
	b := newBatch(prev)
	if u.RootID != 0 {
		b.rootID = u.RootID
	}
	if b.rootID == 0 {
		return nil, nil, violation(ErrCodeMissingRoot, 0, -1, "update has no root id and the tree is empty")
	}
	if prev.empty() && u.Tree == nil {
		return nil, nil, violation(ErrCodeMissingTree, 0, -1, "initializing update has no tree metadata")
	}

	if u.NodeIDToClear != 0 {
		if err := b.clear(u.NodeIDToClear); err != nil {
			return nil, nil, err
		}
	}
	for i := range u.Nodes {
		if err := b.upsert(&u.Nodes[i], i); err != nil {
			return nil, nil, err
		}
	}
	if err := b.finish(u); err != nil {
		return nil, nil, err
	}

	next := &snapshot{
		rootID:  b.rootID,
		tree:    prev.tree,
		nodes:   b.nodes,
		parents: b.parents,
	}
	if u.Tree != nil {
		next.tree = *u.Tree
	}
	return next, diff(prev, next, b.defined), nil
}

// clear deletes every descendant of id. The node itself stays.
func (b *batch) clear(id schema.NodeID) error {
	target, ok := b.nodes[id]
	if !ok {
		return violation(ErrCodeUnknownClearTarget, id, -1, "node to clear is not in the tree")
	}
	stack := slices.Clone(target.ChildIDs)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := b.nodes[c]
		if !ok {
			continue
		}
		delete(b.nodes, c)
		delete(b.parents, c)
		stack = append(stack, n.ChildIDs...)
	}
	return nil
}

func (b *batch) upsert(n *schema.Node, entry int) error {
	id := n.ID
	if id == 0 {
		return violation(ErrCodeZeroNodeID, 0, entry, "node id must be non-zero")
	}
	old, defined := b.nodes[id]
	_, isPending := b.pending[id]
	if !defined && !isPending && id != b.rootID {
		return violation(ErrCodeUnknownNode, id, entry,
			"node is not in the tree, not a new child, and not the root")
	}
	if err := n.Attributes.Validate(); err != nil {
		return violation(ErrCodeInvalidAttribute, id, entry, "%v", err)
	}

	seen := make(map[schema.NodeID]struct{}, len(n.ChildIDs))
	for _, c := range n.ChildIDs {
		switch {
		case c == 0:
			return violation(ErrCodeZeroNodeID, id, entry, "child id must be non-zero")
		case c == id:
			return violation(ErrCodeSelfChild, id, entry, "node lists itself as a child")
		case c == b.rootID:
			return violation(ErrCodeCycle, id, entry, "root %d listed as a child", c).
				with("child", c.String())
		}
		if _, dup := seen[c]; dup {
			return violation(ErrCodeDuplicateChild, id, entry, "child %d listed twice", c).
				with("child", c.String())
		}
		seen[c] = struct{}{}
		if p, attached := b.parents[c]; attached && p != id {
			return violation(ErrCodeReparent, id, entry,
				"child %d is still attached to %d", c, p).
				with("child", c.String()).
				with("parent", p.String())
		}
	}

	if defined {
		for _, oc := range old.ChildIDs {
			if b.parents[oc] == id {
				delete(b.parents, oc)
			}
		}
	}
	for _, c := range n.ChildIDs {
		b.parents[c] = id
		if _, ok := b.nodes[c]; !ok {
			b.pending[c] = struct{}{}
		}
	}
	delete(b.pending, id)

	b.nodes[id] = n.Clone()
	if _, ok := b.definedSet[id]; !ok {
		b.definedSet[id] = struct{}{}
		b.defined = append(b.defined, id)
	}
	return nil
}

// finish checks the whole-update rules and drops unreachable nodes.
func (b *batch) finish(u *schema.TreeUpdate) error {
	if len(b.pending) > 0 {
		ids := slices.Sorted(maps.Keys(b.pending))
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.String()
		}
		return violation(ErrCodeDanglingChild, ids[0], -1,
			"%d new child(ren) never defined", len(ids)).
			with("children", strings.Join(names, ","))
	}
	if c := u.NodeIDToClear; c != 0 {
		if _, ok := b.definedSet[c]; !ok {
			return violation(ErrCodeClearNotRespecified, c, -1, "cleared node was not redefined")
		}
	}
	if _, ok := b.nodes[b.rootID]; !ok {
		return violation(ErrCodeRootNotDefined, b.rootID, -1, "root node is not defined")
	}

	reachable := make(map[schema.NodeID]struct{}, len(b.nodes))
	queue := []schema.NodeID{b.rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := reachable[id]; ok {
			return violation(ErrCodeCycle, id, -1, "node reached twice from the root")
		}
		reachable[id] = struct{}{}
		queue = append(queue, b.nodes[id].ChildIDs...)
	}
	for id := range b.nodes {
		if _, ok := reachable[id]; !ok {
			delete(b.nodes, id)
			delete(b.parents, id)
		}
	}
	delete(b.parents, b.rootID)
	return nil
}

// diff lists the changes from prev to next. defined gives the order of
// first definition within the update.
func diff(prev, next *snapshot, defined []schema.NodeID) []Change {
	var changes []Change
	for _, id := range defined {
		n, ok := next.nodes[id]
		if !ok {
			continue
		}
		old, existed := prev.nodes[id]
		switch {
		case !existed:
			changes = append(changes, added(n))
		case !old.Equal(n):
			changes = append(changes, updated(old, n))
		}
	}

	var gone []schema.NodeID
	for id := range prev.nodes {
		if _, ok := next.nodes[id]; !ok {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	for _, id := range gone {
		changes = append(changes, removed(prev.nodes[id]))
	}

	var oldTree *schema.Tree
	if !prev.empty() {
		oldTree = &prev.tree
	}
	newTree := &next.tree
	if !oldTree.SameExceptFocus(newTree) {
		changes = append(changes, treeChanged(oldTree, newTree))
	}

	oldFocus, newFocus := oldTree.EffectiveFocus(), newTree.EffectiveFocus()
	if oldFocus != newFocus {
		changes = append(changes, focusMoved(prev.nodes[oldFocus], next.nodes[newFocus]))
	}
	return changes
}
