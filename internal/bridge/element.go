package bridge

import (
	"errors"

	"github.com/roach88/axtree/internal/engine"
	"github.com/roach88/axtree/internal/schema"
)

// ErrElementNotAvailable is returned by Element methods once the node has
// left the tree (UIA_E_ELEMENTNOTAVAILABLE).
var ErrElementNotAvailable = errors.New("element not available")

// UIAAppendRuntimeID marks a runtime id to be prefixed with the host
// window's id by UI Automation.
const UIAAppendRuntimeID int32 = 3

// Element is the native accessible-object identity of one node.
//
// It holds no node data: every call resolves the id against the tree's
// current snapshot, so an Element stays safe to use across updates and
// reports ErrElementNotAvailable after the node is removed.
type Element struct {
	tree    *engine.Tree
	surface Surface
	id      schema.NodeID
}

func newElement(tree *engine.Tree, surface Surface, id schema.NodeID) *Element {
	return &Element{tree: tree, surface: surface, id: id}
}

// ID returns the node id this element refers to.
func (e *Element) ID() schema.NodeID {
	return e.id
}

// Surface returns the hosting surface.
func (e *Element) Surface() Surface {
	return e.surface
}

// Equal reports whether both elements refer to the same node of the same
// surface.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.surface == o.surface && e.id == o.id && e.tree == o.tree
}

func (e *Element) resolve() (engine.Reader, *schema.Node, error) {
	r := e.tree.Read()
	n, ok := r.Node(e.id)
	if !ok {
		return r, nil, ErrElementNotAvailable
	}
	return r, n, nil
}

// Available reports whether the node is still in the tree.
func (e *Element) Available() bool {
	return e.tree.Read().Contains(e.id)
}

// RuntimeID returns the UI Automation runtime id of the node.
func (e *Element) RuntimeID() ([]int32, error) {
	if _, _, err := e.resolve(); err != nil {
		return nil, err
	}
	return RuntimeID(e.id), nil
}

// RuntimeID builds the runtime id of a node, which is unique within its
// surface even after the node is gone.
func RuntimeID(id schema.NodeID) []int32 {
	return []int32{UIAAppendRuntimeID, int32(uint32(id >> 32)), int32(uint32(id))}
}

// Name returns the node's name.
func (e *Element) Name() (string, error) {
	_, n, err := e.resolve()
	if err != nil {
		return "", err
	}
	return n.Name(), nil
}

// ControlType returns the control type of the node's role.
func (e *Element) ControlType() (ControlType, error) {
	_, n, err := e.resolve()
	if err != nil {
		return 0, err
	}
	return ControlTypeOf(n.Role), nil
}

func (e *Element) IsEnabled() (bool, error) {
	_, n, err := e.resolve()
	if err != nil {
		return false, err
	}
	return !n.State.Disabled, nil
}

func (e *Element) IsKeyboardFocusable() (bool, error) {
	_, n, err := e.resolve()
	if err != nil {
		return false, err
	}
	return n.State.Focusable, nil
}

// HasKeyboardFocus reports whether the node has effective focus in the
// current snapshot.
func (e *Element) HasKeyboardFocus() (bool, error) {
	r, _, err := e.resolve()
	if err != nil {
		return false, err
	}
	f, ok := r.Focus()
	return ok && f.ID == e.id, nil
}

// BoundingRectangle returns the stored bounds, relative to the offset
// container. Geometry is not transformed to screen space.
func (e *Element) BoundingRectangle() (schema.Rect, error) {
	_, n, err := e.resolve()
	if err != nil {
		return schema.Rect{}, err
	}
	return boundsOf(n), nil
}

// Property returns the value of a native property. Unsupported properties
// return nil without error.
func (e *Element) Property(id PropertyID) (any, error) {
	r, n, err := e.resolve()
	if err != nil {
		return nil, err
	}
	switch id {
	case PropRuntimeID:
		return RuntimeID(e.id), nil
	case PropHasKeyboardFocus:
		f, ok := r.Focus()
		return ok && f.ID == e.id, nil
	}
	if p, ok := propertyByID[id]; ok {
		return p.get(n), nil
	}
	return nil, nil
}

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() (*Element, error) {
	r, _, err := e.resolve()
	if err != nil {
		return nil, err
	}
	p, ok := r.Parent(e.id)
	if !ok {
		return nil, nil
	}
	return newElement(e.tree, e.surface, p), nil
}

// Children returns the child elements in order.
func (e *Element) Children() ([]*Element, error) {
	_, n, err := e.resolve()
	if err != nil {
		return nil, err
	}
	out := make([]*Element, len(n.ChildIDs))
	for i, c := range n.ChildIDs {
		out[i] = newElement(e.tree, e.surface, c)
	}
	return out, nil
}
