package bridge

import (
	"fmt"

	"github.com/roach88/axtree/internal/schema"
)

// PropertyID is a UI Automation property identifier.
type PropertyID int32

const (
	PropRuntimeID               PropertyID = 30000
	PropBoundingRectangle       PropertyID = 30001
	PropControlType             PropertyID = 30003
	PropLocalizedControlType    PropertyID = 30004
	PropName                    PropertyID = 30005
	PropAcceleratorKey          PropertyID = 30006
	PropAccessKey               PropertyID = 30007
	PropHasKeyboardFocus        PropertyID = 30008
	PropIsKeyboardFocusable     PropertyID = 30009
	PropIsEnabled               PropertyID = 30010
	PropClassName               PropertyID = 30012
	PropHelpText                PropertyID = 30013
	PropIsPassword              PropertyID = 30019
	PropIsOffscreen             PropertyID = 30022
	PropIsRequiredForForm       PropertyID = 30025
	PropValueValue              PropertyID = 30045
	PropValueIsReadOnly         PropertyID = 30046
	PropExpandCollapseState     PropertyID = 30070
	PropSelectionItemIsSelected PropertyID = 30079
	PropToggleState             PropertyID = 30086
	PropFullDescription         PropertyID = 30159
)

// ToggleState is the value of PropToggleState.
type ToggleState int32

const (
	ToggleOff           ToggleState = 0
	ToggleOn            ToggleState = 1
	ToggleIndeterminate ToggleState = 2
)

// ExpandCollapseState is the value of PropExpandCollapseState.
type ExpandCollapseState int32

const (
	Collapsed         ExpandCollapseState = 0
	Expanded          ExpandCollapseState = 1
	PartiallyExpanded ExpandCollapseState = 2
	LeafNode          ExpandCollapseState = 3
)

// property derives one native property from node content alone.
type property struct {
	id   PropertyID
	name string
	get  func(n *schema.Node) any
}

// propertyChanged overrides value comparison for properties whose value
// does not capture everything they depend on.
var propertyChanged = map[PropertyID]func(before, after *schema.Node) bool{
	PropBoundingRectangle: boundsChanged,
}

// nodeProperties is in announcement order. Properties that depend on tree
// state rather than node content (focus, runtime id) are not listed; focus
// is announced by its own event.
var nodeProperties = []property{
	{PropControlType, "control_type", func(n *schema.Node) any { return ControlTypeOf(n.Role) }},
	{PropLocalizedControlType, "localized_control_type", localizedControlType},
	{PropName, "name", func(n *schema.Node) any { return n.Name() }},
	{PropHelpText, "help_text", text(schema.AttrTooltip)},
	{PropFullDescription, "full_description", text(schema.AttrDescription)},
	{PropAccessKey, "access_key", text(schema.AttrAccessKey)},
	{PropAcceleratorKey, "accelerator_key", text(schema.AttrKeyShortcuts)},
	{PropClassName, "class_name", text(schema.AttrClassName)},
	{PropIsEnabled, "is_enabled", func(n *schema.Node) any { return !n.State.Disabled }},
	{PropIsKeyboardFocusable, "is_keyboard_focusable", func(n *schema.Node) any { return n.State.Focusable }},
	{PropIsOffscreen, "is_offscreen", func(n *schema.Node) any { return n.State.Invisible }},
	{PropIsPassword, "is_password", func(n *schema.Node) any { return n.State.Protected }},
	{PropIsRequiredForForm, "is_required_for_form", func(n *schema.Node) any { return n.State.Required }},
	{PropBoundingRectangle, "bounding_rectangle", func(n *schema.Node) any { return boundsOf(n) }},
	{PropValueValue, "value", text(schema.AttrValue)},
	{PropValueIsReadOnly, "value_is_read_only", func(n *schema.Node) any { return n.State.ReadOnly }},
	{PropToggleState, "toggle_state", func(n *schema.Node) any { return toggleState(n) }},
	{PropExpandCollapseState, "expand_collapse_state", func(n *schema.Node) any { return expandCollapseState(n) }},
	{PropSelectionItemIsSelected, "is_selected", func(n *schema.Node) any {
		v, _ := n.Attributes.Bool(schema.AttrSelected)
		return v
	}},
}

var propertyByID = func() map[PropertyID]property {
	m := make(map[PropertyID]property, len(nodeProperties))
	for _, p := range nodeProperties {
		m[p.id] = p
	}
	return m
}()

var extraPropertyNames = map[PropertyID]string{
	PropRuntimeID:        "runtime_id",
	PropHasKeyboardFocus: "has_keyboard_focus",
}

func (p PropertyID) String() string {
	if prop, ok := propertyByID[p]; ok {
		return prop.name
	}
	if s, ok := extraPropertyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("property(%d)", int32(p))
}

func text(kind schema.AttrKind) func(n *schema.Node) any {
	return func(n *schema.Node) any {
		s, _ := n.Attributes.Text(kind)
		return s
	}
}

func localizedControlType(n *schema.Node) any {
	if s, ok := n.Attributes.Text(schema.AttrRoleDescription); ok && s != "" {
		return s
	}
	return ControlTypeOf(n.Role).String()
}

// boundsChanged compares the whole relative bounds, so a new transform or
// offset container is announced even when the stored rect is unchanged.
func boundsChanged(before, after *schema.Node) bool {
	return !before.Bounds.Equal(after.Bounds)
}

// boundsOf returns the stored rect, relative to the offset container.
func boundsOf(n *schema.Node) schema.Rect {
	if n.Bounds == nil {
		return schema.Rect{}
	}
	return n.Bounds.Bounds
}

func toggleState(n *schema.Node) ToggleState {
	switch s, _ := n.Attributes.Token(schema.AttrCheckedState); s {
	case "true":
		return ToggleOn
	case "mixed":
		return ToggleIndeterminate
	default:
		return ToggleOff
	}
}

func expandCollapseState(n *schema.Node) ExpandCollapseState {
	switch {
	case n.State.Expanded:
		return Expanded
	case n.State.Collapsed:
		return Collapsed
	default:
		return LeafNode
	}
}

// PropertyChange is one native property that differs between two snapshots
// of a node.
type PropertyChange struct {
	ID  PropertyID
	Old any
	New any
}

// PropertyChanges lists the native properties whose values differ between
// two snapshots of a node, in announcement order.
func PropertyChanges(before, after *schema.Node) []PropertyChange {
	var out []PropertyChange
	for _, p := range nodeProperties {
		ov, nv := p.get(before), p.get(after)
		changed := !sameValue(ov, nv)
		if f, ok := propertyChanged[p.id]; ok {
			changed = f(before, after)
		}
		if changed {
			out = append(out, PropertyChange{ID: p.id, Old: ov, New: nv})
		}
	}
	return out
}

func sameValue(a, b any) bool {
	if ra, ok := a.(schema.Rect); ok {
		rb, ok := b.(schema.Rect)
		return ok && ra.Equal(rb)
	}
	return a == b
}
