package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/axtree/internal/schema"
	tu "github.com/roach88/axtree/internal/testutil"
)

func changedIDs(before, after schema.Node) []PropertyID {
	var ids []PropertyID
	for _, pc := range PropertyChanges(&before, &after) {
		ids = append(ids, pc.ID)
	}
	return ids
}

func TestPropertyChanges(t *testing.T) {
	base := tu.Focusable(tu.Named(tu.Node(2, schema.RoleButton), "OK"))

	disabled := base
	disabled.State.Disabled = true

	checked := tu.WithAttr(base, schema.AttrCheckedState, schema.Token("true"))

	expanded := base
	expanded.State.Expanded = true

	bounds := base
	bounds.Bounds = &schema.RelativeBounds{Bounds: schema.Rect{Width: 10, Height: 5}}

	children := base
	children.ChildIDs = []schema.NodeID{7}

	cases := []struct {
		name  string
		after schema.Node
		want  []PropertyID
	}{
		{"unchanged", base, nil},
		{"name", tu.Named(base, "Cancel"), []PropertyID{PropName}},
		{"role", func() schema.Node { n := base; n.Role = schema.RoleCheckBox; return n }(),
			[]PropertyID{PropControlType, PropLocalizedControlType}},
		{"role with same control type", func() schema.Node { n := base; n.Role = schema.RoleToggleButton; return n }(), nil},
		{"role description", tu.WithAttr(base, schema.AttrRoleDescription, schema.String("fancy button")),
			[]PropertyID{PropLocalizedControlType}},
		{"disabled", disabled, []PropertyID{PropIsEnabled}},
		{"checked", checked, []PropertyID{PropToggleState}},
		{"expanded", expanded, []PropertyID{PropExpandCollapseState}},
		{"bounds", bounds, []PropertyID{PropBoundingRectangle}},
		{"tooltip", tu.WithAttr(base, schema.AttrTooltip, schema.String("Confirm")), []PropertyID{PropHelpText}},
		{"value", tu.WithAttr(base, schema.AttrValue, schema.String("42")), []PropertyID{PropValueValue}},
		{"selected", tu.WithAttr(base, schema.AttrSelected, schema.Bool(true)), []PropertyID{PropSelectionItemIsSelected}},
		{"children only", children, nil},
		{"actions only", func() schema.Node { n := base; n.Actions = schema.NewActionSet(schema.ActionFocus); return n }(), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, changedIDs(base, tc.after))
		})
	}
}

func TestPropertyChanges_RelativeBounds(t *testing.T) {
	rect := schema.Rect{Width: 10, Height: 5}
	base := tu.Node(2, schema.RoleButton)
	base.Bounds = &schema.RelativeBounds{Bounds: rect}

	transformed := base
	transformed.Bounds = &schema.RelativeBounds{Bounds: rect, Transform: &schema.Transform{}}
	assert.Equal(t, []PropertyID{PropBoundingRectangle}, changedIDs(base, transformed))

	offset := base
	offset.Bounds = &schema.RelativeBounds{OffsetContainerID: 1, Bounds: rect}
	assert.Equal(t, []PropertyID{PropBoundingRectangle}, changedIDs(base, offset))

	same := base
	same.Bounds = &schema.RelativeBounds{Bounds: rect}
	assert.Empty(t, changedIDs(base, same))
}

func TestPropertyChanges_CarriesValues(t *testing.T) {
	before := tu.Named(tu.Node(3, schema.RoleStaticText), "Hello")
	after := tu.Named(tu.Node(3, schema.RoleStaticText), "Bar")

	got := PropertyChanges(&before, &after)
	assert.Equal(t, []PropertyChange{{ID: PropName, Old: "Hello", New: "Bar"}}, got)
}

func TestToggleAndExpandStates(t *testing.T) {
	n := tu.Node(1, schema.RoleCheckBox)
	assert.Equal(t, ToggleOff, toggleState(&n))
	mixed := tu.WithAttr(n, schema.AttrCheckedState, schema.Token("mixed"))
	assert.Equal(t, ToggleIndeterminate, toggleState(&mixed))

	assert.Equal(t, LeafNode, expandCollapseState(&n))
	n.State.Collapsed = true
	assert.Equal(t, Collapsed, expandCollapseState(&n))
}

func TestControlTypeOf(t *testing.T) {
	assert.Equal(t, ControlWindow, ControlTypeOf(schema.RoleWindow))
	assert.Equal(t, ControlText, ControlTypeOf(schema.RoleStaticText))
	assert.Equal(t, ControlCustom, ControlTypeOf(schema.RoleUnknown))
	assert.Equal(t, ControlGroup, ControlTypeOf(schema.RoleNavigation), "landmarks are groups")
	assert.Equal(t, "check box", ControlCheckBox.String())
}

func TestIDStrings(t *testing.T) {
	assert.Equal(t, "name", PropName.String())
	assert.Equal(t, "has_keyboard_focus", PropHasKeyboardFocus.String())
	assert.Equal(t, "property(1)", PropertyID(1).String())
	assert.Equal(t, "focus_changed", AutomationFocusChangedEventID.String())
	assert.Equal(t, "child_removed", StructureChildRemoved.String())
}

func TestQuery_ObjID(t *testing.T) {
	assert.Equal(t, ObjIDClient, Query{LParam: -4}.ObjID())
	assert.Equal(t, ObjIDClient, Query{LParam: 0xFFFFFFFC}.ObjID())
	assert.Equal(t, ObjID(0), Query{LParam: 1 << 32}.ObjID())
}
