package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUpdate() TreeUpdate {
	return TreeUpdate{
		Nodes: []Node{
			{
				ID:       1,
				Role:     RoleWindow,
				ChildIDs: []NodeID{3, 2},
				Bounds: &RelativeBounds{
					Bounds:    Rect{Left: 0, Top: 0, Width: 800, Height: 600.5},
					Transform: &Transform{Matrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}},
				},
				Attributes: Attributes{AttrName: String("Main window")},
			},
			{
				ID:      3,
				Role:    RoleButton,
				State:   NodeState{Focusable: true},
				Actions: NewActionSet(ActionFocus, ActionDefault),
				Attributes: Attributes{
					AttrName:          String("OK"),
					AttrCheckedState:  Token("mixed"),
					AttrLabelledBy:    NodeRefs{2},
					AttrFontSize:      Float(12.5),
					AttrSetSize:       Uint(4),
					AttrTextSelection: TextRange{Start: 1, End: 3},
					AttrMarkers:       Markers{{Type: "spelling_error", Start: 0, End: 2}},
					AttrTextStyle:     TextStyle{Bold: true, Underline: "wavy"},
					AttrCustomActions: CustomActions{{ID: 7, Description: "Reorder"}},
					AttrPopupFor:      NodeRef(1),
				},
			},
			{ID: 2, Role: RoleStaticText, Attributes: Attributes{AttrName: String("Label")}},
		},
		Tree:   &Tree{ID: "tree-1", FocusedNodeID: 3},
		RootID: 1,
	}
}

func TestTreeUpdate_JSONRoundTrip(t *testing.T) {
	update := sampleUpdate()

	data, err := json.Marshal(update)
	require.NoError(t, err)

	var decoded TreeUpdate
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, update.Equal(&decoded), "round trip should preserve every field")

	// Node order is significant and must survive.
	ids := make([]NodeID, len(decoded.Nodes))
	for i, n := range decoded.Nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []NodeID{1, 3, 2}, ids)
}

func TestTreeUpdate_JSONShape(t *testing.T) {
	update := TreeUpdate{
		Nodes:  []Node{{ID: 1, Role: RoleButton, Actions: NewActionSet(ActionFocus)}},
		RootID: 1,
	}
	data, err := json.Marshal(update)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"nodes": [{"id": 1, "role": "button", "state": {}, "actions": ["focus"]}],
		"root_id": 1
	}`, string(data))
}

func TestTreeUpdate_EqualDetectsOrder(t *testing.T) {
	a := sampleUpdate()
	b := sampleUpdate()
	b.Nodes[1], b.Nodes[2] = b.Nodes[2], b.Nodes[1]

	assert.False(t, a.Equal(&b))
}

func TestNode_EqualNilAndEmpty(t *testing.T) {
	a := &Node{ID: 1, ChildIDs: nil, Attributes: nil}
	b := &Node{ID: 1, ChildIDs: []NodeID{}, Attributes: Attributes{}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Node)(nil).Equal(nil))
}

func TestNode_CloneIsIndependent(t *testing.T) {
	orig := sampleUpdate().Nodes[0]
	clone := orig.Clone()
	require.True(t, orig.Equal(clone))

	clone.ChildIDs[0] = 99
	clone.Attributes[AttrName] = String("changed")
	clone.Bounds.Transform.Matrix[0] = 2

	assert.Equal(t, NodeID(3), orig.ChildIDs[0])
	assert.Equal(t, "Main window", orig.Name())
	assert.Equal(t, float32(1), orig.Bounds.Transform.Matrix[0])
}

func TestAttributes_UnmarshalRejectsWrongType(t *testing.T) {
	var attrs Attributes
	err := json.Unmarshal([]byte(`{"name": 5}`), &attrs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestAttributes_UnmarshalRejectsUnknownKind(t *testing.T) {
	var attrs Attributes
	err := json.Unmarshal([]byte(`{"no_such_attribute": "x"}`), &attrs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestAttributes_TokenMustBeInCatalog(t *testing.T) {
	var attrs Attributes
	err := json.Unmarshal([]byte(`{"checked_state": "sideways"}`), &attrs)
	require.Error(t, err)

	_, err = json.Marshal(Attributes{AttrCheckedState: Token("sideways")})
	require.Error(t, err)

	require.NoError(t, json.Unmarshal([]byte(`{"checked_state": "true"}`), &attrs))
	v, ok := attrs.Token(AttrCheckedState)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestAttributes_ValidateRejectsMismatchedValue(t *testing.T) {
	attrs := Attributes{AttrBusy: String("yes")}
	err := attrs.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

func TestAttributes_ValidateRejectsNonFinite(t *testing.T) {
	for _, attrs := range []Attributes{
		{AttrScrollY: Float(math.Inf(-1))},
		{AttrScrollX: Float(math.NaN())},
		{AttrCharacterOffsets: Floats{0, float32(math.NaN())}},
	} {
		err := attrs.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-finite")
	}
	assert.NoError(t, Attributes{AttrScrollX: Float(12.5)}.Validate())
}

func TestAttributes_Accessors(t *testing.T) {
	attrs := Attributes{AttrName: String("n"), AttrModal: Bool(true)}

	name, ok := attrs.Text(AttrName)
	assert.True(t, ok)
	assert.Equal(t, "n", name)

	modal, ok := attrs.Bool(AttrModal)
	assert.True(t, ok)
	assert.True(t, modal)

	_, ok = attrs.Text(AttrValue)
	assert.False(t, ok)

	assert.Equal(t, []AttrKind{AttrName, AttrModal}, attrs.Kinds())
}

func TestRole_TextRoundTrip(t *testing.T) {
	for r := RoleUnknown; r <= RoleWindow; r++ {
		text, err := r.MarshalText()
		require.NoError(t, err)

		var back Role
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, r, back)
	}

	var r Role
	assert.Error(t, r.UnmarshalText([]byte("spaceship")))
	_, err := Role(9999).MarshalText()
	assert.Error(t, err)
}

func TestActionSet(t *testing.T) {
	s := NewActionSet(ActionFocus, ActionDefault, ActionFocus)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(ActionFocus))
	assert.False(t, s.Has(ActionBlur))
	assert.Equal(t, []Action{ActionDefault, ActionFocus}, s.Actions())

	s = s.Without(ActionFocus).With(ActionExpand)
	assert.Equal(t, []Action{ActionDefault, ActionExpand}, s.Actions())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["default","expand"]`, string(data))

	var back ActionSet
	require.NoError(t, json.Unmarshal([]byte(`["expand","default","default"]`), &back))
	assert.Equal(t, s, back)
}

func TestTree_EffectiveFocus(t *testing.T) {
	tree := &Tree{ID: "a", FocusedNodeID: 5}
	assert.Equal(t, NodeID(5), tree.EffectiveFocus())

	tree.FocusedTreeID = "a"
	assert.Equal(t, NodeID(5), tree.EffectiveFocus())

	tree.FocusedTreeID = "child-frame"
	assert.Equal(t, NodeID(0), tree.EffectiveFocus())

	assert.Equal(t, NodeID(0), (*Tree)(nil).EffectiveFocus())
}

func TestTree_SameExceptFocus(t *testing.T) {
	a := &Tree{ID: "a", FocusedNodeID: 1}
	b := &Tree{ID: "a", FocusedNodeID: 2}
	c := &Tree{ID: "a", FocusedNodeID: 2, RootScrollerID: 4}

	assert.True(t, a.SameExceptFocus(b))
	assert.False(t, b.SameExceptFocus(c))
	assert.False(t, a.Equal(b))
}
