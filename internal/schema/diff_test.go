package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffNodes_Identical(t *testing.T) {
	n := sampleUpdate().Nodes[1]
	assert.Empty(t, DiffNodes(&n, n.Clone()))
}

func TestDiffNodes_NameOnly(t *testing.T) {
	old := &Node{ID: 1, Role: RoleButton, Attributes: Attributes{AttrName: String("Foo")}}
	new := old.Clone()
	new.Attributes[AttrName] = String("Bar")

	assert.Equal(t, []Field{AttrField(AttrName)}, DiffNodes(old, new))
}

func TestDiffNodes_Order(t *testing.T) {
	old := &Node{ID: 1, Role: RoleButton, ChildIDs: []NodeID{2}}
	new := &Node{
		ID:         1,
		Role:       RoleCheckBox,
		ChildIDs:   []NodeID{3},
		State:      NodeState{Focusable: true, Disabled: true},
		Actions:    NewActionSet(ActionFocus),
		Attributes: Attributes{AttrValue: String("v"), AttrName: String("n")},
		Bounds:     &RelativeBounds{Bounds: Rect{Width: 10}},
	}

	got := DiffNodes(old, new)
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.String()
	}
	assert.Equal(t, []string{
		"role", "bounds", "children",
		"state.focusable", "state.disabled",
		"actions",
		"attr.name", "attr.value",
	}, names)
}

func TestDiffNodes_AttributeRemoved(t *testing.T) {
	old := &Node{ID: 1, Attributes: Attributes{AttrDescription: String("d")}}
	new := &Node{ID: 1}

	assert.Equal(t, []Field{AttrField(AttrDescription)}, DiffNodes(old, new))
}

func TestDiffNodes_NaNIsStable(t *testing.T) {
	old := &Node{ID: 1, Attributes: Attributes{AttrScrollX: Float(nanValue())}}
	new := old.Clone()

	assert.Empty(t, DiffNodes(old, new))
	assert.True(t, old.Equal(new))
}
