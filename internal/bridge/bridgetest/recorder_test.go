package bridgetest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/axtree/internal/bridge"
	"github.com/roach88/axtree/internal/schema"
	tu "github.com/roach88/axtree/internal/testutil"
)

func TestRecorder_RecordsAndFails(t *testing.T) {
	rec := NewRecorder(9)
	b := bridge.New(1, rec, bridge.StaticInit(tu.Window()))

	var observed []string
	rec.Observe(func(c Call) { observed = append(observed, c.Name) })

	reply, ok, err := b.HandleQuery(bridge.Query{LParam: int64(bridge.UIARootObjectID)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bridge.Reply(9), reply)

	boom := errors.New("boom")
	rec.FailOn(bridge.CallAutomationEvent, boom)
	require.ErrorIs(t, b.Update(tu.Focus(3)), boom)

	rec.FailOn(bridge.CallAutomationEvent, nil)
	require.NoError(t, b.Update(tu.Focus(2)))

	assert.Equal(t, 3, rec.Count(""))
	assert.Equal(t, 2, rec.Count(bridge.CallAutomationEvent))
	assert.Equal(t, []string{
		"return_provider(1, objid=-25)",
		"raise_automation_event(3, focus_changed)",
		"raise_automation_event(2, focus_changed)",
	}, func() []string {
		var out []string
		for _, c := range rec.Calls() {
			out = append(out, c.String())
		}
		return out
	}())
	assert.Len(t, observed, 3)

	rec.Reset()
	assert.Zero(t, rec.Count(""))
}

func TestCall_String(t *testing.T) {
	c := Call{Name: bridge.CallPropertyChanged, NodeID: 3, Property: bridge.PropName, Old: "a", New: "b"}
	assert.Equal(t, "raise_property_changed(3, name: a -> b)", c.String())

	c = Call{Name: bridge.CallStructureChanged, NodeID: 1, Structure: bridge.StructureChildRemoved, RuntimeID: bridge.RuntimeID(schema.NodeID(4))}
	assert.Equal(t, "raise_structure_changed(1, child_removed, [3 0 4])", c.String())
}
