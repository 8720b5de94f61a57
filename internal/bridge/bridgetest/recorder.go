// Package bridgetest provides a recording bridge.Native for tests.
package bridgetest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/axtree/internal/bridge"
	"github.com/roach88/axtree/internal/schema"
)

// Call is one recorded native call.
type Call struct {
	// Name is one of the bridge.Call* constants.
	Name      string
	NodeID    schema.NodeID
	Event     bridge.EventID
	Property  bridge.PropertyID
	Old       any
	New       any
	Structure bridge.StructureChangeKind
	RuntimeID []int32
	ObjID     bridge.ObjID
}

func (c Call) String() string {
	switch c.Name {
	case bridge.CallAutomationEvent:
		return fmt.Sprintf("%s(%d, %s)", c.Name, c.NodeID, c.Event)
	case bridge.CallPropertyChanged:
		return fmt.Sprintf("%s(%d, %s: %v -> %v)", c.Name, c.NodeID, c.Property, c.Old, c.New)
	case bridge.CallStructureChanged:
		return fmt.Sprintf("%s(%d, %s, %v)", c.Name, c.NodeID, c.Structure, c.RuntimeID)
	case bridge.CallReturnProvider:
		return fmt.Sprintf("%s(%d, objid=%d)", c.Name, c.NodeID, c.ObjID)
	default:
		return c.Name
	}
}

// Recorder records every native call. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	failures map[string]error
	reply    bridge.Reply
	observe  func(Call)
}

var _ bridge.Native = (*Recorder)(nil)

// NewRecorder returns a recorder whose ReturnProvider replies with reply.
func NewRecorder(reply bridge.Reply) *Recorder {
	return &Recorder{reply: reply, failures: make(map[string]error)}
}

// FailOn makes every later call with the given name fail with err. A nil err
// clears the failure.
func (r *Recorder) FailOn(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, name)
		return
	}
	r.failures[name] = err
}

// Observe calls fn with every call as it is recorded, under the recorder's
// lock. fn must not call back into r.
func (r *Recorder) Observe(fn func(Call)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observe = fn
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Count returns how many calls with the given name were recorded. An empty
// name counts all calls.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return len(r.calls)
	}
	n := 0
	for _, c := range r.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls. Failures stay configured.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) add(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	if r.observe != nil {
		r.observe(c)
	}
	return r.failures[c.Name]
}

func (r *Recorder) RaiseAutomationEvent(el *bridge.Element, event bridge.EventID) error {
	return r.add(Call{Name: bridge.CallAutomationEvent, NodeID: el.ID(), Event: event})
}

func (r *Recorder) RaisePropertyChanged(el *bridge.Element, prop bridge.PropertyID, oldValue, newValue any) error {
	return r.add(Call{Name: bridge.CallPropertyChanged, NodeID: el.ID(), Property: prop, Old: oldValue, New: newValue})
}

func (r *Recorder) RaiseStructureChanged(el *bridge.Element, kind bridge.StructureChangeKind, runtimeID []int32) error {
	return r.add(Call{
		Name:      bridge.CallStructureChanged,
		NodeID:    el.ID(),
		Structure: kind,
		RuntimeID: slices.Clone(runtimeID),
	})
}

func (r *Recorder) ReturnProvider(_ bridge.Surface, q bridge.Query, el *bridge.Element) (bridge.Reply, error) {
	if err := r.add(Call{Name: bridge.CallReturnProvider, NodeID: el.ID(), ObjID: q.ObjID()}); err != nil {
		return 0, err
	}
	return r.reply, nil
}
