package bridge

import "fmt"

// Surface identifies the native window that hosts a tree (an HWND).
type Surface uintptr

// Reply is the payload returned to the OS for an object query (an LRESULT).
type Reply int64

// ObjID is the object-id discriminator of a native object query.
type ObjID int32

const (
	// ObjIDClient asks for the client area of the window.
	ObjIDClient ObjID = -4

	// UIARootObjectID asks for the root UI Automation provider.
	UIARootObjectID ObjID = -25
)

// Query is a raw native object query (WM_GETOBJECT parameters).
type Query struct {
	WParam uintptr
	LParam int64
}

// ObjID extracts the object id from the low 32 bits of LParam. Senders are
// inconsistent about sign extension, so only the low half is trusted.
func (q Query) ObjID() ObjID {
	return ObjID(int32(uint32(q.LParam)))
}

// EventID is a UI Automation event identifier.
type EventID int32

const (
	StructureChangedEventID       EventID = 20002
	AutomationFocusChangedEventID EventID = 20005
)

func (e EventID) String() string {
	switch e {
	case StructureChangedEventID:
		return "structure_changed"
	case AutomationFocusChangedEventID:
		return "focus_changed"
	default:
		return fmt.Sprintf("event(%d)", int32(e))
	}
}

// StructureChangeKind is the kind of a structure-changed event.
type StructureChangeKind int32

const (
	StructureChildAdded   StructureChangeKind = 0
	StructureChildRemoved StructureChangeKind = 1
)

func (k StructureChangeKind) String() string {
	switch k {
	case StructureChildAdded:
		return "child_added"
	case StructureChildRemoved:
		return "child_removed"
	default:
		return fmt.Sprintf("structure(%d)", int32(k))
	}
}

// Native call names, used for metrics labels and logs.
const (
	CallAutomationEvent  = "raise_automation_event"
	CallPropertyChanged  = "raise_property_changed"
	CallStructureChanged = "raise_structure_changed"
	CallReturnProvider   = "return_provider"
)

// Native is the platform accessibility API the bridge notifies.
//
// Implementations wrap UiaRaiseAutomationEvent,
// UiaRaiseAutomationPropertyChangedEvent, UiaRaiseStructureChangedEvent and
// UiaReturnRawElementProvider. Calls happen on the goroutine that called
// Update or HandleQuery.
type Native interface {
	RaiseAutomationEvent(el *Element, event EventID) error
	RaisePropertyChanged(el *Element, prop PropertyID, oldValue, newValue any) error
	RaiseStructureChanged(el *Element, kind StructureChangeKind, runtimeID []int32) error
	ReturnProvider(surface Surface, q Query, el *Element) (Reply, error)
}
