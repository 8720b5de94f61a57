package schema

import (
	"fmt"
	"slices"
)

// FieldKind classifies a differing field reported by DiffNodes.
type FieldKind uint8

const (
	FieldRole FieldKind = iota
	FieldBounds
	FieldChildren
	FieldState
	FieldActions
	FieldAttribute
)

// Field names one node field that differs between two snapshots.
// Flag is set for FieldState; Attr is set for FieldAttribute.
type Field struct {
	Kind FieldKind
	Flag string
	Attr AttrKind
}

func (f Field) String() string {
	switch f.Kind {
	case FieldRole:
		return "role"
	case FieldBounds:
		return "bounds"
	case FieldChildren:
		return "children"
	case FieldState:
		return "state." + f.Flag
	case FieldActions:
		return "actions"
	case FieldAttribute:
		return "attr." + f.Attr.String()
	default:
		return fmt.Sprintf("FieldKind(%d)", f.Kind)
	}
}

// StateField returns the Field for a NodeState flag.
func StateField(flag string) Field {
	return Field{Kind: FieldState, Flag: flag}
}

// AttrField returns the Field for an attribute kind.
func AttrField(kind AttrKind) Field {
	return Field{Kind: FieldAttribute, Attr: kind}
}

// DiffNodes lists every field that differs between old and new.
//
// Order is deterministic: role, bounds, children, state flags in declaration
// order, actions, then attribute kinds in catalog order (an attribute present
// on only one side counts as differing). Node ids are not compared.
func DiffNodes(old, new *Node) []Field {
	var fields []Field
	if old.Role != new.Role {
		fields = append(fields, Field{Kind: FieldRole})
	}
	if !old.Bounds.Equal(new.Bounds) {
		fields = append(fields, Field{Kind: FieldBounds})
	}
	if !slices.Equal(old.ChildIDs, new.ChildIDs) {
		fields = append(fields, Field{Kind: FieldChildren})
	}
	if old.State != new.State {
		for _, flag := range StateFlags {
			if flag.Get(old.State) != flag.Get(new.State) {
				fields = append(fields, StateField(flag.Name))
			}
		}
	}
	if old.Actions != new.Actions {
		fields = append(fields, Field{Kind: FieldActions})
	}
	for k := range kindTable {
		kind := AttrKind(k)
		a, inOld := old.Attributes[kind]
		b, inNew := new.Attributes[kind]
		if !inOld && !inNew {
			continue
		}
		if inOld != inNew || !ValuesEqual(a, b) {
			fields = append(fields, AttrField(kind))
		}
	}
	return fields
}
