package schema

import (
	"encoding/json"
	"fmt"
	"math/bits"
)

// Action is an operation an assistive technology may request on a node.
type Action uint8

const (
	ActionDefault Action = iota
	ActionFocus
	ActionBlur
	ActionCollapse
	ActionExpand
	ActionCustomAction
	ActionDecrement
	ActionIncrement
	ActionHideTooltip
	ActionShowTooltip
	ActionInvalidateTree
	ActionLoadInlineTextBoxes
	ActionReplaceSelectedText
	ActionScrollBackward
	ActionScrollDown
	ActionScrollForward
	ActionScrollLeft
	ActionScrollRight
	ActionScrollUp
	ActionScrollIntoView
	ActionScrollToPoint
	ActionSetScrollOffset
	ActionSetSelection
	ActionSetSequentialFocusNavigationStartingPoint
	ActionSetValue
	ActionShowContextMenu
)

var actionNames = []string{
	"default", "focus", "blur", "collapse", "expand", "custom_action",
	"decrement", "increment", "hide_tooltip", "show_tooltip", "invalidate_tree",
	"load_inline_text_boxes", "replace_selected_text", "scroll_backward",
	"scroll_down", "scroll_forward", "scroll_left", "scroll_right", "scroll_up",
	"scroll_into_view", "scroll_to_point", "set_scroll_offset", "set_selection",
	"set_sequential_focus_navigation_starting_point", "set_value",
	"show_context_menu",
}

func (a Action) String() string { return enumString(actionNames, int(a), "Action") }

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) { return enumText(actionNames, int(a), "action") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	i, err := enumParse(actionNames, text, "action")
	if err != nil {
		return err
	}
	*a = Action(i)
	return nil
}

// ActionSet is an unordered set of supported actions.
// It encodes as a JSON list of action names in catalog order.
type ActionSet uint64

// NewActionSet builds a set from actions; duplicates collapse.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s&(1<<a) != 0
}

// With returns the set plus a.
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<a
}

// Without returns the set minus a.
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << a)
}

// Len returns the number of actions in the set.
func (s ActionSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Actions lists the members in catalog order.
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, s.Len())
	for i := range actionNames {
		if s.Has(Action(i)) {
			out = append(out, Action(i))
		}
	}
	return out
}

// MarshalJSON encodes the set as a list of names.
func (s ActionSet) MarshalJSON() ([]byte, error) {
	if s>>len(actionNames) != 0 {
		return nil, fmt.Errorf("action set contains values outside the catalog: %#x", uint64(s))
	}
	return json.Marshal(s.Actions())
}

// UnmarshalJSON decodes a list of action names.
func (s *ActionSet) UnmarshalJSON(data []byte) error {
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return fmt.Errorf("actions: %w", err)
	}
	*s = NewActionSet(actions...)
	return nil
}
