package schema

// NodeState is the fixed set of boolean flags carried by every node.
type NodeState struct {
	AutofillAvailable bool `json:"autofill_available,omitempty"`
	Collapsed         bool `json:"collapsed,omitempty"`
	Expanded          bool `json:"expanded,omitempty"`
	Default           bool `json:"default,omitempty"`
	Editable          bool `json:"editable,omitempty"`
	Focusable         bool `json:"focusable,omitempty"`
	// Grows horizontally, e.g. most toolbars and separators.
	Horizontal bool `json:"horizontal,omitempty"`
	// Grows vertically, e.g. menu or combo box.
	Vertical bool `json:"vertical,omitempty"`
	Hovered  bool `json:"hovered,omitempty"`
	// Skip over this node in the platform tree, but keep its subtree.
	Ignored         bool `json:"ignored,omitempty"`
	Invisible       bool `json:"invisible,omitempty"`
	Linked          bool `json:"linked,omitempty"`
	Multiline       bool `json:"multiline,omitempty"`
	Multiselectable bool `json:"multiselectable,omitempty"`
	Protected       bool `json:"protected,omitempty"`
	Required        bool `json:"required,omitempty"`
	RichlyEditable  bool `json:"richly_editable,omitempty"`
	Visited         bool `json:"visited,omitempty"`
	// A textbox that allows focus/selection but not input.
	ReadOnly bool `json:"read_only,omitempty"`
	// A control or group of controls that disallows input.
	Disabled bool `json:"disabled,omitempty"`
}

// StateFlag names one NodeState field for diffing.
type StateFlag struct {
	Name string
	Get  func(NodeState) bool
}

// StateFlags lists every NodeState field in declaration order.
var StateFlags = []StateFlag{
	{"autofill_available", func(s NodeState) bool { return s.AutofillAvailable }},
	{"collapsed", func(s NodeState) bool { return s.Collapsed }},
	{"expanded", func(s NodeState) bool { return s.Expanded }},
	{"default", func(s NodeState) bool { return s.Default }},
	{"editable", func(s NodeState) bool { return s.Editable }},
	{"focusable", func(s NodeState) bool { return s.Focusable }},
	{"horizontal", func(s NodeState) bool { return s.Horizontal }},
	{"vertical", func(s NodeState) bool { return s.Vertical }},
	{"hovered", func(s NodeState) bool { return s.Hovered }},
	{"ignored", func(s NodeState) bool { return s.Ignored }},
	{"invisible", func(s NodeState) bool { return s.Invisible }},
	{"linked", func(s NodeState) bool { return s.Linked }},
	{"multiline", func(s NodeState) bool { return s.Multiline }},
	{"multiselectable", func(s NodeState) bool { return s.Multiselectable }},
	{"protected", func(s NodeState) bool { return s.Protected }},
	{"required", func(s NodeState) bool { return s.Required }},
	{"richly_editable", func(s NodeState) bool { return s.RichlyEditable }},
	{"visited", func(s NodeState) bool { return s.Visited }},
	{"read_only", func(s NodeState) bool { return s.ReadOnly }},
	{"disabled", func(s NodeState) bool { return s.Disabled }},
}
