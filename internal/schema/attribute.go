package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
)

// AttrKind identifies one typed node attribute.
type AttrKind uint16

const (
	AttrName AttrKind = iota
	AttrDescription
	AttrValue
	AttrAccessKey
	AttrAutoComplete
	AttrCheckedStateDescription
	AttrClassName
	AttrFontFamily
	AttrHTMLTag
	AttrInputType
	AttrKeyShortcuts
	AttrLanguage
	AttrLiveRelevant
	AttrLiveStatus
	AttrPlaceholder
	AttrRoleDescription
	AttrTooltip
	AttrURL
	AttrCustomRole
	AttrInvalidState

	AttrBusy
	AttrModal
	AttrScrollable
	AttrClickable
	AttrSelected
	AttrLiveAtomic
	AttrGrabbed

	AttrActiveDescendant
	AttrErrorMessage
	AttrInPageLinkTarget
	AttrMemberOf
	AttrNextOnLine
	AttrPreviousOnLine
	AttrPopupFor
	AttrTableHeader
	AttrPreviousFocus
	AttrNextFocus

	AttrIndirectChildren
	AttrControls
	AttrDetails
	AttrDescribedBy
	AttrFlowTo
	AttrLabelledBy
	AttrRadioGroup

	AttrScrollX
	AttrScrollXMin
	AttrScrollXMax
	AttrScrollY
	AttrScrollYMin
	AttrScrollYMax
	AttrValueForRange
	AttrMinValueForRange
	AttrMaxValueForRange
	AttrStepValueForRange
	AttrFontSize
	AttrFontWeight

	AttrTableRowCount
	AttrTableColumnCount
	AttrTableRowIndex
	AttrTableColumnIndex
	AttrTableCellRowIndex
	AttrTableCellColumnIndex
	AttrTableCellRowSpan
	AttrTableCellColumnSpan
	AttrHierarchicalLevel
	AttrSetSize
	AttrPosInSet
	AttrColorValue
	AttrBackgroundColor
	AttrForegroundColor

	AttrCheckedState
	AttrTextDirection
	AttrSortDirection
	AttrHasPopup
	AttrAriaCurrent
	AttrDefaultActionVerb
	AttrNameFrom
	AttrListStyle
	AttrTextAlign

	AttrCharacterOffsets
	AttrMarkers
	AttrTextSelection
	AttrCustomActions
	AttrTextStyle
)

// ValueType is the Go representation required by an attribute kind.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeBool
	TypeFloat
	TypeUint
	TypeNodeRef
	TypeNodeRefs
	TypeFloats
	TypeMarkers
	TypeTextRange
	TypeToken
	TypeCustomActions
	TypeTextStyle
)

type kindInfo struct {
	name   string
	typ    ValueType
	tokens []string // allowed values for TypeToken kinds
}

var kindTable = []kindInfo{
	AttrName:                    {name: "name", typ: TypeString},
	AttrDescription:             {name: "description", typ: TypeString},
	AttrValue:                   {name: "value", typ: TypeString},
	AttrAccessKey:               {name: "access_key", typ: TypeString},
	AttrAutoComplete:            {name: "auto_complete", typ: TypeString},
	AttrCheckedStateDescription: {name: "checked_state_description", typ: TypeString},
	AttrClassName:               {name: "class_name", typ: TypeString},
	AttrFontFamily:              {name: "font_family", typ: TypeString},
	AttrHTMLTag:                 {name: "html_tag", typ: TypeString},
	AttrInputType:               {name: "input_type", typ: TypeString},
	AttrKeyShortcuts:            {name: "key_shortcuts", typ: TypeString},
	AttrLanguage:                {name: "language", typ: TypeString},
	AttrLiveRelevant:            {name: "live_relevant", typ: TypeString},
	AttrLiveStatus:              {name: "live_status", typ: TypeString},
	AttrPlaceholder:             {name: "placeholder", typ: TypeString},
	AttrRoleDescription:         {name: "role_description", typ: TypeString},
	AttrTooltip:                 {name: "tooltip", typ: TypeString},
	AttrURL:                     {name: "url", typ: TypeString},
	AttrCustomRole:              {name: "custom_role", typ: TypeString},
	AttrInvalidState:            {name: "invalid_state", typ: TypeString},

	AttrBusy:       {name: "busy", typ: TypeBool},
	AttrModal:      {name: "modal", typ: TypeBool},
	AttrScrollable: {name: "scrollable", typ: TypeBool},
	AttrClickable:  {name: "clickable", typ: TypeBool},
	AttrSelected:   {name: "selected", typ: TypeBool},
	AttrLiveAtomic: {name: "live_atomic", typ: TypeBool},
	AttrGrabbed:    {name: "grabbed", typ: TypeBool},

	AttrActiveDescendant: {name: "active_descendant", typ: TypeNodeRef},
	AttrErrorMessage:     {name: "error_message", typ: TypeNodeRef},
	AttrInPageLinkTarget: {name: "in_page_link_target", typ: TypeNodeRef},
	AttrMemberOf:         {name: "member_of", typ: TypeNodeRef},
	AttrNextOnLine:       {name: "next_on_line", typ: TypeNodeRef},
	AttrPreviousOnLine:   {name: "previous_on_line", typ: TypeNodeRef},
	AttrPopupFor:         {name: "popup_for", typ: TypeNodeRef},
	AttrTableHeader:      {name: "table_header", typ: TypeNodeRef},
	AttrPreviousFocus:    {name: "previous_focus", typ: TypeNodeRef},
	AttrNextFocus:        {name: "next_focus", typ: TypeNodeRef},

	AttrIndirectChildren: {name: "indirect_children", typ: TypeNodeRefs},
	AttrControls:         {name: "controls", typ: TypeNodeRefs},
	AttrDetails:          {name: "details", typ: TypeNodeRefs},
	AttrDescribedBy:      {name: "described_by", typ: TypeNodeRefs},
	AttrFlowTo:           {name: "flow_to", typ: TypeNodeRefs},
	AttrLabelledBy:       {name: "labelled_by", typ: TypeNodeRefs},
	AttrRadioGroup:       {name: "radio_group", typ: TypeNodeRefs},

	AttrScrollX:           {name: "scroll_x", typ: TypeFloat},
	AttrScrollXMin:        {name: "scroll_x_min", typ: TypeFloat},
	AttrScrollXMax:        {name: "scroll_x_max", typ: TypeFloat},
	AttrScrollY:           {name: "scroll_y", typ: TypeFloat},
	AttrScrollYMin:        {name: "scroll_y_min", typ: TypeFloat},
	AttrScrollYMax:        {name: "scroll_y_max", typ: TypeFloat},
	AttrValueForRange:     {name: "value_for_range", typ: TypeFloat},
	AttrMinValueForRange:  {name: "min_value_for_range", typ: TypeFloat},
	AttrMaxValueForRange:  {name: "max_value_for_range", typ: TypeFloat},
	AttrStepValueForRange: {name: "step_value_for_range", typ: TypeFloat},
	AttrFontSize:          {name: "font_size", typ: TypeFloat},
	AttrFontWeight:        {name: "font_weight", typ: TypeFloat},

	AttrTableRowCount:        {name: "table_row_count", typ: TypeUint},
	AttrTableColumnCount:     {name: "table_column_count", typ: TypeUint},
	AttrTableRowIndex:        {name: "table_row_index", typ: TypeUint},
	AttrTableColumnIndex:     {name: "table_column_index", typ: TypeUint},
	AttrTableCellRowIndex:    {name: "table_cell_row_index", typ: TypeUint},
	AttrTableCellColumnIndex: {name: "table_cell_column_index", typ: TypeUint},
	AttrTableCellRowSpan:     {name: "table_cell_row_span", typ: TypeUint},
	AttrTableCellColumnSpan:  {name: "table_cell_column_span", typ: TypeUint},
	AttrHierarchicalLevel:    {name: "hierarchical_level", typ: TypeUint},
	AttrSetSize:              {name: "set_size", typ: TypeUint},
	AttrPosInSet:             {name: "pos_in_set", typ: TypeUint},
	AttrColorValue:           {name: "color_value", typ: TypeUint},
	AttrBackgroundColor:      {name: "background_color", typ: TypeUint},
	AttrForegroundColor:      {name: "foreground_color", typ: TypeUint},

	AttrCheckedState:      {name: "checked_state", typ: TypeToken, tokens: []string{"false", "true", "mixed"}},
	AttrTextDirection:     {name: "text_direction", typ: TypeToken, tokens: []string{"left_to_right", "right_to_left", "top_to_bottom", "bottom_to_top"}},
	AttrSortDirection:     {name: "sort_direction", typ: TypeToken, tokens: []string{"unsorted", "ascending", "descending", "other"}},
	AttrHasPopup:          {name: "has_popup", typ: TypeToken, tokens: []string{"true", "menu", "listbox", "tree", "grid", "dialog"}},
	AttrAriaCurrent:       {name: "aria_current", typ: TypeToken, tokens: []string{"false", "true", "page", "step", "location", "date", "time"}},
	AttrDefaultActionVerb: {name: "default_action_verb", typ: TypeToken, tokens: []string{"activate", "check", "uncheck", "click", "click_ancestor", "jump", "open", "press", "select"}},
	AttrNameFrom:          {name: "name_from", typ: TypeToken, tokens: []string{"attribute", "attribute_explicitly_empty", "caption", "contents", "placeholder", "related_element", "title", "value"}},
	AttrListStyle:         {name: "list_style", typ: TypeToken, tokens: []string{"circle", "disc", "image", "numeric", "square", "other"}},
	AttrTextAlign:         {name: "text_align", typ: TypeToken, tokens: []string{"left", "right", "center", "justify"}},

	AttrCharacterOffsets: {name: "character_offsets", typ: TypeFloats},
	AttrMarkers:          {name: "markers", typ: TypeMarkers},
	AttrTextSelection:    {name: "text_selection", typ: TypeTextRange},
	AttrCustomActions:    {name: "custom_actions", typ: TypeCustomActions},
	AttrTextStyle:        {name: "text_style", typ: TypeTextStyle},
}

var kindByName = func() map[string]AttrKind {
	m := make(map[string]AttrKind, len(kindTable))
	for i, info := range kindTable {
		m[info.name] = AttrKind(i)
	}
	return m
}()

func (k AttrKind) info() (kindInfo, bool) {
	if int(k) >= len(kindTable) {
		return kindInfo{}, false
	}
	return kindTable[k], true
}

// Type returns the value type the kind requires.
func (k AttrKind) Type() ValueType {
	info, _ := k.info()
	return info.typ
}

// Tokens returns the allowed values of a TypeToken kind, or nil.
func (k AttrKind) Tokens() []string {
	info, _ := k.info()
	return info.tokens
}

func (k AttrKind) String() string {
	info, ok := k.info()
	if !ok {
		return fmt.Sprintf("AttrKind(%d)", uint16(k))
	}
	return info.name
}

// MarshalText implements encoding.TextMarshaler.
func (k AttrKind) MarshalText() ([]byte, error) {
	info, ok := k.info()
	if !ok {
		return nil, fmt.Errorf("invalid attribute kind %d", uint16(k))
	}
	return []byte(info.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AttrKind) UnmarshalText(text []byte) error {
	kind, ok := kindByName[string(text)]
	if !ok {
		return fmt.Errorf("unknown attribute kind %q", string(text))
	}
	*k = kind
	return nil
}

// Value is a sealed interface over the attribute value types.
// Only the types declared in this file implement it.
type Value interface {
	Type() ValueType
	equal(Value) bool
}

// String is a text attribute value.
type String string

// Bool is a boolean attribute value.
type Bool bool

// Float is a numeric attribute value.
type Float float64

// Uint is a count or index attribute value.
type Uint uint64

// NodeRef is a relationship to one other node.
type NodeRef NodeID

// NodeRefs is an ordered relationship to several other nodes.
type NodeRefs []NodeID

// Floats is a list of pixel offsets, used for character offsets.
type Floats []float32

// Token is one value of a closed enumeration, checked against AttrKind.Tokens.
type Token string

// TextMarker marks a span of text; indices are UTF-8 code units.
type TextMarker struct {
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Markers is a list of text markers, e.g. spelling errors.
type Markers []TextMarker

// TextRange is a span of text in UTF-8 code units.
type TextRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CustomAction is an application-defined action offered to the user.
type CustomAction struct {
	ID          int32  `json:"id"`
	Description string `json:"description"`
}

// CustomActions lists the custom actions of a node.
type CustomActions []CustomAction

// TextStyle carries inline text styling. Decorations are "solid", "dotted",
// "dashed", "double", "wavy" or empty.
type TextStyle struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Overline      string `json:"overline,omitempty"`
	Strikethrough string `json:"strikethrough,omitempty"`
	Underline     string `json:"underline,omitempty"`
}

func (String) Type() ValueType        { return TypeString }
func (Bool) Type() ValueType          { return TypeBool }
func (Float) Type() ValueType         { return TypeFloat }
func (Uint) Type() ValueType          { return TypeUint }
func (NodeRef) Type() ValueType       { return TypeNodeRef }
func (NodeRefs) Type() ValueType      { return TypeNodeRefs }
func (Floats) Type() ValueType        { return TypeFloats }
func (Markers) Type() ValueType       { return TypeMarkers }
func (TextRange) Type() ValueType     { return TypeTextRange }
func (Token) Type() ValueType         { return TypeToken }
func (CustomActions) Type() ValueType { return TypeCustomActions }
func (TextStyle) Type() ValueType     { return TypeTextStyle }

func (v String) equal(o Value) bool {
	w, ok := o.(String)
	return ok && v == w
}

func (v Bool) equal(o Value) bool {
	w, ok := o.(Bool)
	return ok && v == w
}

func (v Float) equal(o Value) bool {
	w, ok := o.(Float)
	return ok && sameFloat64(float64(v), float64(w))
}

func (v Uint) equal(o Value) bool {
	w, ok := o.(Uint)
	return ok && v == w
}

func (v NodeRef) equal(o Value) bool {
	w, ok := o.(NodeRef)
	return ok && v == w
}

func (v NodeRefs) equal(o Value) bool {
	w, ok := o.(NodeRefs)
	return ok && slices.Equal(v, w)
}

func (v Floats) equal(o Value) bool {
	w, ok := o.(Floats)
	return ok && slices.EqualFunc(v, w, sameFloat32)
}

func (v Markers) equal(o Value) bool {
	w, ok := o.(Markers)
	return ok && slices.Equal(v, w)
}

func (v TextRange) equal(o Value) bool {
	w, ok := o.(TextRange)
	return ok && v == w
}

func (v Token) equal(o Value) bool {
	w, ok := o.(Token)
	return ok && v == w
}

func (v CustomActions) equal(o Value) bool {
	w, ok := o.(CustomActions)
	return ok && slices.Equal(v, w)
}

func (v TextStyle) equal(o Value) bool {
	w, ok := o.(TextStyle)
	return ok && v == w
}

// ValuesEqual reports whether two attribute values are identical.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Type() == b.Type() && a.equal(b)
}

// Attributes is the unordered set of typed attributes of a node.
// Map keys make "at most once per kind" structural.
type Attributes map[AttrKind]Value

// Kinds returns the present kinds in catalog order.
func (a Attributes) Kinds() []AttrKind {
	kinds := make([]AttrKind, 0, len(a))
	for k := range a {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Get returns the value for kind, if present.
func (a Attributes) Get(kind AttrKind) (Value, bool) {
	v, ok := a[kind]
	return v, ok
}

// Text returns a text attribute, or "" and false.
func (a Attributes) Text(kind AttrKind) (string, bool) {
	v, ok := a[kind].(String)
	return string(v), ok
}

// Bool returns a boolean attribute, or false and false.
func (a Attributes) Bool(kind AttrKind) (bool, bool) {
	v, ok := a[kind].(Bool)
	return bool(v), ok
}

// Token returns an enumerated attribute, or "" and false.
func (a Attributes) Token(kind AttrKind) (string, bool) {
	v, ok := a[kind].(Token)
	return string(v), ok
}

// Equal reports whether both sets hold the same kinds with equal values.
// A nil set equals an empty one.
func (a Attributes) Equal(o Attributes) bool {
	if len(a) != len(o) {
		return false
	}
	for k, v := range a {
		w, ok := o[k]
		if !ok || !ValuesEqual(v, w) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of the set.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Validate checks every value against the type table.
func (a Attributes) Validate() error {
	for _, k := range a.Kinds() {
		if err := checkValue(k, a[k]); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(k AttrKind, v Value) error {
	info, ok := k.info()
	if !ok {
		return fmt.Errorf("invalid attribute kind %d", uint16(k))
	}
	if v == nil {
		return fmt.Errorf("attribute %s: nil value", info.name)
	}
	if v.Type() != info.typ {
		return fmt.Errorf("attribute %s: got value type %d, want %d", info.name, v.Type(), info.typ)
	}
	switch v := v.(type) {
	case Token:
		if !slices.Contains(info.tokens, string(v)) {
			return fmt.Errorf("attribute %s: %q is not one of %v", info.name, string(v), info.tokens)
		}
	case Float:
		if !finite(float64(v)) {
			return fmt.Errorf("attribute %s: non-finite value %v", info.name, float64(v))
		}
	case Floats:
		for i, f := range v {
			if !finite(float64(f)) {
				return fmt.Errorf("attribute %s: non-finite value %v at %d", info.name, f, i)
			}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON encodes the set as an object keyed by kind name.
func (a Attributes) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(a))
	for k, v := range a {
		out[kindTable[k].name] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an object keyed by kind name, typing each value
// from the kind table.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	out := make(Attributes, len(raw))
	for name, msg := range raw {
		kind, ok := kindByName[name]
		if !ok {
			return fmt.Errorf("attributes: unknown kind %q", name)
		}
		v, err := decodeValue(kind, msg)
		if err != nil {
			return fmt.Errorf("attributes: %s: %w", name, err)
		}
		out[kind] = v
	}
	*a = out
	return nil
}

func decodeValue(kind AttrKind, msg json.RawMessage) (Value, error) {
	var v Value
	var err error
	switch kind.Type() {
	case TypeString:
		v, err = decodeAs[String](msg)
	case TypeBool:
		v, err = decodeAs[Bool](msg)
	case TypeFloat:
		v, err = decodeAs[Float](msg)
	case TypeUint:
		v, err = decodeAs[Uint](msg)
	case TypeNodeRef:
		v, err = decodeAs[NodeRef](msg)
	case TypeNodeRefs:
		v, err = decodeAs[NodeRefs](msg)
	case TypeFloats:
		v, err = decodeAs[Floats](msg)
	case TypeMarkers:
		v, err = decodeAs[Markers](msg)
	case TypeTextRange:
		v, err = decodeAs[TextRange](msg)
	case TypeToken:
		v, err = decodeAs[Token](msg)
	case TypeCustomActions:
		v, err = decodeAs[CustomActions](msg)
	case TypeTextStyle:
		v, err = decodeAs[TextStyle](msg)
	default:
		return nil, fmt.Errorf("unsupported value type %d", kind.Type())
	}
	if err != nil {
		return nil, err
	}
	if err := checkValue(kind, v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeAs[T Value](msg json.RawMessage) (Value, error) {
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, err
	}
	return v, nil
}
