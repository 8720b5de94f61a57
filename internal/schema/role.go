package schema

// Role is the type of an accessibility node.
//
// The catalog follows ARIA and is ordered roughly by expected usage
// frequency. It is a subset: unknown producers' roles map to RoleUnknown.
type Role uint16

const (
	RoleUnknown Role = iota
	RoleInlineTextBox
	RoleCell
	RoleStaticText
	RoleImage
	RoleLink
	RoleRow
	RoleListItem
	RoleListMarker
	RoleTreeItem
	RoleListBoxOption
	RoleMenuItem
	RoleMenuListOption
	RoleParagraph
	RoleGroup
	RolePresentation
	RoleCheckBox
	RoleRadioButton
	RoleTextField
	RoleButton
	RoleLabelText
	RolePane
	RoleRowHeader
	RoleColumnHeader
	RoleColumn
	RoleRowGroup
	RoleList
	RoleTable
	RoleSwitch
	RoleToggleButton
	RoleMenu
	RoleAlert
	RoleAlertDialog
	RoleApplication
	RoleArticle
	RoleBanner
	RoleCanvas
	RoleCaption
	RoleComboBox
	RoleDialog
	RoleDocument
	RoleForm
	RoleGenericContainer
	RoleGrid
	RoleHeading
	RoleIframe
	RoleListBox
	RoleLog
	RoleMain
	RoleMenuBar
	RoleMeter
	RoleNavigation
	RolePopupButton
	RoleProgressIndicator
	RoleRadioGroup
	RoleRegion
	RoleScrollBar
	RoleScrollView
	RoleSearch
	RoleSearchBox
	RoleSlider
	RoleSpinButton
	RoleSplitter
	RoleStatus
	RoleTab
	RoleTabList
	RoleTabPanel
	RoleTimer
	RoleTitleBar
	RoleToolbar
	RoleTooltip
	RoleTree
	RoleTreeGrid
	RoleWindow
)

var roleNames = []string{
	"unknown", "inline_text_box", "cell", "static_text", "image", "link", "row",
	"list_item", "list_marker", "tree_item", "list_box_option", "menu_item",
	"menu_list_option", "paragraph", "group", "presentation", "check_box",
	"radio_button", "text_field", "button", "label_text", "pane", "row_header",
	"column_header", "column", "row_group", "list", "table", "switch",
	"toggle_button", "menu", "alert", "alert_dialog", "application", "article",
	"banner", "canvas", "caption", "combo_box", "dialog", "document", "form",
	"generic_container", "grid", "heading", "iframe", "list_box", "log", "main",
	"menu_bar", "meter", "navigation", "popup_button", "progress_indicator",
	"radio_group", "region", "scroll_bar", "scroll_view", "search", "search_box",
	"slider", "spin_button", "splitter", "status", "tab", "tab_list", "tab_panel",
	"timer", "title_bar", "toolbar", "tooltip", "tree", "tree_grid", "window",
}

func (r Role) String() string { return enumString(roleNames, int(r), "Role") }

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return enumText(roleNames, int(r), "role") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	i, err := enumParse(roleNames, text, "role")
	if err != nil {
		return err
	}
	*r = Role(i)
	return nil
}
