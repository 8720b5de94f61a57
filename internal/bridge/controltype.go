package bridge

import (
	"fmt"

	"github.com/roach88/axtree/internal/schema"
)

// ControlType is a UI Automation control type identifier.
type ControlType int32

const (
	ControlButton      ControlType = 50000
	ControlCheckBox    ControlType = 50002
	ControlComboBox    ControlType = 50003
	ControlEdit        ControlType = 50004
	ControlHyperlink   ControlType = 50005
	ControlImage       ControlType = 50006
	ControlListItem    ControlType = 50007
	ControlList        ControlType = 50008
	ControlMenu        ControlType = 50009
	ControlMenuBar     ControlType = 50010
	ControlMenuItem    ControlType = 50011
	ControlProgressBar ControlType = 50012
	ControlRadioButton ControlType = 50013
	ControlScrollBar   ControlType = 50014
	ControlSlider      ControlType = 50015
	ControlSpinner     ControlType = 50016
	ControlStatusBar   ControlType = 50017
	ControlTab         ControlType = 50018
	ControlTabItem     ControlType = 50019
	ControlText        ControlType = 50020
	ControlToolBar     ControlType = 50021
	ControlToolTip     ControlType = 50022
	ControlTree        ControlType = 50023
	ControlTreeItem    ControlType = 50024
	ControlCustom      ControlType = 50025
	ControlGroup       ControlType = 50026
	ControlDataGrid    ControlType = 50028
	ControlDataItem    ControlType = 50029
	ControlDocument    ControlType = 50030
	ControlWindow      ControlType = 50032
	ControlPane        ControlType = 50033
	ControlHeaderItem  ControlType = 50035
	ControlTable       ControlType = 50036
	ControlTitleBar    ControlType = 50037
	ControlSeparator   ControlType = 50038
)

var controlTypeNames = map[ControlType]string{
	ControlButton:      "button",
	ControlCheckBox:    "check box",
	ControlComboBox:    "combo box",
	ControlEdit:        "edit",
	ControlHyperlink:   "link",
	ControlImage:       "image",
	ControlListItem:    "list item",
	ControlList:        "list",
	ControlMenu:        "menu",
	ControlMenuBar:     "menu bar",
	ControlMenuItem:    "menu item",
	ControlProgressBar: "progress bar",
	ControlRadioButton: "radio button",
	ControlScrollBar:   "scroll bar",
	ControlSlider:      "slider",
	ControlSpinner:     "spinner",
	ControlStatusBar:   "status bar",
	ControlTab:         "tab",
	ControlTabItem:     "tab item",
	ControlText:        "text",
	ControlToolBar:     "tool bar",
	ControlToolTip:     "tool tip",
	ControlTree:        "tree",
	ControlTreeItem:    "tree item",
	ControlCustom:      "custom",
	ControlGroup:       "group",
	ControlDataGrid:    "data grid",
	ControlDataItem:    "data item",
	ControlDocument:    "document",
	ControlWindow:      "window",
	ControlPane:        "pane",
	ControlHeaderItem:  "header item",
	ControlTable:       "table",
	ControlTitleBar:    "title bar",
	ControlSeparator:   "separator",
}

// String returns the default localized control type name.
func (c ControlType) String() string {
	if s, ok := controlTypeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("control_type(%d)", int32(c))
}

var roleControlTypes = map[schema.Role]ControlType{
	schema.RoleUnknown: ControlCustom,

	schema.RoleButton:       ControlButton,
	schema.RoleToggleButton: ControlButton,
	schema.RolePopupButton:  ControlButton,
	schema.RoleCheckBox:     ControlCheckBox,
	schema.RoleSwitch:       ControlCheckBox,
	schema.RoleRadioButton:  ControlRadioButton,
	schema.RoleComboBox:     ControlComboBox,
	schema.RoleTextField:    ControlEdit,
	schema.RoleSearchBox:    ControlEdit,
	schema.RoleLink:         ControlHyperlink,
	schema.RoleImage:        ControlImage,
	schema.RoleCanvas:       ControlImage,
	schema.RoleSlider:       ControlSlider,
	schema.RoleSpinButton:   ControlSpinner,
	schema.RoleScrollBar:    ControlScrollBar,

	schema.RoleProgressIndicator: ControlProgressBar,
	schema.RoleMeter:             ControlProgressBar,

	schema.RoleList:           ControlList,
	schema.RoleListBox:        ControlList,
	schema.RoleListItem:       ControlListItem,
	schema.RoleListBoxOption:  ControlListItem,
	schema.RoleMenuListOption: ControlListItem,
	schema.RoleMenu:           ControlMenu,
	schema.RoleMenuBar:        ControlMenuBar,
	schema.RoleMenuItem:       ControlMenuItem,
	schema.RoleTabList:        ControlTab,
	schema.RoleTab:            ControlTabItem,
	schema.RoleTabPanel:       ControlPane,
	schema.RoleToolbar:        ControlToolBar,
	schema.RoleTooltip:        ControlToolTip,
	schema.RoleStatus:         ControlStatusBar,
	schema.RoleTree:           ControlTree,
	schema.RoleTreeItem:       ControlTreeItem,

	schema.RoleStaticText:    ControlText,
	schema.RoleLabelText:     ControlText,
	schema.RoleInlineTextBox: ControlText,
	schema.RoleHeading:       ControlText,
	schema.RoleCaption:       ControlText,
	schema.RoleTimer:         ControlText,

	schema.RoleTable:        ControlTable,
	schema.RoleGrid:         ControlDataGrid,
	schema.RoleTreeGrid:     ControlDataGrid,
	schema.RoleRow:          ControlDataItem,
	schema.RoleCell:         ControlDataItem,
	schema.RoleColumnHeader: ControlHeaderItem,
	schema.RoleRowHeader:    ControlHeaderItem,

	schema.RoleDocument:    ControlDocument,
	schema.RoleArticle:     ControlDocument,
	schema.RoleWindow:      ControlWindow,
	schema.RoleDialog:      ControlWindow,
	schema.RoleAlertDialog: ControlWindow,
	schema.RolePane:        ControlPane,
	schema.RoleScrollView:  ControlPane,
	schema.RoleIframe:      ControlPane,
	schema.RoleTitleBar:    ControlTitleBar,
	schema.RoleSplitter:    ControlSeparator,
}

// ControlTypeOf maps a role to its control type. Container and landmark
// roles without a closer match are groups.
func ControlTypeOf(role schema.Role) ControlType {
	if c, ok := roleControlTypes[role]; ok {
		return c
	}
	return ControlGroup
}
