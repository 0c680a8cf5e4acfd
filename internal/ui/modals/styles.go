package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Style variables, set by the parent ui package through SetStyles.
var (
	ModalTitleStyle      lipgloss.Style
	ModalHelpStyle       lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	StatusErrorStyle     lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color
	ColorError       color.Color

	ModalWidth          int
	ModalInputWidth     int
	HelpModalMaxVisible = 14
)

// Palette carries the styles the dialogs borrow from the ui package.
type Palette struct {
	Title, Help, Item, Selected, Error lipgloss.Style

	Primary, Secondary, Text, TextMuted, TextInverse, Warning, Danger color.Color

	ModalWidth, InputWidth int
}

// SetStyles installs p. It must run before any dialog renders and again
// after every theme change.
func SetStyles(p Palette) {
	ModalTitleStyle = p.Title
	ModalHelpStyle = p.Help
	SidebarItemStyle = p.Item
	SidebarSelectedStyle = p.Selected
	StatusErrorStyle = p.Error

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorText = p.Text
	ColorTextMuted = p.TextMuted
	ColorTextInverse = p.TextInverse
	ColorWarning = p.Warning
	ColorError = p.Danger

	ModalWidth = p.ModalWidth
	ModalInputWidth = p.InputWidth
}
