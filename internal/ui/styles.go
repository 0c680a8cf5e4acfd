package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatmodal/internal/ui/modals"
)

// Colors of the active theme, set by applyPalette.
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorBorder      color.Color
	ColorBorderFocus color.Color
	ColorBg          color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorUser        color.Color
	ColorAssistant   color.Color
	ColorWarning     color.Color
	ColorError       color.Color
)

// Header and footer
var (
	HeaderStyle     lipgloss.Style
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Launcher
var (
	LauncherStyle      lipgloss.Style
	LauncherBadgeStyle lipgloss.Style
)

// Panels and sidebar
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style

	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	SidebarActiveStyle   lipgloss.Style
	SidebarNewChatStyle  lipgloss.Style
	SidebarMutedStyle    lipgloss.Style
)

// Chat
var (
	ChatUserStyle         lipgloss.Style
	ChatAssistantStyle    lipgloss.Style
	ChatMessageStyle      lipgloss.Style
	ChatInputStyle        lipgloss.Style
	ChatInputFocusedStyle lipgloss.Style
	WelcomeTitleStyle     lipgloss.Style
	WelcomeTextStyle      lipgloss.Style
)

// Modal and status
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	StatusLoadingStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	StatusInfoStyle    lipgloss.Style
)

// Markdown rendering
var (
	MarkdownHeadingStyle    lipgloss.Style
	MarkdownBoldStyle       lipgloss.Style
	MarkdownItalicStyle     lipgloss.Style
	MarkdownInlineCodeStyle lipgloss.Style
	MarkdownCodeBlockStyle  lipgloss.Style
	MarkdownListBulletStyle lipgloss.Style
	MarkdownBlockquoteStyle lipgloss.Style
	MarkdownHRStyle         lipgloss.Style
	MarkdownLinkStyle       lipgloss.Style
)

func init() {
	applyPalette(activeTheme)
	RefreshModalStyles()
}

// RefreshModalStyles hands the current palette to the modals package.
func RefreshModalStyles() {
	modals.SetStyles(modals.Palette{
		Title:       ModalTitleStyle,
		Help:        ModalHelpStyle,
		Item:        SidebarItemStyle,
		Selected:    SidebarSelectedStyle,
		Error:       StatusErrorStyle,
		Primary:     ColorPrimary,
		Secondary:   ColorSecondary,
		Text:        ColorText,
		TextMuted:   ColorTextMuted,
		TextInverse: ColorTextInverse,
		Warning:     ColorWarning,
		Danger:      ColorError,
		ModalWidth:  ModalWidth,
		InputWidth:  ModalInputWidth,
	})
}
