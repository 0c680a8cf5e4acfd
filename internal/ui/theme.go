package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme is a complete color palette for the widget.
type Theme struct {
	Name string

	// Primary is the accent used for focus, the launcher and the header.
	Primary string
	// Secondary marks assistant turns and informational text.
	Secondary string

	Bg         string
	BgSelected string // defaults to Primary

	Text        string
	TextMuted   string
	TextInverse string

	User      string
	Assistant string
	Warning   string
	Error     string

	Border      string
	BorderFocus string // defaults to Primary

	MarkdownHeading  string
	MarkdownCode     string
	MarkdownCodeBg   string
	MarkdownLink     string
	MarkdownListItem string

	// CodeStyle names the chroma style used for fenced code blocks.
	CodeStyle string
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName identifies a built-in theme.
type ThemeName string

const (
	ThemeToga    ThemeName = "toga"
	ThemeNord    ThemeName = "nord"
	ThemeGruvbox ThemeName = "gruvbox"
	ThemeLight   ThemeName = "light"
)

// DefaultTheme is used when the configured theme is empty or unknown.
const DefaultTheme = ThemeToga

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeToga: {
		Name:             "Toga",
		Primary:          "#1D4ED8",
		Secondary:        "#D4A017",
		Bg:               "#111827",
		Text:             "#F9FAFB",
		TextMuted:        "#9CA3AF",
		TextInverse:      "#F9FAFB",
		User:             "#93C5FD",
		Assistant:        "#FCD34D",
		Warning:          "#F59E0B",
		Error:            "#EF4444",
		Border:           "#374151",
		MarkdownHeading:  "#93C5FD",
		MarkdownCode:     "#FDE68A",
		MarkdownCodeBg:   "#1F2937",
		MarkdownLink:     "#60A5FA",
		MarkdownListItem: "#D4A017",
		CodeStyle:        "monokai",
	},
	ThemeNord: {
		Name:             "Nord",
		Primary:          "#88C0D0",
		Secondary:        "#81A1C1",
		Bg:               "#2E3440",
		Text:             "#ECEFF4",
		TextMuted:        "#D8DEE9",
		TextInverse:      "#2E3440",
		User:             "#A3BE8C",
		Assistant:        "#88C0D0",
		Warning:          "#EBCB8B",
		Error:            "#BF616A",
		Border:           "#4C566A",
		MarkdownHeading:  "#88C0D0",
		MarkdownCode:     "#A3BE8C",
		MarkdownCodeBg:   "#242933",
		MarkdownLink:     "#88C0D0",
		MarkdownListItem: "#81A1C1",
		CodeStyle:        "nord",
	},
	ThemeGruvbox: {
		Name:             "Gruvbox",
		Primary:          "#D79921",
		Secondary:        "#689D6A",
		Bg:               "#282828",
		Text:             "#EBDBB2",
		TextMuted:        "#A89984",
		TextInverse:      "#282828",
		User:             "#B8BB26",
		Assistant:        "#83A598",
		Warning:          "#FABD2F",
		Error:            "#FB4934",
		Border:           "#504945",
		MarkdownHeading:  "#FABD2F",
		MarkdownCode:     "#8EC07C",
		MarkdownCodeBg:   "#1D2021",
		MarkdownLink:     "#83A598",
		MarkdownListItem: "#D79921",
		CodeStyle:        "gruvbox",
	},
	ThemeLight: {
		Name:             "Light",
		Primary:          "#1D4ED8",
		Secondary:        "#0E7490",
		Bg:               "#FFFFFF",
		BgSelected:       "#DBEAFE",
		Text:             "#111827",
		TextMuted:        "#6B7280",
		TextInverse:      "#FFFFFF",
		User:             "#1D4ED8",
		Assistant:        "#0E7490",
		Warning:          "#B45309",
		Error:            "#DC2626",
		Border:           "#D1D5DB",
		MarkdownHeading:  "#1E40AF",
		MarkdownCode:     "#9D174D",
		MarkdownCodeBg:   "#F3F4F6",
		MarkdownLink:     "#0891B2",
		MarkdownListItem: "#1D4ED8",
		CodeStyle:        "github",
	},
}

// ThemeNames returns the built-in theme names in display order.
func ThemeNames() []ThemeName {
	return []ThemeName{ThemeToga, ThemeNord, ThemeGruvbox, ThemeLight}
}

// GetTheme looks name up among the built-in palettes. Unknown names get
// DefaultTheme.
func GetTheme(name ThemeName) Theme {
	if t, found := BuiltinThemes[name]; found {
		return t
	}
	return BuiltinThemes[DefaultTheme]
}

var (
	activeName  = DefaultTheme
	activeTheme = BuiltinThemes[DefaultTheme]
)

// CurrentTheme is the palette the package styles were last built from.
func CurrentTheme() Theme { return activeTheme }

// CurrentThemeName reports the built-in name of CurrentTheme.
func CurrentThemeName() ThemeName { return activeName }

// SetTheme switches palette and rebuilds the styles of this package and of
// the modals package.
func SetTheme(name ThemeName) {
	if _, found := BuiltinThemes[name]; !found {
		name = DefaultTheme
	}
	activeName = name
	activeTheme = BuiltinThemes[name]
	applyPalette(activeTheme)
	RefreshModalStyles()
}

// SetThemeByName is SetTheme for config values.
func SetThemeByName(name string) { SetTheme(ThemeName(name)) }

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func hex(s string) color.Color { return lipgloss.Color(s) }

func rounded(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// applyPalette fills the Color* and *Style package variables from t.
func applyPalette(t Theme) {
	ColorPrimary, ColorSecondary = hex(t.Primary), hex(t.Secondary)
	ColorBorder, ColorBorderFocus = hex(t.Border), hex(t.GetBorderFocus())
	ColorBg = hex(t.Bg)
	ColorText, ColorTextMuted, ColorTextInverse = hex(t.Text), hex(t.TextMuted), hex(t.TextInverse)
	ColorUser, ColorAssistant = hex(t.User), hex(t.Assistant)
	ColorWarning, ColorError = hex(t.Warning), hex(t.Error)

	// Bars along the panel edges and the launcher badge.
	HeaderStyle = fg(ColorTextInverse).Background(ColorPrimary).Bold(true).Padding(0, 1)
	FooterStyle = fg(ColorTextMuted).Padding(0, 1)
	FooterKeyStyle = fg(ColorSecondary).Bold(true)
	FooterDescStyle = fg(ColorTextMuted)
	LauncherStyle = fg(ColorTextInverse).Background(ColorPrimary).Bold(true).Padding(0, 2)
	LauncherBadgeStyle = fg(ColorTextInverse).Background(ColorError).Bold(true).Padding(0, 1)

	PanelStyle = rounded(ColorBorder)
	PanelFocusedStyle = rounded(ColorBorderFocus)
	PanelTitleStyle = fg(ColorPrimary).Bold(true).Padding(0, 1)

	row := lipgloss.NewStyle().Padding(0, 1)
	SidebarItemStyle = row
	SidebarSelectedStyle = row.Foreground(ColorTextInverse).Background(hex(t.GetBgSelected())).Bold(true)
	SidebarActiveStyle = row.Foreground(ColorSecondary).Bold(true)
	SidebarNewChatStyle = row.Foreground(ColorPrimary).Bold(true)
	SidebarMutedStyle = row.Foreground(ColorTextMuted).Italic(true)

	ChatUserStyle = fg(ColorUser).Bold(true)
	ChatAssistantStyle = fg(ColorAssistant).Bold(true)
	ChatMessageStyle = fg(ColorText)
	ChatInputStyle = rounded(ColorBorder).Padding(0, 1)
	ChatInputFocusedStyle = rounded(ColorBorderFocus).Padding(0, 1)
	WelcomeTitleStyle = fg(ColorPrimary).Bold(true)
	WelcomeTextStyle = fg(ColorTextMuted)

	ModalStyle = rounded(ColorPrimary).Padding(1, 2).Width(ModalWidth)
	ModalTitleStyle = fg(ColorPrimary).Bold(true).MarginBottom(1)
	ModalHelpStyle = fg(ColorTextMuted).Italic(true).MarginTop(1)

	StatusLoadingStyle = fg(ColorSecondary).Italic(true)
	StatusErrorStyle = fg(ColorError).Bold(true)
	StatusInfoStyle = fg(ColorSecondary)

	codeBg := hex(t.MarkdownCodeBg)
	MarkdownHeadingStyle = fg(hex(t.MarkdownHeading)).Bold(true)
	MarkdownBoldStyle = fg(ColorText).Bold(true)
	MarkdownItalicStyle = fg(ColorText).Italic(true)
	MarkdownInlineCodeStyle = fg(hex(t.MarkdownCode)).Background(codeBg)
	MarkdownCodeBlockStyle = lipgloss.NewStyle().Background(codeBg)
	MarkdownListBulletStyle = fg(hex(t.MarkdownListItem))
	MarkdownBlockquoteStyle = fg(ColorTextMuted).Italic(true).
		BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).BorderForeground(ColorBorder).PaddingLeft(1)
	MarkdownHRStyle = fg(ColorBorder)
	MarkdownLinkStyle = fg(hex(t.MarkdownLink)).Underline(true)
}
