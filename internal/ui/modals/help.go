package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// helpKeyColumn is the width of the key column in the shortcut list.
const helpKeyColumn = 14

type shortcutItem struct {
	shortcut HelpShortcut
}

func (i shortcutItem) FilterValue() string {
	return i.shortcut.Key + " " + i.shortcut.Desc
}

// sectionItem is a non-selectable header between shortcut groups.
type sectionItem struct {
	title string
}

func (i sectionItem) FilterValue() string { return "" }

type shortcutDelegate struct{}

func (shortcutDelegate) Height() int                            { return 1 }
func (shortcutDelegate) Spacing() int                           { return 0 }
func (shortcutDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (shortcutDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	switch i := item.(type) {
	case sectionItem:
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(i.title))

	case shortcutItem:
		keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Width(helpKeyColumn)
		descStyle := lipgloss.NewStyle().Foreground(ColorText)
		prefix := "  "
		if index == m.Index() {
			keyStyle = keyStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
			descStyle = descStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
			prefix = "> "
		}
		fmt.Fprint(w, prefix+keyStyle.Render(i.shortcut.Key)+descStyle.Render(i.shortcut.Desc))
	}
}

// HelpState lists the keyboard shortcuts that apply right now. Enter on an
// entry runs it.
type HelpState struct {
	list list.Model
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Atajos de teclado" }

func (s *HelpState) Help() string {
	if s.list.SettingFilter() {
		return "Escribe para filtrar  Enter: aplicar  Esc: cancelar"
	}
	return "/: filtrar  ↑/↓: moverse  Enter: ejecutar  Esc: cerrar"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.list.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	l, cmd := s.list.Update(msg)
	s.list = l
	return s, cmd
}

// SetSize fits the list between the title and the help line.
func (s *HelpState) SetSize(width, height int) {
	const overhead = 4
	s.list.SetSize(width, max(1, height-overhead))
}

// SelectedShortcut returns the highlighted shortcut, or nil on a header.
func (s *HelpState) SelectedShortcut() *HelpShortcut {
	if si, ok := s.list.SelectedItem().(shortcutItem); ok {
		return &si.shortcut
	}
	return nil
}

// IsFiltering reports whether the filter input has focus.
func (s *HelpState) IsFiltering() bool {
	return s.list.SettingFilter()
}

// NewHelpState builds the dialog from sections, selecting the first
// shortcut.
func NewHelpState(sections []HelpSection) *HelpState {
	var (
		rows  []list.Item
		first = -1
	)
	for _, sec := range sections {
		rows = append(rows, sectionItem{title: sec.Title})
		for _, sc := range sec.Shortcuts {
			if first < 0 {
				first = len(rows)
			}
			rows = append(rows, shortcutItem{shortcut: sc})
		}
	}

	l := list.New(rows, shortcutDelegate{}, ModalWidth, HelpModalMaxVisible)
	// The dialog draws its own title and help line.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	if first >= 0 {
		l.Select(first)
	}
	return &HelpState{list: l}
}
