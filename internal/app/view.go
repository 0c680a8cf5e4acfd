package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/ui"
)

// updateSizes recomputes the layout for the current terminal and resizes
// every panel component.
func (m *Model) updateSizes() {
	layout := ui.GetViewContext()
	layout.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(layout.PanelWidth)
	m.footer.SetWidth(layout.PanelWidth)
	m.sidebar.SetSize(layout.SidebarWidth, layout.ContentHeight)
	m.chat.SetSize(layout.ChatWidth, layout.ContentHeight)
}

// View renders the widget in the bottom-right corner of the terminal.
func (m *Model) View() tea.View {
	v := tea.View{AltScreen: true, MouseMode: tea.MouseModeCellMotion}
	if m.width == 0 || m.height == 0 {
		v.SetContent("Cargando...")
		return v
	}

	msgs := m.runtime.Messages()
	m.footer.SetState(ui.FooterState{
		Expanded:       m.launcher.Expanded(),
		SidebarFocused: m.focus == FocusSidebar,
		Running:        m.runtime.Running(),
		CanEdit:        chat.LastIndex(msgs, chat.RoleUser) >= 0,
		HasReply:       chat.LastIndex(msgs, chat.RoleAssistant) >= 0,
		Searching:      m.sidebar.IsSearchMode(),
	})

	launcher := m.launcher.View()
	widget := launcher
	if m.launcher.Expanded() {
		widget = lipgloss.JoinVertical(lipgloss.Right, m.panelView(), launcher)
	}

	v.SetContent(lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Bottom, widget))
	return v
}

// panelView renders the expanded panel, or the dialog in its place when
// one is open.
func (m *Model) panelView() string {
	if m.modal.IsVisible() {
		layout := ui.GetViewContext()
		return m.modal.View(layout.PanelWidth, layout.PanelHeight)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.chat.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}
