package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/keys"
	"github.com/zhubert/chatmodal/internal/ui/modals"
)

// handleKey dispatches a key press: modal first, then the collapsed
// launcher, then shortcuts, then the focused component.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		return m, tea.Quit
	}
	if m.modal.IsVisible() {
		return m.handleModalKey(key, msg)
	}
	if !m.launcher.Expanded() {
		switch key {
		case keys.Enter, keys.Space, keys.CtrlO:
			return m, m.togglePanel()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if key == keys.Escape {
		if cmd, handled := m.handleEscape(msg); handled {
			return m, cmd
		}
	}

	if result, cmd, ok := m.ExecuteShortcut(key); ok {
		return result, cmd
	}

	switch key {
	case keys.PgUp, keys.PgDown:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, tea.Batch(cmd, m.maybeLoadOlder("page"))
	case keys.Enter:
		if m.focus == FocusChat {
			return m, m.sendMessage()
		}
		if !m.sidebar.IsSearchMode() {
			return m, m.activateSidebarSelection()
		}
	}

	if m.focus == FocusSidebar {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	switch key {
	case keys.CtrlU, "ctrl+up":
		return m, tea.Batch(cmd, m.maybeLoadOlder("page"))
	}
	return m, cmd
}

// handleEscape stops a reply, leaves edit mode, clears a sidebar filter or
// collapses the panel, in that order of precedence.
func (m *Model) handleEscape(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch {
	case m.runtime.Running():
		return m.stopGeneration(), true
	case m.chat.IsEditing():
		m.chat.ClearInput()
		return nil, true
	case m.focus == FocusSidebar && (m.sidebar.IsSearchMode() || m.sidebar.SearchQuery() != ""):
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return cmd, true
	}
	return m.togglePanel(), true
}

// handleModalKey routes keys to the visible dialog.
func (m *Model) handleModalKey(key string, msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch s := m.modal.State.(type) {
	case *modals.ConfirmDeleteState:
		return m.handleConfirmDeleteModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	return m, m.forwardToModal(msg)
}

func (m *Model) forwardToModal(msg tea.Msg) tea.Cmd {
	_, cmd := m.modal.Update(msg)
	return cmd
}

// handleConfirmDeleteModal starts the delete on an affirmative Enter. The
// huh form handles the button toggling.
func (m *Model) handleConfirmDeleteModal(key string, msg tea.KeyPressMsg, state *modals.ConfirmDeleteState) (tea.Model, tea.Cmd) {
	switch {
	case key == keys.Escape, key == keys.Enter && !state.Confirmed():
		m.modal.Hide()
		return m, nil
	case key == keys.Enter:
		m.modal.Hide()
		return m, m.startDelete(conversation.Item{
			SessionID:      state.SessionID,
			Title:          state.ConvTitle,
			ConversationID: state.ConversationID,
		})
	}
	return m, m.forwardToModal(msg)
}

// handleHelpModal closes the help dialog or runs the highlighted shortcut.
func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// While filtering every key belongs to the list.
	if state.IsFiltering() {
		return m, m.forwardToModal(msg)
	}

	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		picked := state.SelectedShortcut()
		if picked == nil {
			return m, nil
		}
		m.modal.Hide()
		k := shortcutKeyForDisplay(picked.Key)
		if k == "" {
			return m, nil
		}
		next, cmd, _ := m.ExecuteShortcut(k)
		return next, cmd
	}
	return m, m.forwardToModal(msg)
}
