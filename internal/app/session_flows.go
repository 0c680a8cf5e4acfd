package app

import (
	"errors"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/conversation"
	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/history"
	"github.com/zhubert/chatmodal/internal/ui"
	"github.com/zhubert/chatmodal/internal/ui/modals"
)

// resetSession points every component at sessionID with an empty
// transcript. Any reply in flight is abandoned.
func (m *Model) resetSession(sessionID string) {
	m.activeSession = sessionID
	m.runtime.ReplaceTranscript(sessionID, nil)
	m.run = nil
	m.histLen = 0
	m.histGen++
	m.pager = history.NewPager(sessionID, m.cfg.History.PageSize, m.cfg.History.Incremental)

	m.chat.SetWaiting(false)
	m.chat.ClearInput()
	m.chat.SetHistoryError("")
	m.chat.SetLoadingOlder(false)
	m.chat.SetLoadingHistory(false)
	m.chat.SetMessages(nil)
	m.header.SetBusy(false)

	m.sidebar.SetActiveSession(sessionID)
	m.sidebar.SelectSession(sessionID)
	m.header.SetConversationTitle(m.titleFor(sessionID))
}

// activateSession switches to an existing session and starts loading its
// history.
func (m *Model) activateSession(sessionID string) tea.Cmd {
	m.log.Info("activating session", "sessionID", sessionID)
	m.resetSession(sessionID)
	return m.loadNextPage()
}

// startNewChat creates and persists a fresh session. A new session has no
// history, so nothing is fetched.
func (m *Model) startNewChat() tea.Cmd {
	sessionID := m.sessions.CreateNew()
	m.log.Info("new conversation", "sessionID", sessionID)
	m.resetSession(sessionID)
	if page, ok := m.pager.Begin(); ok {
		m.pager.Complete(page, history.Page{})
	}
	return m.setFocus(FocusChat)
}

// selectConversation activates item's session and persists it as the one
// to restore.
func (m *Model) selectConversation(item conversation.Item) tea.Cmd {
	m.sessions.Select(item.SessionID)
	return tea.Batch(m.activateSession(item.SessionID), m.setFocus(FocusChat))
}

// activateSidebarSelection handles Enter on the sidebar.
func (m *Model) activateSidebarSelection() tea.Cmd {
	intent, item := m.sidebar.Activate()
	switch intent {
	case ui.IntentNewChat:
		return m.startNewChat()
	case ui.IntentSelect:
		return m.selectConversation(item)
	default:
		return m.setFocus(FocusChat)
	}
}

// titleFor returns the listed title of sessionID, or "" when unlisted.
func (m *Model) titleFor(sessionID string) string {
	for _, it := range m.sidebar.Items() {
		if it.SessionID == sessionID {
			return it.Title
		}
	}
	return ""
}

// loadNextPage claims and fetches the next history page of the active
// session, if there is one and none is in flight.
func (m *Model) loadNextPage() tea.Cmd {
	page, ok := m.pager.Begin()
	if !ok {
		return nil
	}
	if page == 1 {
		m.chat.SetLoadingHistory(true)
	} else {
		m.chat.SetLoadingOlder(true)
	}
	m.log.Debug("fetching history page", "sessionID", m.activeSession, "page", page)
	return fetchHistoryCmd(m.history, m.activeSession, m.histGen, page, m.pager.PageSize())
}

// maybeLoadOlder fetches the next older page when the transcript has been
// scrolled to its top. Loading waits while a reply is in flight since a
// replacement would abandon it.
func (m *Model) maybeLoadOlder(reason string) tea.Cmd {
	if m.runtime.Running() || m.pager.Loading() || !m.pager.HasNext() {
		return nil
	}
	if !m.chat.ReachedTop(reason) {
		return nil
	}
	return m.loadNextPage()
}

func (m *Model) handleHistoryPage(msg HistoryPageMsg) tea.Cmd {
	if msg.SessionID != m.activeSession || msg.SessionID != m.pager.SessionID() {
		m.log.Debug("dropping history for inactive session", "sessionID", msg.SessionID, "active", m.activeSession)
		return nil
	}
	if msg.Gen != m.histGen {
		m.log.Debug("dropping history from an earlier activation", "sessionID", msg.SessionID, "page", msg.Page)
		return nil
	}
	older := msg.Page > 1
	if older {
		m.chat.SetLoadingOlder(false)
	} else {
		m.chat.SetLoadingHistory(false)
	}

	if msg.Err != nil {
		m.pager.Fail(msg.Page, msg.Err)
		m.log.Error("history fetch failed", "sessionID", msg.SessionID, "page", msg.Page, "error", msg.Err)
		m.chat.SetHistoryError("No se pudo cargar el historial: " + pcerrors.Message(msg.Err))
		return nil
	}
	if !m.pager.Complete(msg.Page, msg.Result) {
		return nil
	}
	m.chat.SetHistoryError("")

	shown := m.runtime.Messages()
	h := min(m.histLen, len(shown))
	unseen := history.Unseen(msg.Result.Messages, shown[:h], shown[h:])
	m.histLen = h + len(unseen)
	m.runtime.ReplaceTranscript(msg.SessionID, slices.Concat(unseen, shown))

	if older {
		m.chat.PrependOlder(m.runtime.Messages())
	} else {
		m.chat.SetMessages(m.runtime.Messages())
	}
	return nil
}

func (m *Model) fetchConversations() tea.Cmd {
	m.listSeq++
	return fetchConversationsCmd(m.convs, m.cfg.UserID, m.listSeq)
}

// supersedeLists drops every list request issued so far. Used once a write
// made their answers obsolete.
func (m *Model) supersedeLists() {
	m.listApplied = max(m.listApplied, m.listSeq)
}

func (m *Model) handleConversations(msg ConversationsMsg) {
	if msg.Seq <= m.listApplied {
		m.log.Debug("dropping superseded conversation list", "seq", msg.Seq, "applied", m.listApplied)
		return
	}
	m.listApplied = msg.Seq
	m.sidebar.SetLoading(false)
	if msg.Err != nil {
		m.log.Error("conversation list failed", "userID", msg.UserID, "error", msg.Err)
		m.sidebar.SetError("No se pudo cargar la lista")
	} else {
		m.sidebar.SetError("")
	}
	if msg.Items != nil || msg.Err == nil {
		m.sidebar.SetItems(msg.Items)
		if !m.listLoaded {
			m.listLoaded = true
			m.sidebar.SelectSession(m.activeSession)
		}
	}
	if title := m.titleFor(m.activeSession); title != "" {
		m.header.SetConversationTitle(title)
	}
}

// confirmDelete opens the confirm dialog for the conversation under the
// sidebar cursor.
func (m *Model) confirmDelete() tea.Cmd {
	item, ok := m.sidebar.SelectedItem()
	if !ok {
		return nil
	}
	if m.sidebar.IsPending(item.ConversationID) || m.convs.Deleting(item.ConversationID) {
		return m.ShowFlashWarning("La conversación ya se está eliminando")
	}
	m.modal.Show(modals.NewConfirmDeleteState(item.ConversationID, item.SessionID, item.Title))
	return nil
}

// startDelete marks item pending and issues the delete.
func (m *Model) startDelete(item conversation.Item) tea.Cmd {
	if m.sidebar.IsPending(item.ConversationID) {
		return m.ShowFlashWarning("La conversación ya se está eliminando")
	}
	m.log.Info("deleting conversation", "conversationID", item.ConversationID, "sessionID", item.SessionID)
	tick := m.sidebar.SetPending(item.ConversationID, true)
	return tea.Batch(tick, deleteConversationCmd(m.convs, item))
}

func (m *Model) handleDeleteResult(msg DeleteResultMsg) tea.Cmd {
	// The first delete still owns the pending mark.
	if errors.Is(msg.Err, conversation.ErrDeleteInFlight) {
		return m.ShowFlashWarning("La conversación ya se está eliminando")
	}
	m.sidebar.SetPending(msg.ConversationID, false)

	if msg.Err != nil {
		m.log.Error("delete failed", "conversationID", msg.ConversationID, "error", msg.Err)
		text := "No se pudo eliminar la conversación: " + pcerrors.Message(msg.Err)
		if m.modal.IsVisible() || !m.launcher.Expanded() {
			return m.ShowFlashError(text)
		}
		m.modal.Show(modals.NewConfirmDeleteState(msg.ConversationID, msg.SessionID, msg.Title))
		m.modal.SetError(text)
		return nil
	}

	m.supersedeLists()
	cmds := []tea.Cmd{m.ShowFlashSuccess("Conversación eliminada"), m.fetchConversations()}
	if msg.SessionID == m.activeSession {
		m.log.Info("active conversation deleted, starting a new one", "sessionID", msg.SessionID)
		cmds = append(cmds, m.startNewChat())
	}
	return tea.Batch(cmds...)
}
