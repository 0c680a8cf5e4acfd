package app

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/thread"
	"github.com/zhubert/chatmodal/internal/ui"
)

// sendMessage starts a run for the composer text. In edit mode the text
// replaces the last user turn instead of adding one.
func (m *Model) sendMessage() tea.Cmd {
	text := m.chat.Input()
	if text == "" {
		return nil
	}
	if m.pager.Loading() {
		return m.ShowFlashInfo(ui.LoadingHistoryText)
	}

	var run *thread.Run
	var err error
	if m.chat.IsEditing() {
		run, err = m.runtime.EditLast(text)
	} else {
		run, err = m.runtime.Begin(text)
	}
	if err != nil {
		return m.runError(err)
	}
	m.chat.ClearInput()
	return m.startRun(run)
}

// reloadReply drops the latest reply and asks again.
func (m *Model) reloadReply() tea.Cmd {
	run, err := m.runtime.Reload()
	if err != nil {
		return m.runError(err)
	}
	m.log.Info("regenerating reply", "sessionID", m.activeSession)
	return m.startRun(run)
}

func (m *Model) startRun(run *thread.Run) tea.Cmd {
	m.run = run
	m.chat.SetMessages(m.runtime.Messages())
	m.header.SetBusy(true)
	m.log.Debug("run started", "sessionID", run.SessionID(), "run", run.ID())
	return tea.Batch(m.chat.SetWaiting(true), runCmd(run))
}

func (m *Model) runError(err error) tea.Cmd {
	switch {
	case errors.Is(err, thread.ErrBusy):
		return m.ShowFlashWarning("Espera a que termine la respuesta")
	case errors.Is(err, thread.ErrNothingToDo):
		return m.ShowFlashWarning("No hay ningún mensaje que reenviar")
	case errors.Is(err, thread.ErrEmpty):
		return nil
	}
	m.log.Error("run not started", "error", err)
	return m.ShowFlashError(err.Error())
}

// stopGeneration cancels the run in flight. The user turn stays.
func (m *Model) stopGeneration() tea.Cmd {
	if !m.runtime.Cancel() {
		return nil
	}
	m.log.Info("generation stopped", "sessionID", m.activeSession)
	m.run = nil
	m.chat.SetWaiting(false)
	m.header.SetBusy(false)
	return m.ShowFlashInfo("Generación detenida")
}

func (m *Model) handleReply(msg ReplyMsg) tea.Cmd {
	if !m.runtime.Complete(msg.Run, msg.Content) {
		m.log.Debug("dropping reply of canceled run", "sessionID", msg.Run.SessionID(), "run", msg.Run.ID())
		return nil
	}
	m.run = nil
	m.chat.SetWaiting(false)
	m.header.SetBusy(false)
	m.chat.SetMessages(m.runtime.Messages())

	// Cached pages no longer include the new turns.
	m.history.Invalidate(msg.Run.SessionID())

	var cmds []tea.Cmd
	// The backend creates the conversation on its first message; refetch so
	// it shows up in the sidebar.
	if !conversation.Contains(m.sidebar.Items(), msg.Run.SessionID()) {
		m.convs.Invalidate()
		m.supersedeLists()
		cmds = append(cmds, m.fetchConversations())
	}
	if !m.launcher.Expanded() {
		m.launcher.MarkUnread()
		if m.cfg.NotificationsEnabled {
			cmds = append(cmds, notifyCmd(msg.Content.Text()))
		}
	}
	return tea.Batch(cmds...)
}

// editLastMessage loads the latest user turn into the composer.
func (m *Model) editLastMessage() tea.Cmd {
	text := chat.LastUserText(m.runtime.Messages())
	if text == "" {
		return m.ShowFlashWarning("No hay ningún mensaje que editar")
	}
	m.chat.BeginEdit(text)
	return m.setFocus(FocusChat)
}

// lastReply returns the text of the latest assistant turn.
func (m *Model) lastReply() string {
	msgs := m.runtime.Messages()
	if i := chat.LastIndex(msgs, chat.RoleAssistant); i >= 0 {
		return msgs[i].Text()
	}
	return ""
}

func (m *Model) copyLastReply() tea.Cmd {
	reply := m.lastReply()
	if reply == "" {
		return m.ShowFlashWarning("No hay ninguna respuesta que copiar")
	}
	if err := m.clip.WriteText(reply); err != nil {
		m.log.Error("clipboard write failed", "error", err)
		return m.ShowFlashError("No se pudo copiar al portapapeles")
	}
	return m.ShowFlashSuccess("Respuesta copiada")
}

func (m *Model) exportTranscript() tea.Cmd {
	msgs := m.runtime.Messages()
	if len(msgs) == 0 {
		return m.ShowFlashWarning("La conversación está vacía")
	}
	title := m.titleFor(m.activeSession)
	if title == "" {
		title = chat.Title(msgs, 60)
	}
	return exportCmd(m.cfg.ExportDir, title, msgs, m.now())
}
