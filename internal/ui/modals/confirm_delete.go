package modals

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// confirmTitleWidth bounds the conversation title shown in the dialog.
const confirmTitleWidth = 44

// ConfirmDeleteState asks before a conversation is deleted on the backend.
type ConfirmDeleteState struct {
	ConversationID int64
	SessionID      string
	ConvTitle      string

	confirmed bool
	form      *huh.Form
}

func (*ConfirmDeleteState) modalState() {}

func (s *ConfirmDeleteState) Title() string { return "¿Eliminar conversación?" }

func (s *ConfirmDeleteState) Help() string {
	return "←/→ elegir  Enter: confirmar  Esc: cancelar"
}

func (s *ConfirmDeleteState) Render() string {
	name := lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).MarginBottom(1)
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		name.Render(TruncateString(s.ConvTitle, confirmTitleWidth)),
		s.form.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *ConfirmDeleteState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	form, cmd := forwardToForm(s.form, msg)
	s.form = form
	return s, cmd
}

// Confirmed reports whether "Eliminar" is the current choice.
func (s *ConfirmDeleteState) Confirmed() bool {
	return s.confirmed
}

// NewConfirmDeleteState creates the dialog for one conversation. The
// negative choice is preselected.
func NewConfirmDeleteState(conversationID int64, sessionID, title string) *ConfirmDeleteState {
	s := &ConfirmDeleteState{
		ConversationID: conversationID,
		SessionID:      sessionID,
		ConvTitle:      title,
	}

	s.form = newDialogForm(
		huh.NewConfirm().
			Title("Esta acción no se puede deshacer.").
			Affirmative("Eliminar").
			Negative("Cancelar").
			Value(&s.confirmed),
	)
	return s
}
