package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatmodal/internal/ui/modals"
)

// Modal hosts at most one dialog over the panel. A nil State means no
// dialog is open.
type Modal struct {
	State modals.ModalState
	error string
}

func NewModal() *Modal { return &Modal{} }

// Show opens state, dropping any error left by the previous dialog.
func (m *Modal) Show(state modals.ModalState) { m.State, m.error = state, "" }

func (m *Modal) Hide() { m.Show(nil) }

func (m *Modal) IsVisible() bool { return m.State != nil }

// SetError shows err under the dialog content until the next Show.
func (m *Modal) SetError(err string) { m.error = err }

func (m *Modal) GetError() string { return m.error }

// Update forwards msg to the open dialog.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if !m.IsVisible() {
		return m, nil
	}
	next, cmd := m.State.Update(msg)
	m.State = next
	return m, cmd
}

// View renders the dialog centered in a width by height area.
func (m *Modal) View(width, height int) string {
	if !m.IsVisible() {
		return ""
	}

	w := ModalWidth
	if pw, ok := m.State.(modals.ModalWithPreferredWidth); ok {
		w = pw.PreferredWidth()
	}
	w = min(w, width)
	if sized, ok := m.State.(modals.ModalWithSize); ok {
		// Border and Padding(1, 2) take 6 columns and 4 rows.
		sized.SetSize(w-6, height-4)
	}

	body := m.State.Render()
	if m.error != "" {
		body += "\n" + StatusErrorStyle.Render(m.error)
	}
	box := ModalStyle.Width(w).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
