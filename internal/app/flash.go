package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/ui"
)

// ShowFlash displays a notice in the footer and returns the command that
// dismisses it. A newer notice outlives the timer of an older one.
func (m *Model) ShowFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.footer.SetFlash(text, isErr)
	return tea.Tick(ui.FlashDuration, func(time.Time) tea.Msg {
		return FlashClearMsg{Seq: seq}
	})
}

// ShowFlashError displays an error notice
func (m *Model) ShowFlashError(text string) tea.Cmd {
	return m.ShowFlash(text, true)
}

// ShowFlashWarning displays a warning notice
func (m *Model) ShowFlashWarning(text string) tea.Cmd {
	return m.ShowFlash("⚠ "+text, false)
}

// ShowFlashInfo displays an info notice
func (m *Model) ShowFlashInfo(text string) tea.Cmd {
	return m.ShowFlash(text, false)
}

// ShowFlashSuccess displays a success notice
func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash("✓ "+text, false)
}
