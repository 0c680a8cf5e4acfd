package modals

import (
	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatmodal/internal/keys"
)

// newDialogForm wraps fields in a single-group form styled with the current
// palette. The form is initialized so the first frame already shows it.
func newDialogForm(fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth)
	form.Init()
	return form
}

// forwardToForm passes msg to form. Enter and Esc belong to the app, which
// decides what confirming or cancelling a dialog does.
func forwardToForm(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if key, isKey := msg.(tea.KeyPressMsg); isKey {
		if k := key.String(); k == keys.Enter || k == keys.Escape {
			return form, nil
		}
	}
	next, cmd := form.Update(msg)
	return next.(*huh.Form), cmd
}

// ModalTheme builds a huh theme from the palette set by SetStyles. Forms
// created after a theme switch pick up the new colors.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		st := huh.ThemeBase(isDark)

		focused := &st.Focused
		focused.Base = lipgloss.NewStyle().PaddingLeft(1)
		focused.Card = focused.Base
		focused.Title = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
		focused.Description = lipgloss.NewStyle().Italic(true).Foreground(ColorTextMuted)
		focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)
		focused.ErrorIndicator = focused.ErrorMessage.SetString(" *")

		// Confirming a delete is destructive: the focused button is red.
		btn := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
		focused.FocusedButton = btn.Foreground(ColorTextInverse).Background(ColorError)
		focused.BlurredButton = btn.Foreground(ColorTextMuted)

		st.Blurred = st.Focused
		st.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		st.Blurred.Card = st.Blurred.Base

		st.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		st.Help = help.New().Styles
		return st
	})
}
