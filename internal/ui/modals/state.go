// Package modals holds the dialogs that can open over the chat panel. Each
// dialog is its own type so the app reads the user's choice without casts
// on untyped fields.
package modals

import tea "charm.land/bubbletea/v2"

// ModalState is implemented only by the dialogs of this package.
type ModalState interface {
	modalState()

	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// ModalWithPreferredWidth lets a dialog ask for a width other than
// ModalWidth.
type ModalWithPreferredWidth interface {
	ModalState
	PreferredWidth() int
}

// ModalWithSize is implemented by dialogs that lay out against the screen.
type ModalWithSize interface {
	ModalState
	SetSize(width, height int)
}

// HelpShortcut is one row of the help dialog.
type HelpShortcut struct {
	Key  string
	Desc string
}

// HelpSection groups the rows of one category.
type HelpSection struct {
	Title     string
	Shortcuts []HelpShortcut
}
