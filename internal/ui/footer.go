package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FooterState is what the footer needs to pick its bindings.
type FooterState struct {
	Expanded       bool
	SidebarFocused bool
	Running        bool
	CanEdit        bool
	HasReply       bool
	Searching      bool
}

// Footer is the bottom bar of the panel. It shows the bindings that apply
// in the current state, or a transient notice when one is set.
type Footer struct {
	width int
	state FooterState
	flash string
	isErr bool
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetState updates the context used to choose bindings.
func (f *Footer) SetState(s FooterState) {
	f.state = s
}

// SetFlash shows msg instead of the bindings until ClearFlash.
func (f *Footer) SetFlash(msg string, isErr bool) {
	f.flash = msg
	f.isErr = isErr
}

// ClearFlash drops the current notice.
func (f *Footer) ClearFlash() {
	f.flash = ""
	f.isErr = false
}

// Flash returns the current notice.
func (f *Footer) Flash() string {
	return f.flash
}

// Bindings returns the bindings for the current state.
func (f *Footer) Bindings() []KeyBinding {
	s := f.state
	switch {
	case !s.Expanded:
		return []KeyBinding{
			{Key: "enter", Desc: "abrir asistente"},
			{Key: "q", Desc: "salir"},
		}
	case s.Searching:
		return []KeyBinding{
			{Key: "enter", Desc: "aplicar"},
			{Key: "esc", Desc: "cancelar"},
		}
	case s.SidebarFocused:
		return []KeyBinding{
			{Key: "enter", Desc: "abrir"},
			{Key: "n", Desc: "nueva"},
			{Key: "d", Desc: "eliminar"},
			{Key: "/", Desc: "buscar"},
			{Key: "tab", Desc: "chat"},
			{Key: "?", Desc: "ayuda"},
		}
	case s.Running:
		return []KeyBinding{
			{Key: "esc", Desc: "detener"},
			{Key: "tab", Desc: "conversaciones"},
			{Key: "pgup/dn", Desc: "desplazar"},
		}
	}

	bindings := []KeyBinding{
		{Key: "enter", Desc: "enviar"},
		{Key: "alt+enter", Desc: "nueva línea"},
	}
	if s.CanEdit {
		bindings = append(bindings, KeyBinding{Key: "ctrl+e", Desc: "editar"})
	}
	if s.HasReply {
		bindings = append(bindings,
			KeyBinding{Key: "ctrl+r", Desc: "regenerar"},
			KeyBinding{Key: "ctrl+y", Desc: "copiar"},
		)
	}
	return append(bindings, KeyBinding{Key: "ctrl+o", Desc: "cerrar"})
}

// View renders the footer
func (f *Footer) View() string {
	if f.flash != "" {
		style := StatusInfoStyle
		if f.isErr {
			style = StatusErrorStyle
		}
		return FooterStyle.Width(f.width).Render(style.Render(f.flash))
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	return FooterStyle.Width(f.width).MaxHeight(FooterHeight).Render(strings.Join(parts, sep))
}
