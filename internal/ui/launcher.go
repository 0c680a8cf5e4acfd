package ui

import (
	"strconv"

	"charm.land/lipgloss/v2"
)

// Launcher labels, matching the accessible names of the floating button.
const (
	LauncherOpenLabel  = "Abrir asistente"
	LauncherCloseLabel = "Cerrar asistente"
)

// Launcher is the badge anchored to the bottom-right corner that toggles
// the panel. While collapsed it counts replies that arrived unseen.
type Launcher struct {
	expanded bool
	unread   int
}

// NewLauncher creates a collapsed launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Expanded reports whether the panel is open.
func (l *Launcher) Expanded() bool {
	return l.expanded
}

// Toggle opens or closes the panel. Opening clears the unread count.
func (l *Launcher) Toggle() {
	l.SetExpanded(!l.expanded)
}

// SetExpanded sets the panel state.
func (l *Launcher) SetExpanded(expanded bool) {
	l.expanded = expanded
	if expanded {
		l.unread = 0
	}
}

// MarkUnread counts a reply that arrived while collapsed.
func (l *Launcher) MarkUnread() {
	if !l.expanded {
		l.unread++
	}
}

// Unread returns the number of unseen replies.
func (l *Launcher) Unread() int {
	return l.unread
}

// Label returns the accessible label for the current state.
func (l *Launcher) Label() string {
	if l.expanded {
		return LauncherCloseLabel
	}
	return LauncherOpenLabel
}

// View renders the badge.
func (l *Launcher) View() string {
	icon := "⚖ "
	if l.expanded {
		icon = "✕ "
	}
	badge := LauncherStyle.Render(icon + l.Label())
	if l.unread > 0 {
		badge = lipgloss.JoinHorizontal(lipgloss.Center, LauncherBadgeStyle.Render(strconv.Itoa(l.unread)), " ", badge)
	}
	return badge
}
