package app

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/keys"
	"github.com/zhubert/chatmodal/internal/ui"
	"github.com/zhubert/chatmodal/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// The registry is the single source for both key dispatch and the help
// dialog.
type Shortcut struct {
	Key               string // The key binding (e.g., "n", "ctrl+r")
	DisplayKey        string // Shown in help; defaults to Key
	Description       string
	Category          string
	RequiresSelection bool // A conversation must be under the sidebar cursor
	RequiresSidebar   bool // Must not be in chat focus
	Handler           func(m *Model) (tea.Model, tea.Cmd)
	Condition         func(m *Model) bool
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation    = "Navegación"
	CategoryConversations = "Conversaciones"
	CategoryChat          = "Chat"
	CategoryGeneral       = "General"
)

var categoryOrder = []string{
	CategoryNavigation,
	CategoryConversations,
	CategoryChat,
	CategoryGeneral,
}

// ShortcutRegistry lists every executable shortcut. Entries appear in the
// help dialog and can be run from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Cambiar entre lista y chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:             "/",
		Description:     "Buscar conversaciones",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutSearch,
		Condition:       func(m *Model) bool { return !m.sidebar.IsSearchMode() },
	},

	// Conversations
	{
		Key:             "n",
		Description:     "Nueva conversación",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		Handler:         shortcutNewChat,
	},
	{
		Key:         keys.CtrlN,
		DisplayKey:  "ctrl-n",
		Description: "Nueva conversación desde el chat",
		Category:    CategoryConversations,
		Handler:     shortcutNewChat,
		Condition:   func(m *Model) bool { return m.chat.IsFocused() },
	},
	{
		Key:               "d",
		Description:       "Eliminar conversación",
		Category:          CategoryConversations,
		RequiresSidebar:   true,
		RequiresSelection: true,
		Handler:           shortcutDelete,
	},

	// Chat
	{
		Key:         keys.CtrlR,
		DisplayKey:  "ctrl-r",
		Description: "Regenerar la última respuesta",
		Category:    CategoryChat,
		Handler:     shortcutReload,
		Condition:   func(m *Model) bool { return m.canResend() },
	},
	{
		Key:         keys.CtrlE,
		DisplayKey:  "ctrl-e",
		Description: "Editar el último mensaje",
		Category:    CategoryChat,
		Handler:     shortcutEditLast,
		Condition:   func(m *Model) bool { return m.canResend() },
	},
	{
		Key:         keys.CtrlY,
		DisplayKey:  "ctrl-y",
		Description: "Copiar la última respuesta",
		Category:    CategoryChat,
		Handler:     shortcutCopyReply,
		Condition:   func(m *Model) bool { return m.lastReply() != "" },
	},
	{
		Key:         keys.CtrlS,
		DisplayKey:  "ctrl-s",
		Description: "Exportar conversación a Markdown",
		Category:    CategoryChat,
		Handler:     shortcutExport,
		Condition:   func(m *Model) bool { return len(m.runtime.Messages()) > 0 },
	},

	// General
	// "?" is handled in ExecuteShortcut to avoid an initialization cycle.
	{
		Key:             "t",
		Description:     "Cambiar tema",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutCycleTheme,
	},
	{
		Key:         keys.CtrlO,
		DisplayKey:  "ctrl-o",
		Description: "Cerrar asistente",
		Category:    CategoryGeneral,
		Handler:     shortcutTogglePanel,
	},
	{
		Key:             "q",
		Description:     "Salir",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// helpShortcut is kept out of ShortcutRegistry because its handler reads
// the registry.
var helpShortcut = Shortcut{
	Key:             "?",
	Description:     "Mostrar esta ayuda",
	Category:        CategoryGeneral,
	RequiresSidebar: true,
}

// DisplayOnlyShortcuts are shown in help but not executable from it.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ o j/k", Description: "Moverse por la lista", Category: CategoryNavigation},
	{DisplayKey: "PgUp/PgDn", Description: "Desplazar el historial", Category: CategoryNavigation},
	{DisplayKey: "Enter", Description: "Abrir conversación / Enviar mensaje", Category: CategoryNavigation},
	{DisplayKey: "Esc", Description: "Detener generación / Cancelar búsqueda", Category: CategoryNavigation},

	{DisplayKey: "alt-enter", Description: "Nueva línea", Category: CategoryChat},
	{DisplayKey: "Rueda del ratón", Description: "Desplazar; al llegar arriba carga mensajes anteriores", Category: CategoryChat},
}

// canResend reports whether reload and edit have a user turn to work on.
func (m *Model) canResend() bool {
	return !m.runtime.Running() && chat.LastIndex(m.runtime.Messages(), chat.RoleUser) >= 0
}

// isShortcutApplicable checks the shortcut's guards against the current
// state. It filters the help dialog.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.chat.IsFocused() {
		return false
	}
	if s.RequiresSelection {
		if _, ok := m.sidebar.SelectedItem(); !ok {
			return false
		}
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut runs the shortcut bound to key if its guards pass.
// It reports false when there is no such shortcut or a guard failed, so
// the key can go on to the focused component.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	// Search mode owns the keyboard; "/" has its own guard.
	if m.sidebar.IsSearchMode() && key != "/" {
		return m, nil, false
	}

	if key == helpShortcut.Key {
		if !m.isShortcutApplicable(helpShortcut) {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			m.log.Debug("shortcut guard failed", "key", key, "chatFocused", m.chat.IsFocused())
			continue
		}
		m.log.Debug("executing shortcut", "key", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections groups the applicable shortcuts by category in
// display order.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	for _, s := range registry {
		if !m.isShortcutApplicable(s) {
			continue
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey(s),
			Desc: s.Description,
		})
	}

	for _, s := range displayOnly {
		if s.Category == CategoryChat && !m.chat.IsFocused() {
			continue
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey(s),
			Desc: s.Description,
		})
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts := categories[cat]; len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{Title: cat, Shortcuts: shortcuts})
		}
	}
	return sections
}

func displayKey(s Shortcut) string {
	if s.DisplayKey != "" {
		return s.DisplayKey
	}
	return s.Key
}

// shortcutKeyForDisplay maps a help entry back to its key. Display-only
// entries map to "".
func shortcutKeyForDisplay(display string) string {
	for _, s := range slices.Concat(ShortcutRegistry, []Shortcut{helpShortcut}) {
		if displayKey(s) == display {
			return s.Key
		}
	}
	return ""
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	return m, m.toggleFocus()
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.EnterSearchMode()
}

func shortcutNewChat(m *Model) (tea.Model, tea.Cmd) {
	return m, m.startNewChat()
}

func shortcutDelete(m *Model) (tea.Model, tea.Cmd) {
	return m, m.confirmDelete()
}

func shortcutReload(m *Model) (tea.Model, tea.Cmd) {
	return m, m.reloadReply()
}

func shortcutEditLast(m *Model) (tea.Model, tea.Cmd) {
	return m, m.editLastMessage()
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	return m, m.copyLastReply()
}

func shortcutExport(m *Model) (tea.Model, tea.Cmd) {
	return m, m.exportTranscript()
}

func shortcutTogglePanel(m *Model) (tea.Model, tea.Cmd) {
	return m, m.togglePanel()
}

// shortcutCycleTheme switches to the next built-in theme and remembers it
// when the options came from a config file.
func shortcutCycleTheme(m *Model) (tea.Model, tea.Cmd) {
	names := ui.ThemeNames()
	next := names[(slices.Index(names, ui.CurrentThemeName())+1)%len(names)]
	ui.SetTheme(next)
	m.cfg.Theme = string(next)
	if m.cfg.FilePath() != "" {
		if err := m.cfg.Save(); err != nil {
			m.log.Warn("failed to save theme", "error", err)
		}
	}
	return m, m.ShowFlashInfo("Tema: " + strings.ToLower(ui.CurrentTheme().Name))
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	all := slices.Concat(ShortcutRegistry, []Shortcut{helpShortcut})
	m.modal.Show(modals.NewHelpState(m.getApplicableHelpSections(all, DisplayOnlyShortcuts)))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
