package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/keys"
	"github.com/zhubert/chatmodal/internal/logger"
)

// Sidebar texts.
const (
	SidebarTitle        = "Conversaciones"
	NewConversationText = "Nueva Conversación"
	EmptyListText       = "No hay conversaciones disponibles"
	NoMatchesText       = "Sin resultados"
	LoadingListText     = "Cargando..."
)

// SidebarSearchCharLimit caps the search query length.
const SidebarSearchCharLimit = 64

// sidebarSpinnerFrames animate items whose delete is in flight.
var sidebarSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SidebarTickMsg is sent to advance the spinner animation
type SidebarTickMsg time.Time

// SidebarTick returns a command that sends a tick message after a delay
func SidebarTick() tea.Cmd {
	return tea.Tick(SidebarTickInterval, func(t time.Time) tea.Msg {
		return SidebarTickMsg(t)
	})
}

// SidebarIntent is what activating the selected row asks for.
type SidebarIntent int

const (
	// IntentNone means the row is already the active conversation.
	IntentNone SidebarIntent = iota
	// IntentNewChat starts a fresh conversation.
	IntentNewChat
	// IntentSelect switches to another conversation.
	IntentSelect
)

// Sidebar lists the user's conversations. Row 0 is always the
// "Nueva Conversación" action; conversations follow in backend order.
type Sidebar struct {
	items    []conversation.Item
	filtered []int // indices into items; nil when no filter applies

	activeSession string
	pending       map[int64]bool

	loading bool
	errText string

	selectedIdx  int
	scrollOffset int
	width        int
	height       int
	focused      bool
	spinnerFrame int
	ticking      bool

	searchMode  bool
	searchInput textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "buscar..."
	ti.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		pending:     make(map[int64]bool),
		searchInput: ti,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetItems replaces the conversation list. The cursor stays on the same
// conversation when it is still present.
func (s *Sidebar) SetItems(items []conversation.Item) {
	var keep string
	if it, ok := s.selectedItem(); ok {
		keep = it.SessionID
	}

	s.items = items
	s.loading = false
	if s.searchMode {
		s.applyFilter(s.searchInput.Value())
	}

	if keep != "" && s.moveTo(keep) {
		return
	}
	s.clampSelection()
}

// Items returns the current conversation list.
func (s *Sidebar) Items() []conversation.Item {
	return s.items
}

// SetLoading shows the loading text while the list is empty.
func (s *Sidebar) SetLoading(loading bool) {
	s.loading = loading
}

// SetError records a list failure. The stale list keeps rendering.
func (s *Sidebar) SetError(text string) {
	s.errText = text
}

// SetActiveSession highlights the conversation with sessionID.
func (s *Sidebar) SetActiveSession(sessionID string) {
	s.activeSession = sessionID
}

// ActiveSession returns the highlighted session id.
func (s *Sidebar) ActiveSession() string {
	return s.activeSession
}

// SelectSession moves the cursor onto sessionID, if listed.
func (s *Sidebar) SelectSession(sessionID string) {
	s.moveTo(sessionID)
}

// SetPending marks a conversation whose delete is in flight. It returns a
// tick command when the spinner needs to start.
func (s *Sidebar) SetPending(conversationID int64, pending bool) tea.Cmd {
	if pending {
		s.pending[conversationID] = true
	} else {
		delete(s.pending, conversationID)
	}
	if len(s.pending) > 0 && !s.ticking {
		s.ticking = true
		return SidebarTick()
	}
	return nil
}

// IsPending reports whether conversationID is being deleted.
func (s *Sidebar) IsPending(conversationID int64) bool {
	return s.pending[conversationID]
}

// SelectedItem returns the conversation under the cursor. ok is false on
// the "Nueva Conversación" row.
func (s *Sidebar) SelectedItem() (conversation.Item, bool) {
	return s.selectedItem()
}

func (s *Sidebar) selectedItem() (conversation.Item, bool) {
	rows := s.displayIndices()
	i := s.selectedIdx - 1
	if i < 0 || i >= len(rows) {
		return conversation.Item{}, false
	}
	return s.items[rows[i]], true
}

// Activate resolves the row under the cursor into an intent. Activating
// the conversation that is already active does nothing.
func (s *Sidebar) Activate() (SidebarIntent, conversation.Item) {
	intent, it := s.resolve()
	s.logSelection(intent, it)
	return intent, it
}

func (s *Sidebar) resolve() (SidebarIntent, conversation.Item) {
	if s.selectedIdx == 0 {
		return IntentNewChat, conversation.Item{}
	}
	it, ok := s.selectedItem()
	if !ok || it.SessionID == s.activeSession {
		return IntentNone, it
	}
	return IntentSelect, it
}

// EnterSearchMode activates search mode
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.applyFilter("")
	return s.searchInput.Focus()
}

// ExitSearchMode deactivates search mode and clears the filter
func (s *Sidebar) ExitSearchMode() {
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	s.filtered = nil
	s.clampSelection()
}

// IsSearchMode returns whether search mode is active
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// SearchQuery returns the current search query
func (s *Sidebar) SearchQuery() string {
	return s.searchInput.Value()
}

// applyFilter narrows the list to titles containing query, ignoring case.
func (s *Sidebar) applyFilter(query string) {
	if query == "" {
		s.filtered = nil
		return
	}
	query = strings.ToLower(query)
	s.filtered = []int{}
	for i, it := range s.items {
		if strings.Contains(strings.ToLower(it.Title), query) {
			s.filtered = append(s.filtered, i)
		}
	}
	s.scrollOffset = 0
	// Land on the first match rather than the new-chat row.
	if len(s.filtered) > 0 {
		s.selectedIdx = 1
	} else {
		s.selectedIdx = 0
	}
}

func (s *Sidebar) displayIndices() []int {
	if s.filtered != nil {
		return s.filtered
	}
	rows := make([]int, len(s.items))
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func (s *Sidebar) rowCount() int {
	return len(s.displayIndices()) + 1
}

func (s *Sidebar) moveTo(sessionID string) bool {
	for row, i := range s.displayIndices() {
		if s.items[i].SessionID == sessionID {
			s.selectedIdx = row + 1
			return true
		}
	}
	return false
}

func (s *Sidebar) clampSelection() {
	s.selectedIdx = min(max(s.selectedIdx, 0), s.rowCount()-1)
}

// Update handles navigation keys, search input and spinner ticks.
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case SidebarTickMsg:
		if len(s.pending) == 0 {
			s.ticking = false
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(sidebarSpinnerFrames)
		return s, SidebarTick()

	case tea.KeyPressMsg:
		if !s.focused {
			return s, nil
		}

		if s.searchMode {
			switch msg.String() {
			case keys.Escape:
				s.ExitSearchMode()
				return s, nil
			case keys.Enter:
				// Keep the filter, give the keys back to navigation.
				s.searchMode = false
				s.searchInput.Blur()
				return s, nil
			case keys.Up, keys.CtrlP:
				s.move(-1)
				return s, nil
			case keys.Down, keys.CtrlN:
				s.move(1)
				return s, nil
			default:
				var cmd tea.Cmd
				s.searchInput, cmd = s.searchInput.Update(msg)
				s.applyFilter(s.searchInput.Value())
				return s, cmd
			}
		}

		switch msg.String() {
		case keys.Up, "k":
			s.move(-1)
		case keys.Down, "j":
			s.move(1)
		case keys.Home, "g":
			s.selectedIdx = 0
		case keys.End, "G":
			s.selectedIdx = s.rowCount() - 1
		case keys.Escape:
			if s.filtered != nil {
				s.ExitSearchMode()
			}
		}
	}
	return s, nil
}

func (s *Sidebar) move(delta int) {
	s.selectedIdx += delta
	s.clampSelection()
}

// View renders the sidebar panel.
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	var header []string
	header = append(header, PanelTitleStyle.Render(SidebarTitle))
	if s.searchMode || s.filtered != nil {
		s.searchInput.SetWidth(max(1, innerWidth-3))
		header = append(header, lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("/")+" "+s.searchInput.View())
	}
	if s.errText != "" {
		header = append(header, StatusErrorStyle.Render(ansi.Truncate(s.errText, innerWidth, "…")))
	}
	listHeight := max(1, innerHeight-len(header))

	lines := []string{s.renderRow(0, NewConversationText, SidebarNewChatStyle, innerWidth, "+ ")}
	rows := s.displayIndices()
	switch {
	case len(rows) == 0 && s.filtered != nil:
		lines = append(lines, SidebarMutedStyle.Render(NoMatchesText))
	case len(rows) == 0 && s.loading:
		lines = append(lines, SidebarMutedStyle.Render(LoadingListText))
	case len(rows) == 0:
		lines = append(lines, SidebarMutedStyle.Render(EmptyListText))
	}
	for row, i := range rows {
		it := s.items[i]
		itemStyle := SidebarItemStyle
		if it.SessionID == s.activeSession {
			itemStyle = SidebarActiveStyle
		}
		prefix := "  "
		if s.pending[it.ConversationID] {
			prefix = sidebarSpinnerFrames[s.spinnerFrame%len(sidebarSpinnerFrames)] + " "
		}
		lines = append(lines, s.renderRow(row+1, it.Title, itemStyle, innerWidth, prefix))
	}

	// Scroll to keep the cursor visible.
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	} else if s.selectedIdx >= s.scrollOffset+listHeight {
		s.scrollOffset = s.selectedIdx - listHeight + 1
	}
	s.scrollOffset = min(max(0, s.scrollOffset), max(0, len(lines)-listHeight))
	end := min(len(lines), s.scrollOffset+listHeight)
	visible := lines[s.scrollOffset:end]

	content := strings.Join(append(header, visible...), "\n")
	return style.
		Width(s.width).
		Height(s.height).
		Render(content)
}

func (s *Sidebar) renderRow(row int, title string, base lipgloss.Style, width int, prefix string) string {
	// Padding(0, 1) takes two cells.
	text := ansi.Truncate(prefix+title, max(1, width-2), "…")
	if row == s.selectedIdx && s.focused {
		return SidebarSelectedStyle.Width(width).Render(text)
	}
	return base.Width(width).Render(text)
}

// logSelection records which row an activation resolved to.
func (s *Sidebar) logSelection(intent SidebarIntent, it conversation.Item) {
	logger.WithComponent("sidebar").Debug("row activated",
		"intent", int(intent),
		"sessionID", it.SessionID,
		"conversationID", it.ConversationID,
	)
}
