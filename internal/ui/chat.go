package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/keys"
	"github.com/zhubert/chatmodal/internal/logger"
)

// Chat panel texts.
const (
	ComposerPlaceholder = "Enviar un mensaje..."
	LoadingHistoryText  = "Cargando historial..."
	LoadingOlderText    = "Cargando mensajes anteriores..."
	StopHint            = "Detener generación"
	ThinkingText        = "Pensando"
)

// thinkingFrames animate the pending assistant turn.
var thinkingFrames = []string{"·  ", "·· ", "···", " ··", "  ·", "   "}

// StopwatchTickMsg advances the pending-reply animation.
type StopwatchTickMsg time.Time

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// Chat is the thread view: a scrolling transcript above a composer.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	messages []chat.Message

	loadingHistory bool // first page in flight, transcript empty
	loadingOlder   bool // an older page is in flight
	historyErr     string

	waiting       bool
	waitStartTime time.Time
	frame         int

	// editing is set while the composer holds the last user turn for
	// editing; sending replaces that turn.
	editing bool
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = ComposerPlaceholder
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	// Enter sends; the app intercepts it before the textarea sees it.
	ti.KeyMap.InsertNewline.SetKeys(keys.AltEnter)

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport: vp,
		input:    ti,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()
	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(max(1, ctx.InnerHeight(height-InputTotalHeight)))
	c.input.SetWidth(max(1, ctx.InnerWidth(width)-InputPaddingWidth))

	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) tea.Cmd {
	c.focused = focused
	if focused {
		return c.input.Focus()
	}
	c.input.Blur()
	return nil
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetMessages replaces the transcript and scrolls to the newest turn.
func (c *Chat) SetMessages(msgs []chat.Message) {
	c.messages = msgs
	c.updateContent()
	c.viewport.GotoBottom()
}

// PrependOlder replaces the transcript after older turns were loaded at the
// top, keeping the lines the user was reading in place.
func (c *Chat) PrependOlder(msgs []chat.Message) {
	before := c.viewport.TotalLineCount()
	offset := c.viewport.YOffset()
	c.messages = msgs
	c.updateContent()
	c.viewport.SetYOffset(offset + c.viewport.TotalLineCount() - before)
}

// Messages returns the rendered transcript.
func (c *Chat) Messages() []chat.Message {
	return c.messages
}

// SetLoadingHistory shows the initial loading indicator.
func (c *Chat) SetLoadingHistory(loading bool) {
	c.loadingHistory = loading
	c.updateContent()
}

// IsLoadingHistory reports whether the initial load indicator is showing.
func (c *Chat) IsLoadingHistory() bool {
	return c.loadingHistory
}

// SetLoadingOlder shows a notice above the transcript while an older page
// is fetched.
func (c *Chat) SetLoadingOlder(loading bool) {
	if c.loadingOlder == loading {
		return
	}
	c.loadingOlder = loading
	offset := c.viewport.YOffset()
	c.updateContent()
	c.viewport.SetYOffset(offset)
}

// SetHistoryError shows a history failure above the transcript. Loaded
// turns stay visible.
func (c *Chat) SetHistoryError(text string) {
	c.historyErr = text
	c.updateContent()
}

// SetWaiting toggles the pending assistant turn. Starting returns the tick
// command that animates it.
func (c *Chat) SetWaiting(waiting bool) tea.Cmd {
	wasWaiting := c.waiting
	c.waiting = waiting
	if waiting {
		c.waitStartTime = time.Now()
		c.frame = 0
	}
	c.updateContent()
	c.viewport.GotoBottom()
	if waiting && !wasWaiting {
		return StopwatchTick()
	}
	return nil
}

// IsWaiting returns whether we're waiting for a response
func (c *Chat) IsWaiting() bool {
	return c.waiting
}

// Input returns the trimmed composer text.
func (c *Chat) Input() string {
	return strings.TrimSpace(c.input.Value())
}

// ClearInput empties the composer and leaves edit mode.
func (c *Chat) ClearInput() {
	c.input.Reset()
	c.editing = false
}

// SetInput sets the composer text
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// BeginEdit loads text into the composer for editing the last turn.
func (c *Chat) BeginEdit(text string) {
	c.input.SetValue(text)
	c.editing = true
}

// IsEditing reports whether sending will replace the last user turn.
func (c *Chat) IsEditing() bool {
	return c.editing
}

// AtTop reports whether the transcript is scrolled to its first line.
func (c *Chat) AtTop() bool {
	return c.viewport.AtTop()
}

// formatElapsed formats a duration as a stopwatch string (e.g., "1.2s", "1:23")
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (c *Chat) wrapWidth() int {
	if w := c.viewport.Width(); w > 0 {
		return w
	}
	return DefaultWrapWidth
}

func (c *Chat) updateContent() {
	width := c.wrapWidth()
	var blocks []string

	if c.historyErr != "" {
		blocks = append(blocks, StatusErrorStyle.Render(wrapText(c.historyErr, width)))
	}
	if c.loadingOlder {
		blocks = append(blocks, StatusLoadingStyle.Render(LoadingOlderText))
	}

	switch {
	case len(c.messages) == 0 && c.loadingHistory:
		blocks = append(blocks, StatusLoadingStyle.Render(LoadingHistoryText))
	case len(c.messages) == 0 && !c.waiting:
		blocks = append(blocks, renderWelcome(width))
	}

	for _, m := range c.messages {
		blocks = append(blocks, renderMessage(m, width))
	}

	if c.waiting {
		frame := thinkingFrames[c.frame%len(thinkingFrames)]
		stopwatch := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).
			Render(formatElapsed(time.Since(c.waitStartTime)))
		hint := FooterKeyStyle.Render("esc") + FooterDescStyle.Render(": "+StopHint)
		blocks = append(blocks,
			ChatAssistantStyle.Render(AssistantLabel+":")+"\n"+
				StatusLoadingStyle.Render(ThinkingText+frame+" ")+stopwatch+"  "+hint)
	}

	c.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

// Update handles the animation tick, scroll keys and composer input.
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	if _, ok := msg.(StopwatchTickMsg); ok {
		if !c.waiting {
			return c, nil
		}
		c.frame++
		atBottom := c.viewport.AtBottom()
		c.updateContent()
		if atBottom {
			c.viewport.GotoBottom()
		}
		return c, StopwatchTick()
	}

	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.PgUp, keys.PgDown, "ctrl+up", "ctrl+down", keys.CtrlU, keys.CtrlD:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		if !c.focused {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	if c.focused {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	inputStyle := ChatInputStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
		inputStyle = ChatInputFocusedStyle
	}

	transcript := panelStyle.
		Width(c.width).
		Height(c.height - InputTotalHeight).
		Render(c.viewport.View())
	composer := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, transcript, composer)
}

// logScroll records older-history triggers.
func (c *Chat) logScroll(reason string) {
	logger.WithComponent("chat").Debug("transcript at top", "reason", reason, "messages", len(c.messages))
}

// ReachedTop reports whether the transcript sits at its first line with
// content to scroll, which is the trigger for loading older history.
func (c *Chat) ReachedTop(reason string) bool {
	if len(c.messages) == 0 || !c.viewport.AtTop() {
		return false
	}
	c.logScroll(reason)
	return true
}
