// Package app is the Bubble Tea model of the chat widget. It wires the
// session store, history pager, conversation service and thread runtime to
// the ui components and runs every backend call as a command.
package app

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/backend"
	"github.com/zhubert/chatmodal/internal/clipboard"
	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/history"
	"github.com/zhubert/chatmodal/internal/logger"
	"github.com/zhubert/chatmodal/internal/query"
	"github.com/zhubert/chatmodal/internal/session"
	"github.com/zhubert/chatmodal/internal/thread"
	"github.com/zhubert/chatmodal/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Options wire a Model to its collaborators. Only Config is required; every
// other field falls back to the production implementation.
type Options struct {
	Config *config.Options
	// Backend talks to the chat service. Built from Config.API when nil.
	Backend *backend.Client
	// Cache is shared by the history and conversation fetchers. A host that
	// already owns a cache passes it here.
	Cache *query.Client
	// Storage persists the active session id.
	Storage session.Storage
	// Adapter produces replies. Defaults to the backend adapter.
	Adapter   thread.ModelAdapter
	Clipboard clipboard.Writer
	Version   string
	// Now is the clock used for export timestamps, for tests.
	Now func() time.Time
}

// Model is the main Bubble Tea model. It owns the widget state and turns
// user intents into backend commands whose results come back as messages.
type Model struct {
	cfg     *config.Options
	version string
	log     *slog.Logger
	now     func() time.Time

	header   *ui.Header
	footer   *ui.Footer
	sidebar  *ui.Sidebar
	chat     *ui.Chat
	modal    *ui.Modal
	launcher *ui.Launcher

	width  int
	height int
	focus  Focus

	history  *history.Fetcher
	convs    *conversation.Service
	sessions *session.Store
	runtime  *thread.Runtime
	clip     clipboard.Writer

	activeSession string
	pager         *history.Pager
	// histGen counts session activations. Pages fetched for an older one
	// are dropped.
	histGen uint64
	// histLen is how many leading transcript turns came from loaded
	// history. The turns after them were exchanged live.
	histLen int
	run     *thread.Run

	// listLoaded is set once the first list arrived and the sidebar cursor
	// was placed on the active conversation.
	listLoaded bool
	// listSeq numbers list requests. listApplied is the newest one shown;
	// anything at or below it is superseded.
	listSeq     uint64
	listApplied uint64
	flashSeq    int
}

// New creates a new app model
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Theme != "" {
		ui.SetThemeByName(cfg.Theme)
	}

	client := opts.Backend
	if client == nil {
		client = backend.NewClient(backend.Endpoints{
			ChatHistory: cfg.API.ChatHistoryURL,
			ChatList:    cfg.API.ChatListURL,
			Delete:      cfg.API.DeleteURL,
			SendMessage: cfg.API.SendMessageURL,
		}, cfg.API.Timeout)
	}
	cache := opts.Cache
	if cache == nil {
		cache = query.NewClient(query.Options{
			StaleTime: cfg.Cache.StaleTime,
			Retry:     cfg.Cache.Retry,
		})
	}
	storage := opts.Storage
	if storage == nil {
		storage = config.NewMemoryStore()
	}
	adapter := opts.Adapter
	if adapter == nil {
		adapter = thread.NewBackendAdapter(client)
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.System{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sessions := session.NewStore(storage, cfg.StorageKey)
	sessionID := sessions.GetOrCreate(cfg.SessionID)

	m := &Model{
		cfg:      cfg,
		version:  opts.Version,
		log:      logger.WithComponent("app"),
		now:      now,
		header:   ui.NewHeader(),
		footer:   ui.NewFooter(),
		sidebar:  ui.NewSidebar(),
		chat:     ui.NewChat(),
		modal:    ui.NewModal(),
		launcher: ui.NewLauncher(),
		focus:    FocusChat,
		history:  history.NewFetcher(client, cache),
		convs:    conversation.NewService(client, cache),
		sessions: sessions,
		runtime:  thread.New(adapter, cfg.UserID, sessionID, nil),
		clip:     clip,
	}
	m.resetSession(sessionID)
	m.sidebar.SetLoading(true)
	m.chat.SetFocused(true)

	m.log.Info("widget created", "userID", cfg.UserID, "sessionID", sessionID, "version", opts.Version)
	return m
}

// ActiveSession returns the session id whose transcript is shown.
func (m *Model) ActiveSession() string {
	return m.activeSession
}

// Expanded reports whether the panel is open.
func (m *Model) Expanded() bool {
	return m.launcher.Expanded()
}

// CanSendMessage reports whether the composer may start a run: no reply in
// flight and no history page about to replace the transcript.
func (m *Model) CanSendMessage() bool {
	return !m.runtime.Running() && !m.pager.Loading()
}

// Init loads the first history page of the active session and the
// conversation list.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadNextPage(), m.fetchConversations())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		if !m.launcher.Expanded() || m.modal.IsVisible() {
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, tea.Batch(cmd, m.maybeLoadOlder("wheel"))

	case HistoryPageMsg:
		return m, m.handleHistoryPage(msg)

	case ConversationsMsg:
		m.handleConversations(msg)
		return m, nil

	case DeleteResultMsg:
		return m, m.handleDeleteResult(msg)

	case ReplyMsg:
		return m, m.handleReply(msg)

	case ExportResultMsg:
		if msg.Err != nil {
			return m, m.ShowFlashError("No se pudo exportar la conversación")
		}
		return m, m.ShowFlashSuccess("Conversación exportada a " + msg.Path)

	case NotifyResultMsg:
		if msg.Err != nil {
			m.log.Warn("notification failed", "error", msg.Err)
		}
		return m, nil

	case FlashClearMsg:
		if msg.Seq == m.flashSeq {
			m.footer.ClearFlash()
		}
		return m, nil

	case ui.StopwatchTickMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case ui.SidebarTickMsg:
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	if m.modal.IsVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.focus == FocusChat {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// setFocus moves keyboard focus between the sidebar and the composer.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	if f == FocusSidebar && m.sidebar.IsSearchMode() {
		m.sidebar.ExitSearchMode()
	}
	return m.chat.SetFocused(f == FocusChat)
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == FocusSidebar {
		return m.setFocus(FocusChat)
	}
	return m.setFocus(FocusSidebar)
}

// togglePanel opens or closes the panel.
func (m *Model) togglePanel() tea.Cmd {
	m.launcher.Toggle()
	m.log.Debug("panel toggled", "expanded", m.launcher.Expanded())
	if !m.launcher.Expanded() {
		m.modal.Hide()
		return nil
	}
	return m.setFocus(m.focus)
}
