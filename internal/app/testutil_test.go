package app

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/demo"
	"github.com/zhubert/chatmodal/internal/keys"
)

// fixedNow is the clock of every test model.
var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// testScenario seeds a short and a paged conversation.
func testScenario() *demo.Scenario {
	long := make([]demo.Turn, 0, 25)
	for i := range 25 {
		if i%2 == 0 {
			long = append(long, demo.Human(fmt.Sprintf("pregunta %d", i)))
		} else {
			long = append(long, demo.AI(fmt.Sprintf("respuesta %d", i)))
		}
	}
	return &demo.Scenario{
		Name:   "app-test",
		UserID: 7,
		Conversations: []demo.SeedConversation{
			{
				SessionID: "reciente",
				Title:     "Arrendamiento",
				Age:       time.Hour,
				Turns: []demo.Turn{
					demo.Human("¿Puede subir el alquiler?"),
					demo.AI("Solo si el contrato lo prevé."),
					demo.Human("Prevé una actualización anual."),
					demo.AI("Entonces solo en el aniversario."),
				},
			},
			{SessionID: "larga", Title: "Despido", Age: 2 * time.Hour, Turns: long},
		},
		Replies: []string{"Respuesta uno", "Respuesta dos"},
	}
}

// fakeClipboard records what was copied.
type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

// testEnv is a model wired to an in-process demo backend.
type testEnv struct {
	server  *demo.Server
	storage *config.Store
	clip    *fakeClipboard
	cfg     *config.Options
	m       *Model
}

// newTestEnv starts the demo backend for scenario and builds a model
// against it. storedSession, when set, is what the storage already holds.
func newTestEnv(t *testing.T, scenario *demo.Scenario, storedSession string) *testEnv {
	t.Helper()
	srv, err := demo.NewServer(scenario)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.SetBaseURL(ts.URL)
	cfg.UserID = scenario.UserID
	cfg.ExportDir = t.TempDir()
	// Failure injection counts one request per failure.
	cfg.Cache.Retry = 0

	storage := config.NewMemoryStore()
	if storedSession != "" {
		if err := storage.Set(cfg.StorageKey, storedSession); err != nil {
			t.Fatalf("storage.Set: %v", err)
		}
	}
	clip := &fakeClipboard{}

	m := New(Options{
		Config:    cfg,
		Storage:   storage,
		Clipboard: clip,
		Version:   "0.0.0-test",
		Now:       func() time.Time { return fixedNow },
	})
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 44})

	return &testEnv{server: srv, storage: storage, clip: clip, cfg: cfg, m: m}
}

// start runs Init to completion and opens the panel.
func (e *testEnv) start(t *testing.T) {
	t.Helper()
	for _, msg := range runAll(e.m.Init()) {
		e.m.Update(msg)
	}
	if !e.m.Expanded() {
		e.m.Update(keyPress(keys.CtrlO))
	}
}

// runAll executes cmd and any batch it expands into, returning every
// resulting message. Only use it on commands that do not contain ticks.
func runAll(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runAll(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlO:
		return tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case keys.CtrlE:
		return tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	case keys.CtrlS:
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	default:
		if len([]rune(key)) == 1 {
			return tea.KeyPressMsg{Code: []rune(key)[0], Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press and returns the command it produced.
func sendKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// typeText simulates typing a string one key at a time.
func typeText(m *Model, text string) {
	for _, ch := range text {
		sendKey(m, string(ch))
	}
}
