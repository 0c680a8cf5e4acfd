package app

import (
	"fmt"
	"os"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/demo"
	"github.com/zhubert/chatmodal/internal/history"
	"github.com/zhubert/chatmodal/internal/keys"
	"github.com/zhubert/chatmodal/internal/notification"
	"github.com/zhubert/chatmodal/internal/thread"
	"github.com/zhubert/chatmodal/internal/ui"
	"github.com/zhubert/chatmodal/internal/ui/modals"
)

// loadPage fetches the page the pager has claimed and feeds the result.
func (e *testEnv) loadPage(t *testing.T) {
	t.Helper()
	if !e.m.pager.Loading() {
		t.Fatal("no history page in flight")
	}
	page := e.m.pager.PagesLoaded() + 1
	e.m.Update(fetchHistoryCmd(e.m.history, e.m.activeSession, e.m.histGen, page, e.m.pager.PageSize())())
}

// reply executes the run in flight, feeds the reply and runs the follow-up
// commands it returns.
func (e *testEnv) reply(t *testing.T) {
	t.Helper()
	if e.m.run == nil {
		t.Fatal("no run in flight")
	}
	_, cmd := e.m.Update(runCmd(e.m.run)())
	for _, msg := range runAll(cmd) {
		e.m.Update(msg)
	}
}

func texts(msgs []chat.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text()
	}
	return out
}

func TestNew_SessionSelection(t *testing.T) {
	t.Run("stored id is reused", func(t *testing.T) {
		storage := config.NewMemoryStore()
		cfg := config.Default()
		_ = storage.Set(cfg.StorageKey, "guardada")

		m := New(Options{Config: cfg, Storage: storage})
		if got := m.ActiveSession(); got != "guardada" {
			t.Errorf("ActiveSession() = %q, want %q", got, "guardada")
		}
	})

	t.Run("provided id wins and is not persisted", func(t *testing.T) {
		storage := config.NewMemoryStore()
		cfg := config.Default()
		cfg.SessionID = "del-host"

		m := New(Options{Config: cfg, Storage: storage})
		if got := m.ActiveSession(); got != "del-host" {
			t.Errorf("ActiveSession() = %q, want %q", got, "del-host")
		}
		if _, ok := storage.Get(cfg.StorageKey); ok {
			t.Error("provided session id should not be written to storage")
		}
	})

	t.Run("fresh id is generated and persisted", func(t *testing.T) {
		storage := config.NewMemoryStore()
		cfg := config.Default()

		m := New(Options{Config: cfg, Storage: storage})
		stored, ok := storage.Get(cfg.StorageKey)
		if !ok || stored != m.ActiveSession() || stored == "" {
			t.Errorf("stored = %q (%v), active = %q", stored, ok, m.ActiveSession())
		}
	})
}

func TestInit_LoadsHistoryAndList(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	got := texts(e.m.runtime.Messages())
	want := []string{
		"¿Puede subir el alquiler?",
		"Solo si el contrato lo prevé.",
		"Prevé una actualización anual.",
		"Entonces solo en el aniversario.",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("transcript = %q, want %q", got, want)
	}
	if len(e.m.chat.Messages()) != 4 {
		t.Errorf("chat shows %d messages, want 4", len(e.m.chat.Messages()))
	}
	if n := len(e.m.sidebar.Items()); n != 2 {
		t.Errorf("sidebar has %d items, want 2", n)
	}
	if item, ok := e.m.sidebar.SelectedItem(); !ok || item.SessionID != "reciente" {
		t.Errorf("cursor on %+v, want the active conversation", item)
	}
	if e.m.chat.IsLoadingHistory() {
		t.Error("loading indicator should be cleared")
	}
}

func TestInit_ShowsLoadingIndicator(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.m.Init()

	if !e.m.chat.IsLoadingHistory() {
		t.Error("first page in flight should show the loading indicator")
	}
	if e.m.CanSendMessage() {
		t.Error("sending should wait for the first page")
	}
}

func TestHistory_LoadsOlderPagesAtTop(t *testing.T) {
	e := newTestEnv(t, testScenario(), "larga")
	e.start(t)

	if n := len(e.m.runtime.Messages()); n != 10 {
		t.Fatalf("first page has %d messages, want 10", n)
	}
	if !e.m.pager.HasNext() {
		t.Fatal("pager should report older pages")
	}

	for i := 0; i < 20 && !e.m.pager.Loading(); i++ {
		sendKey(e.m, keys.PgUp)
	}
	e.loadPage(t)

	msgs := e.m.runtime.Messages()
	if len(msgs) != 20 {
		t.Fatalf("after page 2 transcript has %d messages, want 20", len(msgs))
	}
	if msgs[0].Text() != "respuesta 5" {
		t.Errorf("oldest loaded = %q, want %q", msgs[0].Text(), "respuesta 5")
	}
	if msgs[19].Text() != "pregunta 24" {
		t.Errorf("newest = %q, want %q", msgs[19].Text(), "pregunta 24")
	}
}

func TestHistory_OlderPageKeepsLiveTurns(t *testing.T) {
	e := newTestEnv(t, testScenario(), "larga")
	e.start(t)

	typeText(e.m, "nueva pregunta")
	sendKey(e.m, keys.Enter)
	e.reply(t)

	for i := 0; i < 30 && !e.m.pager.Loading(); i++ {
		sendKey(e.m, keys.PgUp)
	}
	e.loadPage(t)

	// Page 1 held turns 15..24. The two live turns shifted 15 and 16 onto
	// page 2, which adds 7..14.
	msgs := e.m.runtime.Messages()
	if len(msgs) != 20 {
		t.Fatalf("transcript has %d messages, want 20", len(msgs))
	}
	if first := msgs[0].Text(); first != "respuesta 7" {
		t.Errorf("first turn = %q, want respuesta 7", first)
	}
	if last := msgs[len(msgs)-1].Text(); last != "Respuesta uno" {
		t.Errorf("last turn = %q, want the live reply", last)
	}
}

func TestHistory_LiveTurnsBeyondAPageAppearOnce(t *testing.T) {
	e := newTestEnv(t, testScenario(), "larga")
	e.start(t)

	for i := range 6 {
		typeText(e.m, fmt.Sprintf("pregunta nueva %d", i))
		sendKey(e.m, keys.Enter)
		e.reply(t)
	}

	for e.m.pager.HasNext() {
		for i := 0; i < 50 && !e.m.pager.Loading(); i++ {
			sendKey(e.m, keys.PgUp)
		}
		e.loadPage(t)
	}

	msgs := e.m.runtime.Messages()
	if len(msgs) != 37 {
		t.Fatalf("transcript has %d messages, want 37", len(msgs))
	}
	if first := msgs[0].Text(); first != "pregunta 0" {
		t.Errorf("first turn = %q, want pregunta 0", first)
	}
	for i, want := range []string{"pregunta 24", "pregunta nueva 0"} {
		if got := msgs[24+i].Text(); got != want {
			t.Errorf("turn %d = %q, want %q", 24+i, got, want)
		}
	}
	count := 0
	for _, msg := range msgs {
		if msg.Text() == "pregunta nueva 0" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("first live question appears %d times, want 1", count)
	}
}

func TestHistory_FailureKeepsLoadedMessages(t *testing.T) {
	e := newTestEnv(t, testScenario(), "larga")
	e.start(t)

	e.server.FailNext(demo.RouteHistory, 1)
	for i := 0; i < 20 && !e.m.pager.Loading(); i++ {
		sendKey(e.m, keys.PgUp)
	}
	e.loadPage(t)

	if n := len(e.m.runtime.Messages()); n != 10 {
		t.Errorf("transcript has %d messages after a failed page, want 10", n)
	}
	if e.m.pager.Err() == nil {
		t.Error("pager should record the failure")
	}
	if e.m.pager.Loading() {
		t.Error("failed fetch should end the trigger cycle")
	}
}

func TestHistory_StaleSessionIgnored(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	e.m.Update(HistoryPageMsg{
		SessionID: "larga",
		Gen:       e.m.histGen,
		Page:      1,
		Result: history.Page{Messages: []chat.Message{
			chat.NewUserMessage("de otra sesión"),
		}},
	})

	if n := len(e.m.runtime.Messages()); n != 4 {
		t.Errorf("transcript has %d messages, want 4", n)
	}
}

func TestHistory_EarlierActivationIgnored(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	stale := fetchHistoryCmd(e.m.history, "reciente", e.m.histGen, 1, e.m.pager.PageSize())()
	e.m.activateSession("reciente")

	e.m.Update(stale)
	if !e.m.pager.Loading() {
		t.Fatal("page from an earlier activation completed the new load")
	}
	e.loadPage(t)
	if e.m.pager.Loading() || len(e.m.runtime.Messages()) != 4 {
		t.Errorf("loading = %v, %d messages", e.m.pager.Loading(), len(e.m.runtime.Messages()))
	}
}

func TestSend_NewSessionAppearsInSidebar(t *testing.T) {
	e := newTestEnv(t, testScenario(), "")
	e.start(t)

	typeText(e.m, "Hola")
	sendKey(e.m, keys.Enter)

	if !e.m.runtime.Running() {
		t.Fatal("Enter should start a run")
	}
	if got := texts(e.m.runtime.Messages()); len(got) != 1 || got[0] != "Hola" {
		t.Fatalf("transcript = %q, want the user turn", got)
	}
	if e.m.chat.Input() != "" {
		t.Error("composer should be cleared")
	}

	e.reply(t)

	got := texts(e.m.runtime.Messages())
	if len(got) != 2 || got[1] != "Respuesta uno" {
		t.Errorf("transcript = %q", got)
	}
	if !conversation.Contains(e.m.sidebar.Items(), e.m.ActiveSession()) {
		t.Error("new conversation should be listed after its first reply")
	}
	if e.m.runtime.Running() || e.m.chat.IsWaiting() {
		t.Error("run should be finished")
	}
}

func TestSend_FailureBecomesTranscriptContent(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)
	e.server.FailNext(demo.RouteSend, 1)

	typeText(e.m, "¿Y si no paga?")
	sendKey(e.m, keys.Enter)
	e.reply(t)

	msgs := e.m.runtime.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != chat.RoleAssistant || !strings.HasPrefix(last.Text(), thread.APIErrorPrefix) {
		t.Errorf("last turn = %s %q, want an API error reply", last.Role, last.Text())
	}
}

func TestSend_BlockedWhileHistoryLoads(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.m.Init()
	sendKey(e.m, keys.CtrlO)

	typeText(e.m, "pronto")
	sendKey(e.m, keys.Enter)

	if e.m.runtime.Running() {
		t.Error("send should wait for the first page")
	}
	if e.m.footer.Flash() != ui.LoadingHistoryText {
		t.Errorf("flash = %q", e.m.footer.Flash())
	}
	if e.m.chat.Input() != "pronto" {
		t.Error("composer text should be kept")
	}
}

func TestStopGeneration_DropsReply(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	typeText(e.m, "otra consulta")
	sendKey(e.m, keys.Enter)
	run := e.m.run

	sendKey(e.m, keys.Escape)
	if e.m.runtime.Running() {
		t.Fatal("Esc should cancel the run")
	}
	if !e.m.Expanded() {
		t.Error("Esc while generating should not close the panel")
	}

	e.m.Update(ReplyMsg{Run: run, Content: chat.StringContent("tarde")})
	msgs := e.m.runtime.Messages()
	if len(msgs) != 5 {
		t.Fatalf("transcript has %d messages, want 5", len(msgs))
	}
	if msgs[4].Role != chat.RoleUser {
		t.Error("user turn should stay after stopping")
	}
}

func TestReloadAndEdit(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.CtrlR)
	if !e.m.runtime.Running() {
		t.Fatal("ctrl+r should start a run")
	}
	if n := len(e.m.runtime.Messages()); n != 3 {
		t.Errorf("reload kept %d messages, want 3", n)
	}
	e.reply(t)
	if got := texts(e.m.runtime.Messages()); got[3] != "Respuesta uno" {
		t.Errorf("regenerated reply = %q", got[3])
	}

	sendKey(e.m, keys.CtrlE)
	if !e.m.chat.IsEditing() || e.m.chat.Input() != "Prevé una actualización anual." {
		t.Fatalf("edit loaded %q (editing=%v)", e.m.chat.Input(), e.m.chat.IsEditing())
	}
	e.m.chat.SetInput("El contrato no dice nada.")
	sendKey(e.m, keys.Enter)

	got := texts(e.m.runtime.Messages())
	if len(got) != 3 || got[2] != "El contrato no dice nada." {
		t.Errorf("after edit transcript = %q", got)
	}
}

func TestEscapeLeavesEditMode(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.CtrlE)
	sendKey(e.m, keys.Escape)

	if e.m.chat.IsEditing() {
		t.Error("Esc should leave edit mode")
	}
	if !e.m.Expanded() {
		t.Error("Esc in edit mode should not close the panel")
	}

	sendKey(e.m, keys.Escape)
	if e.m.Expanded() {
		t.Error("Esc with nothing to cancel should close the panel")
	}
}

func TestCopyLastReply(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.CtrlY)
	if e.clip.text != "Entonces solo en el aniversario." {
		t.Errorf("copied %q", e.clip.text)
	}
	if !strings.Contains(e.m.footer.Flash(), "copiada") {
		t.Errorf("flash = %q", e.m.footer.Flash())
	}

	e.clip.err = os.ErrPermission
	sendKey(e.m, keys.CtrlY)
	if !strings.Contains(e.m.footer.Flash(), "No se pudo copiar") {
		t.Errorf("flash = %q", e.m.footer.Flash())
	}
}

func TestExportTranscript(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	cmd := sendKey(e.m, keys.CtrlS)
	msgs := runAll(cmd)
	if len(msgs) != 1 {
		t.Fatalf("export produced %d messages", len(msgs))
	}
	res, ok := msgs[0].(ExportResultMsg)
	if !ok || res.Err != nil {
		t.Fatalf("export result = %#v", msgs[0])
	}
	if !strings.HasPrefix(res.Path, e.cfg.ExportDir) {
		t.Errorf("exported to %q, want under %q", res.Path, e.cfg.ExportDir)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Arrendamiento") || !strings.Contains(string(data), "Entonces solo en el aniversario.") {
		t.Errorf("export content:\n%s", data)
	}

	e.m.Update(res)
	if !strings.Contains(e.m.footer.Flash(), res.Path) {
		t.Errorf("flash = %q", e.m.footer.Flash())
	}
}

func TestSelectConversation(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.Tab)
	sendKey(e.m, keys.Down)
	sendKey(e.m, keys.Enter)

	if e.m.ActiveSession() != "larga" {
		t.Fatalf("ActiveSession() = %q, want larga", e.m.ActiveSession())
	}
	if stored, _ := e.storage.Get(e.cfg.StorageKey); stored != "larga" {
		t.Errorf("stored session = %q, want larga", stored)
	}
	if e.m.focus != FocusChat {
		t.Error("selecting should focus the composer")
	}
	if len(e.m.runtime.Messages()) != 0 || !e.m.chat.IsLoadingHistory() {
		t.Error("transcript should be cleared while the new history loads")
	}

	e.loadPage(t)
	if n := len(e.m.runtime.Messages()); n != 10 {
		t.Errorf("loaded %d messages, want 10", n)
	}
}

func TestSelectConversation_SameItemIsNoop(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.Tab)
	sendKey(e.m, keys.Enter)

	if e.m.ActiveSession() != "reciente" {
		t.Errorf("ActiveSession() = %q", e.m.ActiveSession())
	}
	if n := len(e.m.runtime.Messages()); n != 4 {
		t.Errorf("transcript should be untouched, has %d messages", n)
	}
}

func TestNewChat(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.Tab)
	sendKey(e.m, "n")

	if e.m.ActiveSession() == "reciente" || e.m.ActiveSession() == "" {
		t.Fatalf("ActiveSession() = %q, want a fresh id", e.m.ActiveSession())
	}
	if stored, _ := e.storage.Get(e.cfg.StorageKey); stored != e.m.ActiveSession() {
		t.Errorf("stored %q, active %q", stored, e.m.ActiveSession())
	}
	if len(e.m.runtime.Messages()) != 0 {
		t.Error("new conversation should start empty")
	}
	if e.m.pager.Loading() {
		t.Error("a new conversation has no history to fetch")
	}
	if !e.m.CanSendMessage() {
		t.Error("composer should be usable right away")
	}
}

func TestDelete_ConfirmDialog(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	sendKey(e.m, keys.Tab)
	sendKey(e.m, "d")
	state, ok := e.m.modal.State.(*modals.ConfirmDeleteState)
	if !ok {
		t.Fatalf("modal = %T, want confirm dialog", e.m.modal.State)
	}
	if state.SessionID != "reciente" {
		t.Errorf("dialog for %q", state.SessionID)
	}

	// The negative choice is preselected.
	sendKey(e.m, keys.Enter)
	if e.m.modal.IsVisible() {
		t.Error("Enter should close the dialog")
	}
	if e.m.sidebar.IsPending(state.ConversationID) {
		t.Error("cancel should not start a delete")
	}
	if n := len(e.server.Conversations(7)); n != 2 {
		t.Errorf("backend has %d conversations, want 2", n)
	}
}

func TestDelete_ActiveConversationStartsNewOne(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	item, ok := e.m.sidebar.SelectedItem()
	if !ok {
		t.Fatal("no conversation under the cursor")
	}
	e.m.startDelete(item)
	if !e.m.sidebar.IsPending(item.ConversationID) {
		t.Fatal("item should be pending while the delete runs")
	}

	e.m.Update(deleteConversationCmd(e.m.convs, item)())
	e.m.Update(e.m.fetchConversations()())

	if e.m.sidebar.IsPending(item.ConversationID) {
		t.Error("pending mark should be cleared")
	}
	if e.m.ActiveSession() == "reciente" {
		t.Error("deleting the active conversation should start a new one")
	}
	if len(e.m.runtime.Messages()) != 0 {
		t.Error("transcript should be cleared")
	}
	if conversation.Contains(e.m.sidebar.Items(), "reciente") {
		t.Error("deleted conversation is still listed")
	}
}

func TestDelete_OtherConversationKeepsActive(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	var other conversation.Item
	for _, it := range e.m.sidebar.Items() {
		if it.SessionID == "larga" {
			other = it
		}
	}
	e.m.startDelete(other)
	e.m.Update(deleteConversationCmd(e.m.convs, other)())

	if e.m.ActiveSession() != "reciente" {
		t.Errorf("ActiveSession() = %q", e.m.ActiveSession())
	}
	if n := len(e.m.runtime.Messages()); n != 4 {
		t.Errorf("transcript has %d messages, want 4", n)
	}
}

func TestDelete_LateListDoesNotRestoreItem(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	other, ok := findItem(e.m.sidebar.Items(), "larga")
	if !ok {
		t.Fatal("larga not listed")
	}
	// A list answered before the delete, delivered after the refetch.
	late := e.m.fetchConversations()()
	if !conversation.Contains(late.(ConversationsMsg).Items, "larga") {
		t.Fatal("earlier list should still contain the conversation")
	}

	e.m.startDelete(other)
	e.m.Update(deleteConversationCmd(e.m.convs, other)())
	e.m.Update(e.m.fetchConversations()())
	if conversation.Contains(e.m.sidebar.Items(), "larga") {
		t.Fatal("refetched list still has the deleted conversation")
	}

	e.m.Update(late)
	if conversation.Contains(e.m.sidebar.Items(), "larga") {
		t.Error("superseded list put the deleted conversation back")
	}
}

func TestConversations_OlderResponseIgnored(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	older := e.m.fetchConversations()().(ConversationsMsg)
	newer := e.m.fetchConversations()().(ConversationsMsg)
	newer.Items = newer.Items[:1]

	e.m.Update(newer)
	e.m.Update(older)
	if n := len(e.m.sidebar.Items()); n != 1 {
		t.Errorf("sidebar has %d items, want the newer list of 1", n)
	}
}

func TestDelete_FailureReopensDialog(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)
	e.server.FailNext(demo.RouteDelete, 1)

	item, _ := e.m.sidebar.SelectedItem()
	e.m.startDelete(item)
	e.m.Update(deleteConversationCmd(e.m.convs, item)())

	if _, ok := e.m.modal.State.(*modals.ConfirmDeleteState); !ok {
		t.Fatalf("modal = %T, want the confirm dialog again", e.m.modal.State)
	}
	if !strings.Contains(e.m.modal.GetError(), "No se pudo eliminar") {
		t.Errorf("modal error = %q", e.m.modal.GetError())
	}
	if e.m.ActiveSession() != "reciente" {
		t.Error("a failed delete must not change the active session")
	}
}

func TestDelete_SameItemTwiceIsRejected(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.start(t)

	item, _ := e.m.sidebar.SelectedItem()
	e.m.startDelete(item)

	sendKey(e.m, keys.Tab)
	sendKey(e.m, "d")
	if e.m.modal.IsVisible() {
		t.Error("a pending conversation should not open the dialog again")
	}
	if !strings.Contains(e.m.footer.Flash(), "ya se está eliminando") {
		t.Errorf("flash = %q", e.m.footer.Flash())
	}
}

func TestListFailure_SidebarStillRenders(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.server.FailNext(demo.RouteList, 1)
	e.start(t)

	if n := len(e.m.sidebar.Items()); n != 0 {
		t.Errorf("sidebar has %d items", n)
	}
	view := ansi.Strip(e.m.sidebar.View())
	if !strings.Contains(view, "No se pudo cargar la lista") {
		t.Errorf("sidebar should show the failure:\n%s", view)
	}
	if !strings.Contains(view, ui.NewConversationText) {
		t.Error("new conversation row should still render")
	}
}

func TestReplyWhileCollapsed_NotifiesAndMarksUnread(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.cfg.NotificationsEnabled = true
	e.start(t)

	var notified []string
	notification.SetNotifier(func(_, message string, _ any) error {
		notified = append(notified, message)
		return nil
	})
	t.Cleanup(func() {
		notification.SetNotifier(func(string, string, any) error { return nil })
	})

	typeText(e.m, "avísame")
	sendKey(e.m, keys.Enter)
	sendKey(e.m, keys.CtrlO)
	if e.m.Expanded() {
		t.Fatal("ctrl+o should close the panel")
	}
	e.reply(t)

	if e.m.launcher.Unread() != 1 {
		t.Errorf("unread = %d, want 1", e.m.launcher.Unread())
	}
	if len(notified) != 1 || !strings.Contains(notified[0], "Respuesta uno") {
		t.Errorf("notifications = %q", notified)
	}

	sendKey(e.m, keys.Enter)
	if !e.m.Expanded() || e.m.launcher.Unread() != 0 {
		t.Error("opening the panel should clear the unread count")
	}
}

func TestCollapsed_OnlyLauncherKeys(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	for _, msg := range runAll(e.m.Init()) {
		e.m.Update(msg)
	}

	typeText(e.m, "abc")
	if e.m.chat.Input() != "" {
		t.Error("typing while collapsed should not reach the composer")
	}
	if cmd := sendKey(e.m, "q"); cmd == nil {
		t.Error("q while collapsed should quit")
	}
}

func TestFlashClear_IgnoresOlderTimers(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.m.ShowFlashInfo("primero")
	old := e.m.flashSeq
	e.m.ShowFlashInfo("segundo")

	e.m.Update(FlashClearMsg{Seq: old})
	if e.m.footer.Flash() != "segundo" {
		t.Errorf("flash = %q, want the newer notice kept", e.m.footer.Flash())
	}
	e.m.Update(FlashClearMsg{Seq: e.m.flashSeq})
	if e.m.footer.Flash() != "" {
		t.Error("matching timer should clear the notice")
	}
}

func TestView(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	for _, msg := range runAll(e.m.Init()) {
		e.m.Update(msg)
	}

	if v := e.m.View(); !v.AltScreen {
		t.Error("widget should render on the alternate screen")
	}
	if !strings.Contains(ansi.Strip(e.m.launcher.View()), ui.LauncherOpenLabel) {
		t.Error("collapsed launcher should offer to open")
	}

	sendKey(e.m, keys.CtrlO)
	panel := ansi.Strip(e.m.panelView())
	for _, want := range []string{ui.HeaderTitle, ui.SidebarTitle, "Arrendamiento", "Entonces solo en el aniversario."} {
		if !strings.Contains(panel, want) {
			t.Errorf("panel missing %q", want)
		}
	}
	if !strings.Contains(ansi.Strip(e.m.launcher.View()), ui.LauncherCloseLabel) {
		t.Error("expanded launcher should offer to close")
	}
}

func TestWindowResize(t *testing.T) {
	e := newTestEnv(t, testScenario(), "reciente")
	e.m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	ctx := ui.GetViewContext()
	if ctx.PanelWidth > 80 || ctx.PanelHeight > 24 {
		t.Errorf("panel %dx%d does not fit 80x24", ctx.PanelWidth, ctx.PanelHeight)
	}
}

func findItem(items []conversation.Item, sessionID string) (conversation.Item, bool) {
	for _, it := range items {
		if it.SessionID == sessionID {
			return it, true
		}
	}
	return conversation.Item{}, false
}
