// Package thread owns the visible transcript of the active session and the
// turn-by-turn exchange with the model adapter.
//
// The transcript changes in two ways only. ReplaceTranscript swaps the whole
// buffer when the active session or its loaded history changes, which also
// abandons any reply still in flight. Between replacements, runs append a
// user turn immediately and an assistant turn when the adapter answers,
// unless the run was canceled or superseded in the meantime.
package thread

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/zhubert/chatmodal/internal/chat"
	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/logger"
)

var (
	ErrBusy        = pcerrors.E(pcerrors.Op("thread.Begin"), pcerrors.KindInvalid, "a reply is already being generated")
	ErrEmpty       = pcerrors.E(pcerrors.Op("thread.Begin"), pcerrors.KindInvalid, "message is empty")
	ErrNothingToDo = pcerrors.E(pcerrors.Op("thread.Reload"), pcerrors.KindNotFound, "no user message to resend")
)

// Runtime is safe for concurrent use: runs execute on command goroutines
// while the UI loop reads the transcript.
type Runtime struct {
	mu        sync.Mutex
	adapter   ModelAdapter
	userID    int
	sessionID string
	messages  []chat.Message
	// base is how many leading messages came from the last replacement.
	base int
	run  *Run
	seq  uint64
	log  *slog.Logger
}

// Run is one pending assistant reply.
type Run struct {
	id        uint64
	sessionID string
	userID    int
	prior     []chat.Message
	adapter   ModelAdapter
	ctx       context.Context
	cancel    context.CancelFunc
}

// New returns a Runtime bound to sessionID. An empty sessionID is a
// programming error and panics.
func New(adapter ModelAdapter, userID int, sessionID string, initial []chat.Message) *Runtime {
	mustSession(sessionID)
	return &Runtime{
		adapter:   adapter,
		userID:    userID,
		sessionID: sessionID,
		messages:  slices.Clone(initial),
		base:      len(initial),
		log:       logger.WithComponent("thread"),
	}
}

func mustSession(sessionID string) {
	if sessionID == "" {
		panic("thread: session id is required")
	}
}

// SessionID returns the session the transcript belongs to.
func (r *Runtime) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// Messages returns a copy of the transcript.
func (r *Runtime) Messages() []chat.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

// LiveTurns returns the turns appended since the last replacement.
func (r *Runtime) LiveTurns() []chat.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages[r.base:])
}

// Running reports whether a reply is in flight.
func (r *Runtime) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run != nil
}

// ReplaceTranscript replaces the whole transcript. Any run in flight is
// canceled and its reply will be dropped.
func (r *Runtime) ReplaceTranscript(sessionID string, msgs []chat.Message) {
	mustSession(sessionID)
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked()
	if r.sessionID != sessionID {
		r.log.Debug("transcript switched session", "from", r.sessionID, "to", sessionID)
	}
	r.sessionID = sessionID
	r.messages = slices.Clone(msgs)
	r.base = len(msgs)
}

// Begin appends a user turn and opens a run for the reply.
func (r *Runtime) Begin(text string) (*Run, error) {
	if text == "" {
		return nil, ErrEmpty
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run != nil {
		return nil, ErrBusy
	}
	r.messages = append(r.messages, chat.NewUserMessage(text))
	return r.startLocked(), nil
}

// Reload drops the reply to the latest user turn and asks again.
func (r *Runtime) Reload() (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run != nil {
		return nil, ErrBusy
	}
	idx := chat.LastIndex(r.messages, chat.RoleUser)
	if idx < 0 {
		return nil, ErrNothingToDo
	}
	r.truncateLocked(idx + 1)
	return r.startLocked(), nil
}

// EditLast replaces the latest user turn, and everything after it, with
// text and asks again.
func (r *Runtime) EditLast(text string) (*Run, error) {
	if text == "" {
		return nil, ErrEmpty
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run != nil {
		return nil, ErrBusy
	}
	idx := chat.LastIndex(r.messages, chat.RoleUser)
	if idx < 0 {
		return nil, ErrNothingToDo
	}
	r.truncateLocked(idx)
	r.messages = append(r.messages, chat.NewUserMessage(text))
	return r.startLocked(), nil
}

func (r *Runtime) truncateLocked(n int) {
	r.messages = r.messages[:n:n]
	if r.base > n {
		r.base = n
	}
}

func (r *Runtime) startLocked() *Run {
	r.seq++
	ctx, cancel := context.WithCancel(context.Background())
	run := &Run{
		id:        r.seq,
		sessionID: r.sessionID,
		userID:    r.userID,
		prior:     slices.Clone(r.messages),
		adapter:   r.adapter,
		ctx:       ctx,
		cancel:    cancel,
	}
	r.run = run
	return run
}

// Cancel aborts the run in flight. It reports whether there was one.
func (r *Runtime) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelLocked()
}

func (r *Runtime) cancelLocked() bool {
	if r.run == nil {
		return false
	}
	r.run.cancel()
	r.run = nil
	return true
}

// Complete appends content as the reply of run. It reports false, and
// changes nothing, when run was canceled or superseded.
func (r *Runtime) Complete(run *Run, content chat.Content) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run == nil || r.run != run || run.ctx.Err() != nil || run.sessionID != r.sessionID {
		return false
	}
	run.cancel()
	r.run = nil
	r.messages = append(r.messages, chat.NewAssistantMessage(content))
	return true
}

// ID identifies the run within its Runtime.
func (run *Run) ID() uint64 { return run.id }

// SessionID returns the session the run was started for.
func (run *Run) SessionID() string { return run.sessionID }

// Execute asks the adapter for the reply. It blocks and is meant to run in
// a command goroutine.
func (run *Run) Execute() chat.Content {
	return run.adapter.Send(run.ctx, run.prior, run.sessionID, run.userID)
}

// Canceled reports whether the run was canceled.
func (run *Run) Canceled() bool {
	return run.ctx.Err() != nil
}
