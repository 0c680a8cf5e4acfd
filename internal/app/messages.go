package app

import (
	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/history"
	"github.com/zhubert/chatmodal/internal/thread"
)

// HistoryPageMsg carries one fetched history page. Results for a session
// that is no longer active, or for an earlier activation of the same one,
// are dropped on arrival.
type HistoryPageMsg struct {
	SessionID string
	Gen       uint64
	Page      int
	Result    history.Page
	Err       error
}

// ConversationsMsg carries the conversation list. On failure Items holds
// the last good list, if any. Seq orders the requests.
type ConversationsMsg struct {
	UserID int
	Seq    uint64
	Items  []conversation.Item
	Err    error
}

// DeleteResultMsg reports the outcome of a conversation delete.
type DeleteResultMsg struct {
	ConversationID int64
	SessionID      string
	Title          string
	Err            error
}

// ReplyMsg carries the adapter's answer for a run.
type ReplyMsg struct {
	Run     *thread.Run
	Content chat.Content
}

// ExportResultMsg reports where a transcript export was written.
type ExportResultMsg struct {
	Path string
	Err  error
}

// NotifyResultMsg reports a desktop notification failure.
type NotifyResultMsg struct {
	Err error
}

// FlashClearMsg dismisses the footer notice shown with the same Seq.
type FlashClearMsg struct {
	Seq int
}
