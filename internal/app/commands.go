package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatmodal/internal/chat"
	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/conversation"
	"github.com/zhubert/chatmodal/internal/history"
	"github.com/zhubert/chatmodal/internal/notification"
	"github.com/zhubert/chatmodal/internal/thread"
)

// fetchTimeout bounds background fetches started from the event loop.
const fetchTimeout = time.Minute

// fetchHistoryCmd loads one page for the pager generation gen.
func fetchHistoryCmd(f *history.Fetcher, sessionID string, gen uint64, page, size int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		pg, err := f.FetchPage(ctx, sessionID, page, size)
		return HistoryPageMsg{SessionID: sessionID, Gen: gen, Page: page, Result: pg, Err: err}
	}
}

// fetchConversationsCmd loads the list as request number seq.
func fetchConversationsCmd(s *conversation.Service, userID int, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		items, err := s.List(ctx, userID)
		return ConversationsMsg{UserID: userID, Seq: seq, Items: items, Err: err}
	}
}

func deleteConversationCmd(s *conversation.Service, item conversation.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := s.Delete(ctx, item.ConversationID)
		return DeleteResultMsg{
			ConversationID: item.ConversationID,
			SessionID:      item.SessionID,
			Title:          item.Title,
			Err:            err,
		}
	}
}

// runCmd executes run on a command goroutine. Cancellation is observed by
// the adapter through the run's context.
func runCmd(run *thread.Run) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Run: run, Content: run.Execute()}
	}
}

func notifyCmd(reply string) tea.Cmd {
	return func() tea.Msg {
		return NotifyResultMsg{Err: notification.ReplyArrived(reply)}
	}
}

// exportCmd writes the transcript as Markdown into dir, or the data
// directory when dir is empty.
func exportCmd(dir, title string, msgs []chat.Message, at time.Time) tea.Cmd {
	return func() tea.Msg {
		if dir == "" {
			base, err := config.Dir()
			if err != nil {
				return ExportResultMsg{Err: err}
			}
			dir = filepath.Join(base, "exports")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResultMsg{Err: err}
		}
		name := fmt.Sprintf("conversacion-%s.md", at.Format("20060102-150405"))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(chat.ToMarkdown(title, msgs, at)), 0644); err != nil {
			return ExportResultMsg{Err: err}
		}
		return ExportResultMsg{Path: path}
	}
}
