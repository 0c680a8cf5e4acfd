package thread

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zhubert/chatmodal/internal/backend"
	"github.com/zhubert/chatmodal/internal/chat"
	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/logger"
)

// APIErrorPrefix starts the assistant turn shown when a send fails.
const APIErrorPrefix = "Error en la API: "

// ModelAdapter produces the assistant reply for a transcript.
type ModelAdapter interface {
	Send(ctx context.Context, prior []chat.Message, sessionID string, userID int) chat.Content
}

// Sender is the backend call BackendAdapter depends on.
type Sender interface {
	SendMessage(ctx context.Context, req backend.SendRequest) (*backend.SendResponse, error)
}

// BackendAdapter sends the latest user turn to the chat backend.
type BackendAdapter struct {
	sender Sender
	log    *slog.Logger
}

// NewBackendAdapter returns a BackendAdapter.
func NewBackendAdapter(sender Sender) *BackendAdapter {
	return &BackendAdapter{sender: sender, log: logger.WithComponent("adapter")}
}

// Send posts the most recent user message of prior. Failures come back as a
// visible text part rather than an error. A canceled ctx aborts the request;
// its result is discarded by the runtime.
func (a *BackendAdapter) Send(ctx context.Context, prior []chat.Message, sessionID string, userID int) chat.Content {
	req := backend.SendRequest{
		Mensaje:   chat.LastUserText(prior),
		IDSesion:  sessionID,
		IDUsuario: userID,
	}
	resp, err := a.sender.SendMessage(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			a.log.Debug("send canceled", "sessionID", sessionID)
		} else {
			a.log.Error("send failed", "sessionID", sessionID, "error", err)
		}
		return chat.PartsContent(chat.TextPart(APIErrorPrefix + pcerrors.Message(err)))
	}
	return chat.PartsContent(chat.TextPart(resp.Output))
}
