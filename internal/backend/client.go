// Package backend is the HTTP client for the chat backend's four REST
// endpoints: history pages, the conversation list, conversation deletion and
// message sending.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// Endpoints are the base URLs of the backend. Path and query parameters are
// appended per request.
type Endpoints struct {
	ChatHistory string
	ChatList    string
	Delete      string
	SendMessage string
}

// Client talks to the chat backend.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	log        *slog.Logger
}

// NewClient creates a Client with its own http.Client.
func NewClient(endpoints Endpoints, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return NewClientWithHTTP(endpoints, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a Client using a caller supplied http.Client (for testing).
func NewClientWithHTTP(endpoints Endpoints, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		endpoints:  endpoints,
		log:        logger.WithComponent("backend"),
	}
}

// FetchHistoryPage retrieves one page of a session's history. Pages are
// numbered from 1 and come back newest turn first.
func (c *Client) FetchHistoryPage(ctx context.Context, sessionID string, page, size int) (*HistoryResponse, error) {
	const op = pcerrors.Op("backend.FetchHistoryPage")

	q := url.Values{}
	q.Set("pagina", strconv.Itoa(page))
	q.Set("cantidad", strconv.Itoa(size))
	u := joinPath(c.endpoints.ChatHistory, sessionID) + "?" + q.Encode()

	var out HistoryResponse
	if err := c.do(ctx, op, http.MethodGet, u, nil, "Error al cargar historial", &out); err != nil {
		return nil, err
	}
	c.log.Debug("history page fetched", "sessionID", sessionID, "page", page, "messages", len(out.Mensajes))
	return &out, nil
}

// FetchConversations retrieves the conversation list of a user.
func (c *Client) FetchConversations(ctx context.Context, userID int) ([]Conversation, error) {
	const op = pcerrors.Op("backend.FetchConversations")

	var out ConversationsResponse
	u := joinPath(c.endpoints.ChatList, strconv.Itoa(userID))
	if err := c.do(ctx, op, http.MethodGet, u, nil, "Error al cargar lista de chats", &out); err != nil {
		return nil, err
	}
	return out.Conversaciones, nil
}

// DeleteConversation deletes a conversation by its numeric id.
func (c *Client) DeleteConversation(ctx context.Context, conversationID int64) error {
	const op = pcerrors.Op("backend.DeleteConversation")

	u := joinPath(c.endpoints.Delete, strconv.FormatInt(conversationID, 10))
	if err := c.do(ctx, op, http.MethodDelete, u, nil, "Error al eliminar conversación", nil); err != nil {
		return err
	}
	c.log.Info("conversation deleted", "conversationID", conversationID)
	return nil
}

// SendMessage posts a user turn and returns the assistant reply.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) (*SendResponse, error) {
	const op = pcerrors.Op("backend.SendMessage")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, pcerrors.E(op, pcerrors.KindInvalid, err)
	}
	var out SendResponse
	if err := c.do(ctx, op, http.MethodPost, c.endpoints.SendMessage, body, "Error al enviar mensaje", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request. A nil out discards the body.
func (c *Client) do(ctx context.Context, op pcerrors.Op, method, rawURL string, body []byte, what string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return pcerrors.E(op, pcerrors.KindInvalid, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return pcerrors.Canceled(op, ctx.Err())
		}
		return pcerrors.NetworkFailed(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.Warn("backend returned error status", "op", string(op), "status", resp.StatusCode, "url", rawURL)
		return pcerrors.HTTPStatus(op, what, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return pcerrors.Canceled(op, ctx.Err())
		}
		return pcerrors.DecodeFailed(op, fmt.Errorf("%s: %w", method, err))
	}
	return nil
}

func joinPath(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(segment)
}
