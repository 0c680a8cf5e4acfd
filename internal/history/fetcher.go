// Package history loads a session's transcript from the backend one page at
// a time.
//
// Pages are requested newest first (page 1 holds the most recent turns) and
// each page is reversed on arrival, so prepending older pages to newer ones
// yields the transcript oldest first. The Pager tracks that accumulation for
// one session and enforces the single in-flight fetch rule.
package history

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/zhubert/chatmodal/internal/backend"
	"github.com/zhubert/chatmodal/internal/chat"
	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/logger"
	"github.com/zhubert/chatmodal/internal/query"
)

// Pagination describes where a page sits in a session's history.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
	PageSize    int
}

// Page is one adapted history page, oldest message first.
type Page struct {
	Messages   []chat.Message
	Pagination Pagination
}

// Source is the backend call the Fetcher depends on.
type Source interface {
	FetchHistoryPage(ctx context.Context, sessionID string, page, size int) (*backend.HistoryResponse, error)
}

// Fetcher reads history pages through the shared query cache.
type Fetcher struct {
	source Source
	cache  *query.Client
	log    *slog.Logger
}

// NewFetcher returns a Fetcher.
func NewFetcher(source Source, cache *query.Client) *Fetcher {
	return &Fetcher{
		source: source,
		cache:  cache,
		log:    logger.WithComponent("history"),
	}
}

// SessionKey is the cache key prefix of every page of a session.
func SessionKey(sessionID string) query.Key {
	return query.Key{"chatHistory", sessionID}
}

// PageKey is the cache key of one page.
func PageKey(sessionID string, page, size int) query.Key {
	return query.Key{"chatHistory", sessionID, strconv.Itoa(page), strconv.Itoa(size)}
}

// FetchPage returns one page of sessionID's history.
func (f *Fetcher) FetchPage(ctx context.Context, sessionID string, page, size int) (Page, error) {
	const op = pcerrors.Op("history.FetchPage")
	if sessionID == "" {
		return Page{}, pcerrors.E(op, pcerrors.KindInvalid, "session id is required")
	}
	if page < 1 || size < 1 {
		return Page{}, pcerrors.E(op, pcerrors.KindInvalid, "page and size must be positive")
	}

	p, err := query.Fetch(ctx, f.cache, PageKey(sessionID, page, size), func(ctx context.Context) (Page, error) {
		resp, err := f.source.FetchHistoryPage(ctx, sessionID, page, size)
		if err != nil {
			return Page{}, err
		}
		return Page{
			Messages:   chat.AdaptPage(resp.Mensajes),
			Pagination: paginationFor(resp, page, size),
		}, nil
	})
	if err != nil {
		f.log.Warn("history fetch failed", "sessionID", sessionID, "page", page, "error", err)
		return Page{}, err
	}
	return p, nil
}

// Invalidate marks every cached page of sessionID stale.
func (f *Fetcher) Invalidate(sessionID string) {
	f.cache.Invalidate(SessionKey(sessionID))
}

// paginationFor converts the backend's paging block. When it is absent a full
// page is taken to mean more history may exist.
func paginationFor(resp *backend.HistoryResponse, page, size int) Pagination {
	if pg := resp.Paginacion; pg != nil {
		p := Pagination{
			CurrentPage: pg.PaginaActual,
			TotalPages:  pg.TotalPaginas,
			HasNext:     pg.TieneSiguiente,
			HasPrevious: pg.TieneAnterior,
			PageSize:    pg.Cantidad,
		}
		if p.CurrentPage == 0 {
			p.CurrentPage = page
		}
		if p.PageSize == 0 {
			p.PageSize = size
		}
		return p
	}
	return Pagination{
		CurrentPage: page,
		HasNext:     len(resp.Mensajes) >= size,
		HasPrevious: page > 1,
		PageSize:    size,
	}
}
