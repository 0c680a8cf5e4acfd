package history

// Pager tracks the paging state of one session. It is not safe for concurrent
// use; the UI loop owns it and fetches run in commands that report back.
type Pager struct {
	sessionID   string
	pageSize    int
	incremental bool

	loaded   int
	next     int
	hasNext  bool
	inFlight bool
	err      error
}

// NewPager returns a Pager positioned before page 1. A non-incremental pager
// only ever loads page 1.
func NewPager(sessionID string, pageSize int, incremental bool) *Pager {
	return &Pager{
		sessionID:   sessionID,
		pageSize:    pageSize,
		incremental: incremental,
		next:        1,
		hasNext:     true,
	}
}

func (p *Pager) SessionID() string { return p.sessionID }
func (p *Pager) PageSize() int     { return p.pageSize }

// Begin claims the next page for fetching. ok is false when there is nothing
// more to load or a fetch is already in flight.
func (p *Pager) Begin() (page int, ok bool) {
	if p.inFlight || !p.hasNext {
		return 0, false
	}
	if !p.incremental && p.next > 1 {
		return 0, false
	}
	p.inFlight = true
	return p.next, true
}

// Complete records a fetched page. Results for a page other than the one
// claimed by Begin are ignored and reported as false.
func (p *Pager) Complete(page int, pg Page) bool {
	if !p.inFlight || page != p.next {
		return false
	}
	p.inFlight = false
	p.err = nil
	p.loaded++
	p.next++
	p.hasNext = pg.Pagination.HasNext && len(pg.Messages) > 0
	if pg.Pagination.TotalPages > 0 && page >= pg.Pagination.TotalPages {
		p.hasNext = false
	}
	return true
}

// Fail ends the in-flight fetch of page. The same page is claimed again by
// the next Begin.
func (p *Pager) Fail(page int, err error) {
	if !p.inFlight || page != p.next {
		return
	}
	p.inFlight = false
	p.err = err
}

// PagesLoaded returns how many pages have arrived.
func (p *Pager) PagesLoaded() int { return p.loaded }

// HasNext reports whether older pages may exist.
func (p *Pager) HasNext() bool {
	return p.hasNext && (p.incremental || p.next == 1)
}

// Loading reports whether a fetch is in flight.
func (p *Pager) Loading() bool { return p.inFlight }

// InitialLoad reports whether page 1 is still being fetched.
func (p *Pager) InitialLoad() bool { return p.inFlight && p.next == 1 }

// Err returns the error of the last failed fetch, cleared by a success.
func (p *Pager) Err() error { return p.err }
