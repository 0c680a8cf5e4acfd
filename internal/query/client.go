// Package query is a small read-through cache for backend reads.
//
// Entries are addressed by hierarchical keys such as {"chatHistory", sid}.
// A fresh entry is served without I/O; a stale or invalidated one is
// refetched, with concurrent readers of the same key sharing one request.
// Writes never patch cached reads directly: they invalidate a key prefix and
// the next read refetches.
package query

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zhubert/chatmodal/internal/logger"
)

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultRetry      = 1
	DefaultRetryDelay = time.Second
)

// Key addresses a cache entry. Keys are compared element-wise.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether prefix matches the leading elements of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Options configure a Client.
type Options struct {
	StaleTime  time.Duration
	Retry      int
	RetryDelay time.Duration
	// Now is the clock, for tests.
	Now func() time.Time
}

type entry struct {
	key       Key
	data      any
	updatedAt time.Time
	hasData   bool
	stale     bool
}

// flight counts the running requests for one key. After Invalidate a new
// request may start while an older one is still out.
type flight struct {
	key     Key
	running int
}

// Client is the cache. It is safe for concurrent use and is meant to be
// shared by every component of one widget instance.
//
// Every key has a generation, bumped by Invalidate and Remove. A request
// remembers the generation it started under and its result is only stored
// if no invalidation happened since.
type Client struct {
	mu       sync.Mutex
	entries  map[string]*entry
	gens     map[string]uint64
	inflight map[string]*flight
	seq      uint64
	group    singleflight.Group
	opts     Options
	log      *slog.Logger
}

// NewClient returns a Client. Zero option fields take the defaults.
func NewClient(opts Options) *Client {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{
		entries:  make(map[string]*entry),
		gens:     make(map[string]uint64),
		inflight: make(map[string]*flight),
		opts:     opts,
		log:      logger.WithComponent("query"),
	}
}

// Fetch returns the cached value for key when fresh, otherwise runs fn.
// On failure the last good value (if any) is returned with the error.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	v, err := c.fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	out, _ := v.(T)
	return out, err
}

// Peek returns the cached value for key regardless of freshness.
func Peek[T any](c *Client, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key.String()]
	if !ok || !e.hasData {
		return zero, false
	}
	v, ok := e.data.(T)
	return v, ok
}

func (c *Client) fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	k := key.String()

	c.mu.Lock()
	e := c.entries[k]
	if e != nil && e.hasData && !e.stale && c.opts.Now().Sub(e.updatedAt) < c.opts.StaleTime {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	v, err, shared := c.group.Do(k, func() (any, error) {
		gen := c.begin(key)
		defer c.end(k)
		data, err := c.runWithRetry(ctx, key, fn)
		if err != nil {
			return nil, err
		}
		c.store(key, data, gen)
		return data, nil
	})
	if shared {
		c.log.Debug("joined in-flight fetch", "key", k)
	}
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e := c.entries[k]; e != nil && e.hasData {
			return e.data, err
		}
		return nil, err
	}
	return v, nil
}

func (c *Client) runWithRetry(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.Retry; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying fetch", "key", key.String(), "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(c.opts.RetryDelay):
			}
		}
		data, err := fn(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	c.log.Warn("fetch failed", "key", key.String(), "error", lastErr)
	return nil, lastErr
}

// begin registers a request for key and returns the generation it runs
// under.
func (c *Client) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key.String()
	f := c.inflight[k]
	if f == nil {
		f = &flight{key: append(Key(nil), key...)}
		c.inflight[k] = f
	}
	f.running++
	return c.gens[k]
}

func (c *Client) end(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f := c.inflight[k]; f != nil {
		if f.running--; f.running <= 0 {
			delete(c.inflight, k)
		}
	}
}

// store records data fetched under generation gen. A result that an
// Invalidate or Remove overtook is dropped, whether or not the key had an
// entry, and reports false.
func (c *Client) store(key Key, data any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key.String()
	if c.gens[k] != gen {
		c.log.Debug("dropped superseded result", "key", k)
		return false
	}
	e := c.entries[k]
	if e == nil {
		e = &entry{key: append(Key(nil), key...)}
		c.entries[k] = e
	}
	e.data = data
	e.hasData = true
	e.stale = false
	e.updatedAt = c.opts.Now()
	return true
}

// Set stores data under key as if it had just been fetched.
func (c *Client) Set(key Key, data any) {
	c.mu.Lock()
	gen := c.gens[key.String()]
	c.mu.Unlock()
	c.store(key, data, gen)
}

// bumpLocked moves every key under prefix, cached or in flight, to a new
// generation and detaches running requests so the next Fetch starts its
// own. It returns the matching cache entries.
func (c *Client) bumpLocked(prefix Key) []string {
	c.seq++
	for k, f := range c.inflight {
		if f.key.HasPrefix(prefix) {
			c.gens[k] = c.seq
			c.group.Forget(k)
		}
	}
	var matched []string
	for k, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			c.gens[k] = c.seq
			c.group.Forget(k)
			matched = append(matched, k)
		}
	}
	return matched
}

// Invalidate marks every entry whose key starts with prefix as stale so the
// next Fetch refetches it, and discards the results of requests for those
// keys that are still running. Cached data stays available to Peek and as
// the fallback for a failed refetch. It returns the number of entries
// marked.
func (c *Client) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := c.bumpLocked(prefix)
	for _, k := range matched {
		c.entries[k].stale = true
	}
	c.log.Debug("invalidated", "prefix", prefix.String(), "entries", len(matched))
	return len(matched)
}

// Remove drops every entry whose key starts with prefix.
// Requests still running for those keys are discarded as in Invalidate.
func (c *Client) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := c.bumpLocked(prefix)
	for _, k := range matched {
		delete(c.entries, k)
	}
	return len(matched)
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
