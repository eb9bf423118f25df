// Package feed pages through a backend feed, serving the first window
// from a feedcache.Cache when it is fresh.
//
// # Thread Safety
//
// Controller is safe for concurrent use. Network calls happen without
// the lock held. At most one initial load and one load-more are in
// flight per controller; each request carries the generation it was
// issued under, and a response that arrives after the filter changed
// or a refresh was issued is dropped instead of applied.
package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/feedcache"
	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/model"
	"github.com/abelbrown/byteme/internal/notify"
)

// State is an immutable snapshot of a Controller.
type State struct {
	Variant     Variant
	Key         string
	Items       []model.FeedItem
	Offset      int
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Err         error
	// ListID changes whenever Items is replaced rather than appended to.
	ListID uint64
	// FromCache is true when the current list was adopted from the cache.
	FromCache bool
}

// Controller pages through one feed variant.
type Controller struct {
	variant  Variant
	source   Source
	cache    *feedcache.Cache
	pageSize int
	notifier notify.Notifier

	mu          sync.Mutex
	filter      Filter
	items       []model.FeedItem
	offset      int
	hasMore     bool
	loading     bool
	loadingMore bool
	err         error
	gen         uint64
	listID      uint64
	fromCache   bool
}

// Config wires a Controller.
type Config struct {
	Variant  Variant
	Source   Source
	Cache    *feedcache.Cache // required; one per variant
	PageSize int              // <= 0 uses Variant.DefaultPageSize
	Notifier notify.Notifier  // nil discards
}

// New creates a Controller.
func New(cfg Config) *Controller {
	size := cfg.PageSize
	if size <= 0 {
		size = cfg.Variant.DefaultPageSize()
	}
	n := cfg.Notifier
	if n == nil {
		n = notify.Discard{}
	}
	return &Controller{
		variant:  cfg.Variant,
		source:   cfg.Source,
		cache:    cfg.Cache,
		pageSize: size,
		notifier: n,
		hasMore:  true,
	}
}

// Variant returns the feed variant.
func (c *Controller) Variant() Variant {
	return c.variant
}

// PageSize returns the page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// SetFilter switches the active filter. The visible list is cleared and
// any in-flight response for the previous filter will be discarded.
// Call LoadInitial afterwards.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.Categories = append([]string(nil), f.Categories...)
	c.filter = f
	c.gen++
	c.listID++
	c.items = nil
	c.offset = 0
	c.hasMore = true
	c.loading = false
	c.loadingMore = false
	c.err = nil
	c.fromCache = false
}

// Filter returns the active filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.filter
	f.Categories = append([]string(nil), f.Categories...)
	return f
}

// LoadInitial shows the first window for the current filter, from cache
// when fresh, otherwise from the network.
func (c *Controller) LoadInitial(ctx context.Context) State {
	return c.loadInitial(ctx, false)
}

// Refresh is LoadInitial that ignores and replaces any cached entry.
func (c *Controller) Refresh(ctx context.Context) State {
	return c.loadInitial(ctx, true)
}

func (c *Controller) loadInitial(ctx context.Context, force bool) State {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loadingMore = false
	key := c.variant.Key(c.filter)

	if !force {
		if e, ok := c.cache.Get(key); ok {
			c.items = e.Items
			c.offset = e.Offset
			c.hasMore = e.HasMore
			c.loading = false
			c.err = nil
			c.listID++
			c.fromCache = true
			st := c.stateLocked()
			c.mu.Unlock()
			logging.Debug("feed served from cache", "variant", c.variant, "key", key, "items", len(e.Items))
			return st
		}
	}

	c.loading = true
	c.err = nil
	filter := c.filter
	c.mu.Unlock()

	page, err := c.source.Page(ctx, filter, 0, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		logging.Debug("discarding superseded initial load", "variant", c.variant, "key", key)
		return c.stateLocked()
	}
	c.loading = false

	// A failed load keeps the visible list together with its offset so
	// LoadMore continues where that list ends.
	if err != nil {
		c.fail("load", err)
		return c.stateLocked()
	}

	c.items = uniqueByID(nil, page.Items)
	c.offset = c.pageSize
	c.hasMore = c.hasMoreFrom(page)
	c.listID++
	c.fromCache = false
	c.cache.Put(key, feedcache.Entry{Items: c.items, Offset: c.offset, HasMore: c.hasMore})

	logging.Debug("feed loaded", "variant", c.variant, "key", key, "items", len(c.items), "has_more", c.hasMore)
	return c.stateLocked()
}

// LoadMore appends the next page. It is a no-op when there is nothing
// more to load or a load is already running.
func (c *Controller) LoadMore(ctx context.Context) State {
	c.mu.Lock()
	if !c.hasMore || c.loadingMore || c.loading {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	c.loadingMore = true
	gen := c.gen
	offset := c.offset
	filter := c.filter
	key := c.variant.Key(filter)
	c.mu.Unlock()

	page, err := c.source.Page(ctx, filter, offset, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		logging.Debug("discarding superseded page", "variant", c.variant, "key", key, "offset", offset)
		return c.stateLocked()
	}
	c.loadingMore = false

	if err != nil {
		c.fail("load more", err)
		return c.stateLocked()
	}

	before := len(c.items)
	c.items = uniqueByID(c.items, page.Items)
	if dropped := len(page.Items) - (len(c.items) - before); dropped > 0 {
		logging.Debug("dropped duplicate items", "variant", c.variant, "count", dropped)
	}
	c.offset += c.pageSize
	c.hasMore = c.hasMoreFrom(page)

	entry := feedcache.Entry{Items: c.items, Offset: c.offset, HasMore: c.hasMore}
	if !c.cache.Update(key, func(feedcache.Entry) feedcache.Entry { return entry }) {
		c.cache.Put(key, entry)
	}
	return c.stateLocked()
}

// Mutate applies fn to every visible item matching match, mirrors the
// change into the cache entry, and returns how many items changed.
func (c *Controller) Mutate(match func(model.FeedItem) bool, fn func(*model.FeedItem)) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	items := make([]model.FeedItem, len(c.items))
	copy(items, c.items)
	for i := range items {
		if match(items[i]) {
			fn(&items[i])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	c.items = items

	c.cache.Update(c.variant.Key(c.filter), func(e feedcache.Entry) feedcache.Entry {
		for i := range e.Items {
			if match(e.Items[i]) {
				fn(&e.Items[i])
			}
		}
		return e
	})
	return n
}

// UpdateItem applies fn to the item with the given id.
func (c *Controller) UpdateItem(id string, fn func(*model.FeedItem)) bool {
	return c.Mutate(func(it model.FeedItem) bool { return it.ID == id }, fn) > 0
}

// Remove drops an item that has left the backend collection (an unsave
// in the saved feed). The next offset shifts back by one so the following
// page does not skip an item. The list identity changes.
func (c *Controller) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, it := range c.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	items := make([]model.FeedItem, 0, len(c.items)-1)
	items = append(items, c.items[:idx]...)
	items = append(items, c.items[idx+1:]...)
	c.items = items
	if c.offset > 0 {
		c.offset--
	}
	c.listID++

	offset := c.offset
	c.cache.Update(c.variant.Key(c.filter), func(e feedcache.Entry) feedcache.Entry {
		e.Items = items
		e.Offset = offset
		return e
	})
	return true
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		Variant:     c.variant,
		Key:         c.variant.Key(c.filter),
		Items:       append([]model.FeedItem(nil), c.items...),
		Offset:      c.offset,
		HasMore:     c.hasMore,
		Loading:     c.loading,
		LoadingMore: c.loadingMore,
		Err:         c.err,
		ListID:      c.listID,
		FromCache:   c.fromCache,
	}
}

// fail records err and surfaces it. Caller must hold c.mu.
func (c *Controller) fail(op string, err error) {
	c.err = fmt.Errorf("%s %s feed: %w", op, c.variant, err)
	logging.Error("feed request failed", "variant", c.variant, "op", op, "error", err)
	c.notifier.Notify(notify.LevelError, api.UserMessage(err))
}

func (c *Controller) hasMoreFrom(p api.Page) bool {
	if c.variant.reportsHasMore() && p.HasMoreSet {
		return p.HasMore
	}
	return p.Count() == c.pageSize
}

// uniqueByID appends the items of page whose ids are not already in
// existing (or earlier in page) to existing.
func uniqueByID(existing, page []model.FeedItem) []model.FeedItem {
	seen := make(map[string]struct{}, len(existing)+len(page))
	for _, it := range existing {
		seen[it.ID] = struct{}{}
	}
	out := append([]model.FeedItem(nil), existing...)
	for _, it := range page {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
