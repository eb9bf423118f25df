package feed

import (
	"context"
	"strings"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/feedcache"
)

// Variant selects which backend feed a Controller pages through.
type Variant int

const (
	General Variant = iota
	Followed
	Saved
	Search
)

func (v Variant) String() string {
	switch v {
	case Followed:
		return "followed"
	case Saved:
		return "saved"
	case Search:
		return "search"
	default:
		return "general"
	}
}

// DefaultPageSize is the page size each variant uses unless configured.
func (v Variant) DefaultPageSize() int {
	switch v {
	case Saved, Search:
		return 20
	default:
		return 5
	}
}

// reportsHasMore is true for variants whose backend returns an explicit
// has_more flag. The others infer it from a full page.
func (v Variant) reportsHasMore() bool {
	return v == Saved
}

// Filter is the active selection for a controller. Categories apply to
// General, Query to Search; the other variants ignore both.
type Filter struct {
	Categories []string
	Query      string
}

// Key returns the cache signature of f for variant v.
func (v Variant) Key(f Filter) string {
	switch v {
	case Followed:
		return feedcache.KeyFollowed
	case Saved:
		return feedcache.KeySaved
	case Search:
		return "q:" + strings.ToLower(strings.TrimSpace(f.Query))
	default:
		return feedcache.Key(f.Categories)
	}
}

// Source fetches one page of a feed.
type Source interface {
	Page(ctx context.Context, f Filter, offset, limit int) (api.Page, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, f Filter, offset, limit int) (api.Page, error)

func (fn SourceFunc) Page(ctx context.Context, f Filter, offset, limit int) (api.Page, error) {
	return fn(ctx, f, offset, limit)
}

// ClientSource returns the api.Client endpoint backing variant v.
func ClientSource(c *api.Client, v Variant) Source {
	switch v {
	case Followed:
		return SourceFunc(func(ctx context.Context, _ Filter, offset, limit int) (api.Page, error) {
			return c.FollowedFeed(ctx, offset, limit)
		})
	case Saved:
		return SourceFunc(func(ctx context.Context, _ Filter, offset, limit int) (api.Page, error) {
			return c.SavedFeed(ctx, offset, limit)
		})
	case Search:
		return SourceFunc(func(ctx context.Context, f Filter, offset, limit int) (api.Page, error) {
			return c.Search(ctx, f.Query, offset, limit)
		})
	default:
		return SourceFunc(func(ctx context.Context, f Filter, offset, limit int) (api.Page, error) {
			return c.GeneralFeed(ctx, f.Categories, offset, limit)
		})
	}
}
