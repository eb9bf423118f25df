package api

import (
	"context"
	"net/http"

	"github.com/abelbrown/byteme/internal/model"
)

// Page is one page of a feed.
// HasMore is only meaningful when HasMoreSet is true; only the saved
// collection endpoint reports it. Returned is the number of records the
// backend sent, including any dropped by the transform.
type Page struct {
	Items      []model.FeedItem
	Returned   int
	HasMore    bool
	HasMoreSet bool
}

// Count is the number of records the backend returned for this page.
func (p Page) Count() int {
	return max(p.Returned, len(p.Items))
}

type pageRequest struct {
	Categories []string `json:"categories,omitempty"`
	Query      string   `json:"query,omitempty"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
}

type pageResponse struct {
	Data    []model.RawItem `json:"data"`
	Feeds   []model.RawItem `json:"feeds"`
	HasMore *bool           `json:"has_more"`
}

func (r pageResponse) page() Page {
	raw := r.Data
	if len(raw) == 0 {
		raw = r.Feeds
	}
	p := Page{Items: model.FromRawItems(raw), Returned: len(raw)}
	if r.HasMore != nil {
		p.HasMore = *r.HasMore
		p.HasMoreSet = true
	}
	return p
}

// GeneralFeed fetches the topic feed. With categories selected it uses
// the explore endpoint; otherwise the generic one. A session token is
// sent when present but not required.
func (c *Client) GeneralFeed(ctx context.Context, categories []string, offset, limit int) (Page, error) {
	path := "/generic/feed"
	if len(categories) > 0 {
		path = "/explore/feed"
	}
	var resp pageResponse
	req := pageRequest{Categories: categories, Offset: offset, Limit: limit}
	if err := c.doWithToken(ctx, http.MethodPost, path, c.optionalToken(), req, &resp); err != nil {
		return Page{}, err
	}
	return resp.page(), nil
}

// FollowedFeed fetches Bytes from followed creators.
func (c *Client) FollowedFeed(ctx context.Context, offset, limit int) (Page, error) {
	var resp pageResponse
	req := pageRequest{Offset: offset, Limit: limit}
	if err := c.do(ctx, http.MethodPost, "/user/followed/feeds", true, req, &resp); err != nil {
		return Page{}, err
	}
	return resp.page(), nil
}

// SavedFeed fetches the saved collection. The response carries has_more.
func (c *Client) SavedFeed(ctx context.Context, offset, limit int) (Page, error) {
	var resp pageResponse
	req := pageRequest{Offset: offset, Limit: limit}
	if err := c.do(ctx, http.MethodPost, "/user/saved-feeds-collection", true, req, &resp); err != nil {
		return Page{}, err
	}
	p := resp.page()
	for i := range p.Items {
		p.Items[i].Saved = true
	}
	return p, nil
}

// Search runs a free-text search over Bytes.
func (c *Client) Search(ctx context.Context, query string, offset, limit int) (Page, error) {
	var resp pageResponse
	req := pageRequest{Query: query, Offset: offset, Limit: limit}
	if err := c.doWithToken(ctx, http.MethodPost, "/search", c.optionalToken(), req, &resp); err != nil {
		return Page{}, err
	}
	return resp.page(), nil
}

// optionalToken attaches the session token when one exists.
func (c *Client) optionalToken() *string {
	t := c.tokens.Token()
	if t == "" {
		return nil
	}
	return &t
}
