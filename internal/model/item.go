// Package model provides the data types shared across ByteMe.
//
// FeedItem is the normalized shape every view consumes. Raw backend
// records are converted with FromRaw; nothing else should construct
// FeedItems from wire data.
package model

import "time"

// Creator is the influencer/channel a Byte is attributed to.
type Creator struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChannelID string `json:"channel_id"`
	Followed  bool   `json:"followed"`
}

// FeedItem is a single Byte.
// ID is stable across fetches and is the only de-duplication key.
type FeedItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	ImageURL    string    `json:"image_url"`
	Industry    string    `json:"industry"`
	Creator     Creator   `json:"creator"`
	Saved       bool      `json:"saved"`
	Liked       bool      `json:"liked"`
	KeyPoints   []string  `json:"key_points"`
	Sentiment   string    `json:"sentiment"`
	PublishedAt string    `json:"published_at"` // ISO-8601 as delivered
	Published   time.Time `json:"-"`
	Platform    Platform  `json:"platform"`
	SourceURL   string    `json:"source_url"`
}

// Category is a topic users can filter the general feed by.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Influencer is an admin-managed creator record.
type Influencer struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	ChannelID string   `json:"channel_id"`
	Platform  Platform `json:"platform"`
	Active    bool     `json:"active"`
}

// Post is an admin-managed piece of source content.
type Post struct {
	ID           string `json:"id,omitempty"`
	InfluencerID string `json:"influencer_id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
}

// PromptTemplate is an admin-managed summarization prompt.
type PromptTemplate struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// IDs returns the identifiers of items in order.
func IDs(items []FeedItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
