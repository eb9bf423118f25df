package model

import (
	"net/url"
	"strings"
	"time"
)

// RawItem is a feed record as the backend delivers it. Field names vary
// between endpoints (explore vs saved collection), so alternates are kept
// side by side and resolved in FromRaw.
type RawItem struct {
	ID       string `json:"id"`
	MongoID  string `json:"_id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
	Industry string `json:"industry"`
	Category string `json:"category"`

	InfluencerID   string `json:"influencer_id"`
	InfluencerName string `json:"influencer_name"`
	ChannelID      string `json:"channel_id"`
	IsFollowed     bool   `json:"is_followed"`

	IsSaved   bool     `json:"is_saved"`
	IsLiked   bool     `json:"is_liked"`
	KeyPoints []string `json:"key_points"`
	Sentiment string   `json:"sentiment"`

	PublishedAt    string `json:"published_at"`
	CreatedAt      string `json:"created_at"`
	SourcePlatform string `json:"source_platform"`
	Platform       string `json:"platform"`
	SourceURL      string `json:"source_url"`
	URL            string `json:"url"`
}

// FromRaw converts a backend record to a FeedItem.
func FromRaw(r RawItem) FeedItem {
	id := firstNonEmpty(r.ID, r.MongoID)
	platform := ParsePlatform(firstNonEmpty(r.SourcePlatform, r.Platform))
	sourceURL := firstNonEmpty(r.SourceURL, r.URL)
	publishedAt := firstNonEmpty(r.PublishedAt, r.CreatedAt)

	keyPoints := make([]string, 0, len(r.KeyPoints))
	for _, kp := range r.KeyPoints {
		if kp = strings.TrimSpace(kp); kp != "" {
			keyPoints = append(keyPoints, kp)
		}
	}

	summary := strings.TrimSpace(r.Summary)
	if summary == "" && len(keyPoints) > 0 {
		summary = keyPoints[0]
	}

	image := firstNonEmpty(r.ImageURL, r.Image)
	if image == "" && platform == PlatformYouTube {
		if vid := youTubeVideoID(sourceURL); vid != "" {
			image = "https://i.ytimg.com/vi/" + vid + "/hqdefault.jpg"
		}
	}

	return FeedItem{
		ID:       id,
		Title:    strings.TrimSpace(r.Title),
		Summary:  summary,
		ImageURL: image,
		Industry: firstNonEmpty(r.Industry, r.Category),
		Creator: Creator{
			ID:        r.InfluencerID,
			Name:      r.InfluencerName,
			ChannelID: r.ChannelID,
			Followed:  r.IsFollowed,
		},
		Saved:       r.IsSaved,
		Liked:       r.IsLiked,
		KeyPoints:   keyPoints,
		Sentiment:   strings.ToLower(strings.TrimSpace(r.Sentiment)),
		PublishedAt: publishedAt,
		Published:   ParseTimestamp(publishedAt),
		Platform:    platform,
		SourceURL:   sourceURL,
	}
}

// FromRawItems converts a page of backend records. Records without an
// identifier cannot be de-duplicated and are dropped.
func FromRawItems(raw []RawItem) []FeedItem {
	items := make([]FeedItem, 0, len(raw))
	for _, r := range raw {
		it := FromRaw(r)
		if it.ID == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}

// ParseTimestamp accepts RFC3339 with or without fractional seconds and
// the zone-less form some endpoints emit. Returns the zero time on failure.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// youTubeVideoID extracts the video id from watch, short and embed URLs.
func youTubeVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return strings.TrimPrefix(u.Path, prefix)
			}
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
