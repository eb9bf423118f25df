package model

import "strings"

// Platform identifies where a Byte's underlying content was published.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
	PlatformOther    Platform = "other"
)

// ParsePlatform normalizes a backend platform string. Matching is
// case-insensitive; "x" is an alias for twitter. Anything unrecognized
// maps to PlatformOther.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "youtube", "yt":
		return PlatformYouTube
	case "twitter", "x":
		return PlatformTwitter
	case "linkedin":
		return PlatformLinkedIn
	default:
		return PlatformOther
	}
}

// Label returns a short display label.
func (p Platform) Label() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformTwitter:
		return "X"
	case PlatformLinkedIn:
		return "LinkedIn"
	default:
		return "Web"
	}
}
