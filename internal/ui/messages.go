// Package ui provides the Bubble Tea TUI for ByteMe.
package ui

import (
	"time"

	"github.com/abelbrown/byteme/internal/feed"
)

// FeedLoaded is sent when a feed controller finishes a load.
type FeedLoaded struct {
	Variant feed.Variant
	State   feed.State
	More    bool // result of LoadMore rather than an initial load
}

// SettleTick fires once a slide transition's animation time has passed.
type SettleTick struct {
	Variant feed.Variant
}

// FrameTick advances the card spring animation.
type FrameTick struct{}

// ClockTick redraws relative times and expires toasts.
type ClockTick time.Time

// FollowDone is sent when a follow toggle completes.
type FollowDone struct {
	ChannelID string
	Following bool
	Err       error
}

// FollowLoaded is sent when the follow set has been (re)loaded.
type FollowLoaded struct {
	Err error
}

// SaveDone is sent when a save or unsave completes.
type SaveDone struct {
	ItemID  string
	Saved   bool // value the item should now carry
	Already bool // the backend already had it saved
	Err     error
}

// CategoriesLoaded is sent when the stored category selection is known.
type CategoriesLoaded struct {
	IDs []string
	Err error
}

// CategoriesSaved is sent after the category selection was updated.
type CategoriesSaved struct {
	IDs []string
	Err error
}
