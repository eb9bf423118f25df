package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abelbrown/byteme/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// cardFlags are per-render facts not carried on the item itself.
type cardFlags struct {
	Following     bool
	FollowPending bool
}

// PublishedLabel renders a relative publish time, falling back to the raw
// timestamp when it could not be parsed.
func PublishedLabel(item model.FeedItem, now time.Time) string {
	if item.Published.IsZero() {
		return item.PublishedAt
	}
	return humanize.RelTime(item.Published, now, "ago", "from now")
}

// RenderCard renders one Byte as a bordered card width columns wide.
func RenderCard(item model.FeedItem, flags cardFlags, width int, now time.Time) string {
	inner := width - 4 // border + padding
	if inner < 20 {
		inner = 20
	}

	var lines []string

	// Header: platform, creator, follow state, time.
	header := PlatformBadge.Render(item.Platform.Label())
	if item.Creator.Name != "" {
		header += CreatorName.Render(truncate(item.Creator.Name, inner/2))
	}
	switch {
	case flags.FollowPending:
		header += " " + PendingBadge.Render("…")
	case flags.Following:
		header += " " + FollowingBadge.Render("✓ following")
	}
	if when := PublishedLabel(item, now); when != "" {
		gap := inner - lipgloss.Width(header) - lipgloss.Width(when)
		if gap < 1 {
			gap = 1
		}
		header += strings.Repeat(" ", gap) + Meta.Render(when)
	}
	lines = append(lines, header, "")

	lines = append(lines, CardTitle.Width(inner).Render(item.Title))
	if item.Summary != "" {
		lines = append(lines, "", CardSummary.Width(inner).Render(item.Summary))
	}

	if len(item.KeyPoints) > 0 {
		lines = append(lines, "")
		for _, kp := range item.KeyPoints {
			lines = append(lines, KeyPoint.Width(inner).Render("• "+kp))
		}
	}

	var footer []string
	if item.Industry != "" {
		footer = append(footer, Meta.Render("#"+item.Industry))
	}
	if item.Sentiment != "" {
		style, ok := Sentiment[item.Sentiment]
		if !ok {
			style = Meta
		}
		footer = append(footer, style.Render(item.Sentiment))
	}
	if item.Saved {
		footer = append(footer, SavedBadge.Render("★ saved"))
	}
	if len(footer) > 0 {
		lines = append(lines, "", strings.Join(footer, "  "))
	}

	return Card.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// RenderProfile renders the creator detail pane.
func RenderProfile(item model.FeedItem, flags cardFlags, width int) string {
	var b strings.Builder
	b.WriteString(DetailHeader.Render("Creator"))
	b.WriteString("\n")
	name := item.Creator.Name
	if name == "" {
		name = "Unknown creator"
	}
	fmt.Fprintf(&b, "%s\n", CreatorName.Render(name))
	fmt.Fprintf(&b, "%s %s\n", Meta.Render("Platform:"), item.Platform.Label())
	if item.Creator.ChannelID != "" {
		fmt.Fprintf(&b, "%s %s\n", Meta.Render("Channel:"), item.Creator.ChannelID)
	}
	switch {
	case flags.FollowPending:
		b.WriteString(PendingBadge.Render("Updating follow…"))
	case flags.Following:
		b.WriteString(FollowingBadge.Render("✓ Following") + Meta.Render("  (f to unfollow)"))
	default:
		b.WriteString(Meta.Render("Not following  (f to follow)"))
	}
	b.WriteString("\n\n")
	b.WriteString(Meta.Render("esc to return"))
	return Card.Width(width - 2).Render(b.String())
}

// RenderSource renders the original-content detail pane.
func RenderSource(item model.FeedItem, width int) string {
	var b strings.Builder
	b.WriteString(DetailHeader.Render("Source"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", CardTitle.Width(width-6).Render(item.Title))
	fmt.Fprintf(&b, "%s %s\n", Meta.Render("Platform:"), item.Platform.Label())
	if item.SourceURL != "" {
		fmt.Fprintf(&b, "%s %s\n", Meta.Render("Link:"), item.SourceURL)
	} else {
		b.WriteString(Meta.Render("No source link for this Byte") + "\n")
	}
	if item.ImageURL != "" {
		fmt.Fprintf(&b, "%s %s\n", Meta.Render("Image:"), item.ImageURL)
	}
	b.WriteString("\n")
	b.WriteString(Meta.Render("esc to return"))
	return Card.Width(width - 2).Render(b.String())
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// shiftLines moves a rendered block down (offset > 0) or up (offset < 0)
// within height lines, used for the slide animation.
func shiftLines(block string, offset, height int) string {
	lines := strings.Split(block, "\n")
	switch {
	case offset > 0:
		pad := make([]string, offset)
		lines = append(pad, lines...)
	case offset < 0:
		if -offset >= len(lines) {
			lines = nil
		} else {
			lines = lines[-offset:]
		}
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
