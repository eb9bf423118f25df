package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/byteme/internal/model"
)

func TestPublishedLabel(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		item model.FeedItem
		want string
	}{
		{"relative", model.FeedItem{Published: now.Add(-2 * time.Hour)}, "2 hours ago"},
		{"unparsed falls back to raw", model.FeedItem{PublishedAt: "last week"}, "last week"},
		{"empty", model.FeedItem{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublishedLabel(tt.item, now); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderCardContents(t *testing.T) {
	item := model.FeedItem{
		Title:     "Agents in production",
		Summary:   "What broke and why.",
		Creator:   model.Creator{Name: "Ada"},
		KeyPoints: []string{"retries matter"},
		Sentiment: "positive",
		Industry:  "tech",
		Saved:     true,
		Platform:  model.PlatformYouTube,
	}
	out := RenderCard(item, cardFlags{Following: true}, 80, time.Now())
	for _, want := range []string{"Agents in production", "What broke", "Ada", "YouTube", "• retries matter", "positive", "#tech", "saved", "following"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}

	pending := RenderCard(item, cardFlags{Following: true, FollowPending: true}, 80, time.Now())
	if strings.Contains(pending, "✓ following") {
		t.Error("pending follow should not show as confirmed")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
		{"héllo wörld", 6, "héllo…"},
		{"abc", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestShiftLines(t *testing.T) {
	block := "a\nb\nc"
	if got := shiftLines(block, 2, 0); got != "\n\na\nb\nc" {
		t.Errorf("down = %q", got)
	}
	if got := shiftLines(block, -1, 0); got != "b\nc" {
		t.Errorf("up = %q", got)
	}
	if got := shiftLines(block, -5, 0); got != "" {
		t.Errorf("past top = %q", got)
	}
	if got := shiftLines(block, 1, 2); got != "\na" {
		t.Errorf("clipped = %q", got)
	}
}

func TestSplitIDs(t *testing.T) {
	got := splitIDs(" tech, ,ai ,")
	if len(got) != 2 || got[0] != "tech" || got[1] != "ai" {
		t.Errorf("splitIDs = %q", got)
	}
	if splitIDs("") != nil {
		t.Error("empty input should yield nil")
	}
}
