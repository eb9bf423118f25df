package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/feed"
	"github.com/abelbrown/byteme/internal/feedcache"
	"github.com/abelbrown/byteme/internal/model"
)

func countingSource(offsets *[]int) feed.Source {
	return feed.SourceFunc(func(_ context.Context, _ feed.Filter, offset, limit int) (api.Page, error) {
		*offsets = append(*offsets, offset)
		items := make([]model.FeedItem, limit)
		for i := range items {
			items[i] = model.FeedItem{ID: fmt.Sprintf("i%d", offset+i)}
		}
		return api.Page{Items: items}, nil
	})
}

func TestLoadPages(t *testing.T) {
	tests := []struct {
		name        string
		warm        bool
		refresh     bool
		pages       int
		wantOffsets []int
		wantItems   int
	}{
		{"cold cache", false, false, 1, []int{0}, 5},
		{"warm cache skips network", true, false, 1, nil, 5},
		{"refresh on cold cache fetches once", false, true, 1, []int{0}, 5},
		{"refresh on warm cache fetches", true, true, 1, []int{0}, 5},
		{"extra pages", false, false, 3, []int{0, 5, 10}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var offsets []int
			cache := feedcache.New("general")
			if tt.warm {
				items := make([]model.FeedItem, 5)
				for i := range items {
					items[i] = model.FeedItem{ID: fmt.Sprintf("c%d", i)}
				}
				cache.Put("", feedcache.Entry{Items: items, Offset: 5, HasMore: true})
			}
			ctrl := feed.New(feed.Config{Variant: feed.General, Source: countingSource(&offsets), Cache: cache})

			st := loadPages(context.Background(), ctrl, tt.refresh, tt.pages)

			if diff := cmp.Diff(tt.wantOffsets, offsets); diff != "" {
				t.Errorf("fetch offsets (-want +got):\n%s", diff)
			}
			if len(st.Items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(st.Items), tt.wantItems)
			}
		})
	}
}
