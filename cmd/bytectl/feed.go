package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/byteme/internal/feed"
)

func parseVariant(s string) (feed.Variant, bool) {
	switch strings.ToLower(s) {
	case "general", "foryou", "for-you":
		return feed.General, true
	case "followed", "following":
		return feed.Followed, true
	case "saved":
		return feed.Saved, true
	case "search":
		return feed.Search, true
	}
	return 0, false
}

// loadPages loads the first window, bypassing the cache when refresh is
// set, then follows up to pages-1 more pages.
func loadPages(ctx context.Context, ctrl *feed.Controller, refresh bool, pages int) feed.State {
	var st feed.State
	if refresh {
		st = ctrl.Refresh(ctx)
	} else {
		st = ctrl.LoadInitial(ctx)
	}
	for i := 1; i < pages && st.Err == nil && st.HasMore; i++ {
		st = ctrl.LoadMore(ctx)
	}
	return st
}

func runFeed() {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	variantName := fs.String("variant", "general", "Feed: general, followed, saved, search")
	categories := fs.String("categories", "", "Comma-separated category ids (general only)")
	query := fs.String("query", "", "Search query (search only)")
	pages := fs.Int("pages", 1, "Number of pages to load")
	refresh := fs.Bool("refresh", false, "Ignore cached pages")
	asJSON := fs.Bool("json", false, "Print items as JSON")
	fs.Parse(os.Args[1:])

	v, ok := parseVariant(*variantName)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown variant %q\n", *variantName)
		os.Exit(1)
	}
	if v == feed.Search && strings.TrimSpace(*query) == "" {
		if fs.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "usage: bytectl feed --variant search --query <text>")
			os.Exit(1)
		}
		*query = strings.Join(fs.Args(), " ")
	}

	rt := openRuntime()
	defer rt.Close()

	if v == feed.Followed || v == feed.Saved {
		requireSignedIn(rt)
	}

	ctx, cancel := commandContext(rt)
	defer cancel()

	ctrl := rt.Feeds[v]
	switch v {
	case feed.General:
		cats := splitList(*categories)
		if *categories == "" {
			stored, err := rt.Prefs.Load(ctx)
			if err == nil {
				cats = stored
			}
		}
		ctrl.SetFilter(feed.Filter{Categories: cats})
	case feed.Search:
		ctrl.SetFilter(feed.Filter{Query: *query})
	}

	st := loadPages(ctx, ctrl, *refresh, *pages)
	if st.Err != nil {
		fail("load "+v.String()+" feed", st.Err)
	}

	if *asJSON {
		printJSON(st.Items)
		return
	}

	source := "network"
	if st.FromCache {
		source = "cache"
	}
	fmt.Printf("%s feed: %d items (from %s, more: %v)\n\n", v, len(st.Items), source, st.HasMore)
	printItems(st.Items, 0)
}
