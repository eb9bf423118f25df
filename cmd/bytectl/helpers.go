package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/app"
	"github.com/abelbrown/byteme/internal/config"
	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/model"
)

// openRuntime loads config, starts file logging, and opens the runtime,
// or fatals.
func openRuntime() *app.Runtime {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logging.Init(cfg.DataDir, cfg.LogLevel); err != nil {
		log.Fatalf("failed to init logging: %v", err)
	}
	rt, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open runtime: %v", err)
	}
	return rt
}

// commandContext is cancelled on interrupt or after the request timeout.
func commandContext(rt *app.Runtime) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, rt.Config.Timeout()+5*time.Second)
	return ctx, func() {
		cancel()
		stop()
	}
}

// fail prints a user-facing error and exits.
func fail(what string, err error) {
	logging.Error(what, "error", err)
	fmt.Fprintf(os.Stderr, "error: %s: %s\n", what, api.UserMessage(err))
	fmt.Fprintf(os.Stderr, "  (%v)\n", err)
	os.Exit(1)
}

// requireSignedIn exits when no session token is available.
func requireSignedIn(rt *app.Runtime) {
	if !rt.SignedIn() {
		fmt.Fprintln(os.Stderr, "error: not signed in")
		fmt.Fprintln(os.Stderr, "  run 'bytectl login --token ...' or export BYTEME_TOKEN=...")
		os.Exit(1)
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

// printItems renders feed items as an aligned table.
func printItems(items []model.FeedItem, offset int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tPLATFORM\tCREATOR\tTITLE\tFLAGS")
	for i, it := range items {
		var flags []string
		if it.Saved {
			flags = append(flags, "saved")
		}
		if it.Creator.Followed {
			flags = append(flags, "following")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			offset+i+1, it.ID, it.Platform.Label(), truncate(it.Creator.Name, 20), truncate(it.Title, 60), strings.Join(flags, ","))
	}
	w.Flush()
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
