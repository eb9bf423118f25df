package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/config"
	"github.com/abelbrown/byteme/internal/feed"
	"github.com/abelbrown/byteme/internal/store"
)

type backend struct {
	srv         *httptest.Server
	feedHits    atomic.Int32
	followHits  atomic.Int32
	lastAuthHdr atomic.Value
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/generic/feed", func(w http.ResponseWriter, r *http.Request) {
		b.feedHits.Add(1)
		b.lastAuthHdr.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "a", "title": "First"},
				{"id": "b", "title": "Second"},
			},
		})
	})
	mux.HandleFunc("/user/followed-channels", func(w http.ResponseWriter, r *http.Request) {
		b.followHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"channel_ids": []string{"UC1"}})
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.API.RequestsPerSecond = 0
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func openRuntime(t *testing.T, cfg *config.Config) *Runtime {
	t.Helper()
	r, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpenBuildsEveryVariant(t *testing.T) {
	b := newBackend(t)
	r := openRuntime(t, testConfig(t, b.srv.URL))

	for _, v := range Variants {
		ctrl := r.Feeds[v]
		if ctrl == nil {
			t.Fatalf("no controller for %v", v)
		}
		if ctrl.PageSize() != v.DefaultPageSize() {
			t.Errorf("%v page size = %d, want %d", v, ctrl.PageSize(), v.DefaultPageSize())
		}
		if r.Cache(v) == nil {
			t.Errorf("no cache for %v", v)
		}
	}
	if r.SignedIn() {
		t.Error("fresh runtime should be signed out")
	}
}

func TestGeneralFeedPersistsSnapshot(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	r := openRuntime(t, cfg)

	st := r.Feeds[feed.General].LoadInitial(context.Background())
	if st.Err != nil {
		t.Fatalf("load: %v", st.Err)
	}
	if len(st.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(st.Items))
	}
	if n, _ := r.Store.SnapshotCount(); n != 1 {
		t.Errorf("snapshots = %d, want 1", n)
	}
	if got := b.lastAuthHdr.Load(); got != "" {
		t.Errorf("anonymous feed sent Authorization %q", got)
	}

	// A second runtime over the same data dir is served from disk.
	r.Close()
	r2 := openRuntime(t, cfg)
	st = r2.Feeds[feed.General].LoadInitial(context.Background())
	if !st.FromCache || len(st.Items) != 2 {
		t.Errorf("restart not served from snapshot: fromCache=%v items=%d", st.FromCache, len(st.Items))
	}
	if b.feedHits.Load() != 1 {
		t.Errorf("feed fetched %d times, want 1", b.feedHits.Load())
	}
}

func TestSignInPersistsAcrossRestart(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	r := openRuntime(t, cfg)

	if err := r.SignIn("tok"); err != nil {
		t.Fatal(err)
	}
	if !r.SignedIn() {
		t.Fatal("not signed in")
	}
	r.Close()

	r2 := openRuntime(t, cfg)
	if r2.Session.Token() != "tok" {
		t.Errorf("token = %q after restart", r2.Session.Token())
	}

	if err := r2.SignOut(); err != nil {
		t.Fatal(err)
	}
	if r2.SignedIn() {
		t.Error("still signed in")
	}
	if _, ok, _ := r2.Store.Get(store.KeySessionToken); ok {
		t.Error("token still stored")
	}
}

func TestEnvTokenWins(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	r := openRuntime(t, cfg)
	r.SignIn("stored")
	r.Close()

	cfg.API.Token = "from-env"
	r2 := openRuntime(t, cfg)
	if r2.Session.Token() != "from-env" {
		t.Errorf("token = %q, want from-env", r2.Session.Token())
	}
}

func TestSignInRejectsEmpty(t *testing.T) {
	b := newBackend(t)
	r := openRuntime(t, testConfig(t, b.srv.URL))
	if err := r.SignIn(""); err == nil {
		t.Error("expected error")
	}
}

func TestBootstrapLoadsFollowSet(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	cfg.API.Token = "tok"
	r := openRuntime(t, cfg)

	if err := r.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !r.Follow.Loaded() || !r.Follow.IsFollowing("UC1") {
		t.Errorf("follow set not loaded: %v", r.Follow.Following())
	}
}

func TestBootstrapSignedOutSkipsFollow(t *testing.T) {
	b := newBackend(t)
	r := openRuntime(t, testConfig(t, b.srv.URL))
	if err := r.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.followHits.Load() != 0 {
		t.Error("follow endpoint called while signed out")
	}
}

func TestBootstrapExpiredSessionNotifies(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	cfg.API.Token = "stale"
	r := openRuntime(t, cfg)

	err := r.Bootstrap(context.Background())
	if !api.IsUnauthorized(err) {
		t.Errorf("Bootstrap error = %v, want unauthorized", err)
	}
	if _, ok := r.Notices.Latest(); !ok {
		t.Error("expected a session-expired notice")
	}
}

func TestBootstrapReportsFailureAfterBothTasks(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	cfg.API.Token = "tok"
	r := openRuntime(t, cfg)
	r.Store.Close()

	err := r.Bootstrap(context.Background())
	if err == nil || !strings.Contains(err.Error(), "prune snapshots") {
		t.Errorf("Bootstrap error = %v, want prune failure", err)
	}
	if !r.Follow.Loaded() {
		t.Error("follow load should still complete when pruning fails")
	}
}

func TestAdminTokenSources(t *testing.T) {
	b := newBackend(t)
	cfg := testConfig(t, b.srv.URL)
	r := openRuntime(t, cfg)

	if r.AdminToken() != "" {
		t.Errorf("AdminToken = %q", r.AdminToken())
	}
	r.Store.Set(store.KeyAdminToken, "stored-admin")
	if r.AdminToken() != "stored-admin" {
		t.Errorf("AdminToken = %q", r.AdminToken())
	}
	cfg.API.AdminToken = "env-admin"
	if r.AdminToken() != "env-admin" {
		t.Errorf("AdminToken = %q", r.AdminToken())
	}
}

func TestUIDeps(t *testing.T) {
	b := newBackend(t)
	r := openRuntime(t, testConfig(t, b.srv.URL))
	d := r.UIDeps()
	if d.Follow == nil || d.Saver == nil || d.Categories == nil || d.Notices == nil || d.Config == nil {
		t.Errorf("incomplete deps: %+v", d)
	}
	if len(d.Feeds) != len(Variants) {
		t.Errorf("feeds = %d", len(d.Feeds))
	}
	if d.SignedIn() {
		t.Error("SignedIn should be false")
	}
}
