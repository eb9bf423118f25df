// Package app wires configuration, storage, the backend client and the
// feed controllers into one Runtime shared by the byteme and bytectl
// commands.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/config"
	"github.com/abelbrown/byteme/internal/feed"
	"github.com/abelbrown/byteme/internal/feedcache"
	"github.com/abelbrown/byteme/internal/follow"
	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/notify"
	"github.com/abelbrown/byteme/internal/prefs"
	"github.com/abelbrown/byteme/internal/store"
	"github.com/abelbrown/byteme/internal/ui"
)

// snapshotRetention is how long stored feed pages survive on disk. They
// are only served while younger than the cache TTL; older rows are dead
// weight.
const snapshotRetention = 7 * 24 * time.Hour

// Variants are the feeds the Runtime builds controllers for.
var Variants = []feed.Variant{feed.General, feed.Followed, feed.Saved, feed.Search}

// Runtime holds every long-lived collaborator.
type Runtime struct {
	Config  *config.Config
	Store   *store.Store
	Session *api.Session
	Client  *api.Client
	Notices *notify.Center
	Feeds   map[feed.Variant]*feed.Controller
	Follow  *follow.Controller
	Prefs   *prefs.Service

	caches map[feed.Variant]*feedcache.Cache
	now    func() time.Time
}

// Open builds a Runtime from cfg. The caller must Close it.
func Open(cfg *config.Config) (*Runtime, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return New(cfg, st), nil
}

// New builds a Runtime over an already open store.
func New(cfg *config.Config, st *store.Store) *Runtime {
	token := cfg.API.Token
	if token == "" {
		token = st.Token()
	}
	session := api.NewSession(token)

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithRateLimit(cfg.API.RequestsPerSecond),
		api.WithTokenSource(session),
	)

	r := &Runtime{
		Config:  cfg,
		Store:   st,
		Session: session,
		Client:  client,
		Notices: notify.NewCenter(100),
		Feeds:   make(map[feed.Variant]*feed.Controller),
		caches:  make(map[feed.Variant]*feedcache.Cache),
		now:     time.Now,
	}

	for _, v := range Variants {
		opts := []feedcache.Option{feedcache.WithTTL(cfg.CacheTTL())}
		if v != feed.Search {
			opts = append(opts, feedcache.WithPersister(st))
		}
		cache := feedcache.New(v.String(), opts...)
		r.caches[v] = cache
		r.Feeds[v] = feed.New(feed.Config{
			Variant:  v,
			Source:   feed.ClientSource(client, v),
			Cache:    cache,
			PageSize: pageSize(cfg, v),
			Notifier: r.Notices,
		})
	}

	r.Follow = follow.New(client, r.Notices)
	r.Prefs = prefs.New(st, client)
	return r
}

func pageSize(cfg *config.Config, v feed.Variant) int {
	switch v {
	case feed.Followed:
		return cfg.Feed.FollowedPageSize
	case feed.Saved:
		return cfg.Feed.SavedPageSize
	case feed.Search:
		return cfg.Feed.SearchPageSize
	default:
		return cfg.Feed.GeneralPageSize
	}
}

// Close releases the store.
func (r *Runtime) Close() error {
	return r.Store.Close()
}

// SignedIn reports whether a session token is present.
func (r *Runtime) SignedIn() bool {
	return r.Client.HasToken()
}

// SignIn stores token and uses it for subsequent calls.
func (r *Runtime) SignIn(token string) error {
	if token == "" {
		return fmt.Errorf("sign in: empty token")
	}
	r.Session.Set(token)
	if err := r.Store.Set(store.KeySessionToken, token); err != nil {
		return err
	}
	logging.Info("Signed in")
	return nil
}

// SignOut forgets the session token and any per-user cached pages.
func (r *Runtime) SignOut() error {
	r.Session.Set("")
	if err := r.Store.Delete(store.KeySessionToken); err != nil {
		return err
	}
	for _, v := range []feed.Variant{feed.Followed, feed.Saved} {
		r.caches[v].Delete(v.Key(feed.Filter{}))
		if _, err := r.Store.ClearSnapshots(v.String()); err != nil {
			return err
		}
	}
	logging.Info("Signed out")
	return nil
}

// AdminToken returns the admin token from the environment or the store.
func (r *Runtime) AdminToken() string {
	if r.Config.API.AdminToken != "" {
		return r.Config.API.AdminToken
	}
	v, _, _ := r.Store.Get(store.KeyAdminToken)
	return v
}

// Admin returns a client for the admin endpoints.
func (r *Runtime) Admin() *api.AdminClient {
	return r.Client.Admin(api.NewSession(r.AdminToken()))
}

// Cache returns the feed cache for v.
func (r *Runtime) Cache(v feed.Variant) *feedcache.Cache {
	return r.caches[v]
}

// Bootstrap runs startup housekeeping concurrently: stale snapshot
// pruning and the initial follow set load. Both always run to completion;
// the first failure is returned so the caller can report it. An expired
// session is also surfaced as a notice.
func (r *Runtime) Bootstrap(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		n, err := r.Store.PruneSnapshots(r.now().Add(-snapshotRetention))
		if err != nil {
			return err
		}
		if n > 0 {
			logging.Info("Pruned stale feed snapshots", "count", n)
		}
		return nil
	})

	g.Go(func() error {
		if !r.SignedIn() {
			return nil
		}
		err := r.Follow.Initialize(ctx)
		if api.IsUnauthorized(err) {
			r.Notices.Notify(notify.LevelWarn, "Session expired. Run `bytectl login` to sign in again.")
		}
		return err
	})

	return g.Wait()
}

// UIDeps returns the collaborators for the TUI.
func (r *Runtime) UIDeps() ui.Deps {
	return ui.Deps{
		Feeds:      r.Feeds,
		Follow:     r.Follow,
		Saver:      r.Client,
		Categories: r.Prefs,
		Notices:    r.Notices,
		SignedIn:   r.SignedIn,
		Config:     r.Config,
	}
}
