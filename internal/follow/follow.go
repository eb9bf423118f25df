// Package follow keeps the set of channels the signed-in user follows and
// applies follow toggles optimistically.
package follow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/notify"
)

// ErrToggleInFlight is returned when a toggle for the same channel has
// not finished yet.
var ErrToggleInFlight = errors.New("follow change already in progress")

// Phase is where a channel's most recent toggle stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTentative
	PhaseConfirmed
	PhaseReverted
)

func (p Phase) String() string {
	switch p {
	case PhaseTentative:
		return "tentative"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseReverted:
		return "reverted"
	default:
		return "idle"
	}
}

// Service is the backend surface the controller needs. *api.Client
// satisfies it.
type Service interface {
	HasToken() bool
	FollowedChannels(ctx context.Context) ([]string, error)
	FollowChannel(ctx context.Context, channelID string, follow bool) error
}

// pending is an in-flight toggle and the value it replaced.
type pending struct {
	target bool
	prior  bool
}

// Controller owns the follow set. Safe for concurrent use; toggles on
// distinct channels run independently.
type Controller struct {
	svc      Service
	notifier notify.Notifier

	mu        sync.RWMutex
	following map[string]bool
	inflight  map[string]pending
	phases    map[string]Phase
	refreshes int
	gen       uint64
	loaded    bool
	err       error
}

// New creates a Controller. A nil notifier discards notices.
func New(svc Service, n notify.Notifier) *Controller {
	if n == nil {
		n = notify.Discard{}
	}
	return &Controller{
		svc:       svc,
		notifier:  n,
		following: make(map[string]bool),
		inflight:  make(map[string]pending),
		phases:    make(map[string]Phase),
	}
}

// Initialize replaces the follow set with the server's. Without a session
// the set is cleared and nothing is fetched. Channels with a toggle in
// flight keep their tentative value. A load that finishes after a newer
// one started is discarded.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	if !c.svc.HasToken() {
		c.mu.Lock()
		c.following = make(map[string]bool)
		c.loaded = false
		c.err = nil
		c.mu.Unlock()
		return nil
	}

	ids, err := c.svc.FollowedChannels(ctx)
	if err != nil {
		err = fmt.Errorf("load followed channels: %w", err)
		logging.Warn("Follow set load failed", "error", err)
		c.mu.Lock()
		if gen == c.gen {
			c.err = err
		}
		c.mu.Unlock()
		return err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		logging.Debug("Discarding superseded follow set load", "channels", len(set))
		return nil
	}
	for id, p := range c.inflight {
		if p.target {
			set[id] = true
		} else {
			delete(set, id)
		}
	}
	c.following = set
	c.loaded = true
	c.err = nil
	logging.Debug("Follow set loaded", "channels", len(set))
	return nil
}

// Refresh bumps the refresh counter and reloads the set.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.refreshes++
	c.mu.Unlock()
	return c.Initialize(ctx)
}

// Toggle flips channelID away from currentlyFollowed. The local set
// changes immediately; on failure the exact prior value is restored.
func (c *Controller) Toggle(ctx context.Context, channelID string, currentlyFollowed bool) error {
	if !c.svc.HasToken() {
		c.notifier.Notify(notify.LevelWarn, "Sign in to follow creators")
		return api.ErrAuthRequired
	}
	if channelID == "" {
		return errors.New("follow: empty channel id")
	}

	target := !currentlyFollowed

	c.mu.Lock()
	if _, busy := c.inflight[channelID]; busy {
		c.mu.Unlock()
		return ErrToggleInFlight
	}
	prior := c.following[channelID]
	c.inflight[channelID] = pending{target: target, prior: prior}
	c.setLocked(channelID, target)
	c.phases[channelID] = PhaseTentative
	c.mu.Unlock()

	err := c.svc.FollowChannel(ctx, channelID, target)

	c.mu.Lock()
	delete(c.inflight, channelID)
	if err != nil {
		c.setLocked(channelID, prior)
		c.phases[channelID] = PhaseReverted
		c.mu.Unlock()

		logging.Warn("Follow toggle failed", "channel", channelID, "follow", target, "error", err)
		c.notifier.Notify(notify.LevelError, "Couldn't update follow: "+api.UserMessage(err))
		return fmt.Errorf("toggle follow %s: %w", channelID, err)
	}
	c.phases[channelID] = PhaseConfirmed
	c.mu.Unlock()

	if target {
		c.notifier.Notify(notify.LevelSuccess, "Following creator")
	} else {
		c.notifier.Notify(notify.LevelSuccess, "Unfollowed creator")
	}

	if err := c.Initialize(ctx); err != nil {
		// The toggle itself succeeded; keep the local value.
		logging.Debug("Follow set reload after toggle failed", "error", err)
	}
	return nil
}

func (c *Controller) setLocked(id string, on bool) {
	if on {
		c.following[id] = true
	} else {
		delete(c.following, id)
	}
}

// IsFollowing reports whether channelID is in the local set.
func (c *Controller) IsFollowing(channelID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.following[channelID]
}

// InFlight reports whether a toggle for channelID is awaiting the server.
func (c *Controller) InFlight(channelID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.inflight[channelID]
	return ok
}

// Phase returns where the last toggle for channelID stands.
func (c *Controller) Phase(channelID string) Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phases[channelID]
}

// Following returns the followed channel ids, sorted.
func (c *Controller) Following() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.following))
	for id := range c.following {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Loaded reports whether the set has been fetched since the last sign-in.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Err returns the last load error, if any.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// RefreshCount returns how many times Refresh has been called.
func (c *Controller) RefreshCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshes
}
