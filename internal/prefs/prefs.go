// Package prefs loads and saves the user's category selection, preferring
// the backend when signed in and mirroring it locally.
package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelbrown/byteme/internal/logging"
)

// Local stores the selection on this machine. *store.Store satisfies it.
type Local interface {
	Categories() ([]string, error)
	SetCategories(ids []string) error
}

// Remote is the backend surface. *api.Client satisfies it.
type Remote interface {
	HasToken() bool
	Categories(ctx context.Context) ([]string, error)
	UpdateCategories(ctx context.Context, ids []string) error
}

// Service combines Local and Remote.
type Service struct {
	local  Local
	remote Remote
}

// New creates a Service. remote may be nil for local-only use.
func New(local Local, remote Remote) *Service {
	return &Service{local: local, remote: remote}
}

func (s *Service) signedIn() bool {
	return s.remote != nil && s.remote.HasToken()
}

// Load returns the current selection. When signed in the backend wins and
// is copied locally; if it fails the local copy is used.
func (s *Service) Load(ctx context.Context) ([]string, error) {
	if s.signedIn() {
		ids, err := s.remote.Categories(ctx)
		if err == nil {
			ids = Normalize(ids)
			if err := s.local.SetCategories(ids); err != nil {
				logging.Warn("Failed to mirror categories locally", "error", err)
			}
			return ids, nil
		}
		logging.Warn("Remote categories unavailable, using local", "error", err)
	}

	ids, err := s.local.Categories()
	if err != nil {
		return nil, fmt.Errorf("load local categories: %w", err)
	}
	return Normalize(ids), nil
}

// Update saves ids. When signed in the backend is written first and a
// failure leaves the local copy untouched.
func (s *Service) Update(ctx context.Context, ids []string) ([]string, error) {
	ids = Normalize(ids)
	if s.signedIn() {
		if err := s.remote.UpdateCategories(ctx, ids); err != nil {
			return nil, fmt.Errorf("update categories: %w", err)
		}
	}
	if err := s.local.SetCategories(ids); err != nil {
		return nil, fmt.Errorf("save local categories: %w", err)
	}
	logging.Info("Categories updated", "count", len(ids))
	return ids, nil
}

// Normalize trims ids, drops blanks and duplicates, and keeps order.
func Normalize(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Toggle returns ids with id added or removed.
func Toggle(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	found := false
	for _, x := range ids {
		if x == id {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
