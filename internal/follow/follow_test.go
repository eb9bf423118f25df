package follow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/notify"
	"github.com/google/go-cmp/cmp"
)

type fakeService struct {
	mu       sync.Mutex
	token    bool
	server   map[string]bool
	listErr  error
	failFor  map[string]error
	gates    map[string]chan struct{}
	started  chan string
	calls    []string
	listHits int
	// listGate, when set, holds the next list call after it has read the
	// server state; listStarted is closed once it is waiting.
	listGate    chan struct{}
	listStarted chan struct{}
}

func newFake(followed ...string) *fakeService {
	f := &fakeService{
		token:   true,
		server:  make(map[string]bool),
		failFor: make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
	for _, id := range followed {
		f.server[id] = true
	}
	return f
}

func (f *fakeService) HasToken() bool { return f.token }

func (f *fakeService) FollowedChannels(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.listHits++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	var ids []string
	for id := range f.server {
		ids = append(ids, id)
	}
	gate, started := f.listGate, f.listStarted
	f.listGate = nil
	f.mu.Unlock()

	if gate != nil {
		close(started)
		<-gate
	}
	return ids, nil
}

func (f *fakeService) FollowChannel(ctx context.Context, id string, follow bool) error {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	gate := f.gates[id]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- id
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[id]; err != nil {
		return err
	}
	if follow {
		f.server[id] = true
	} else {
		delete(f.server, id)
	}
	return nil
}

func TestInitializeLoadsSet(t *testing.T) {
	svc := newFake("UC1", "UC2")
	c := New(svc, nil)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"UC1", "UC2"}, c.Following()); diff != "" {
		t.Errorf("Following (-want +got):\n%s", diff)
	}
	if !c.Loaded() {
		t.Error("Loaded() = false")
	}
}

func TestInitializeWithoutTokenClears(t *testing.T) {
	svc := newFake("UC1")
	c := New(svc, nil)
	c.Initialize(context.Background())

	svc.token = false
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(c.Following()) != 0 || c.Loaded() {
		t.Errorf("expected empty unloaded set, got %v", c.Following())
	}
	if svc.listHits != 1 {
		t.Errorf("list called %d times, want 1", svc.listHits)
	}
}

func TestInitializeErrorKeepsSet(t *testing.T) {
	svc := newFake("UC1")
	c := New(svc, nil)
	c.Initialize(context.Background())

	svc.listErr = errors.New("boom")
	if err := c.Initialize(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !c.IsFollowing("UC1") {
		t.Error("set dropped on load error")
	}
	if c.Err() == nil {
		t.Error("Err() not recorded")
	}
}

func TestToggleFollowConfirms(t *testing.T) {
	svc := newFake()
	rec := &notify.Recorder{}
	c := New(svc, rec)

	if err := c.Toggle(context.Background(), "UC9", false); err != nil {
		t.Fatal(err)
	}
	if !c.IsFollowing("UC9") {
		t.Error("UC9 not followed after toggle")
	}
	if c.Phase("UC9") != PhaseConfirmed {
		t.Errorf("phase = %v, want confirmed", c.Phase("UC9"))
	}
	if rec.Count(notify.LevelSuccess) != 1 {
		t.Errorf("success notices = %d", rec.Count(notify.LevelSuccess))
	}
	if svc.listHits != 1 {
		t.Errorf("set not reloaded after success (list hits %d)", svc.listHits)
	}
}

func TestToggleFailureRevertsExactly(t *testing.T) {
	svc := newFake("UC1", "UC2")
	rec := &notify.Recorder{}
	c := New(svc, rec)
	c.Initialize(context.Background())
	before := c.Following()

	svc.failFor["UC1"] = &api.StatusError{Code: 500}
	err := c.Toggle(context.Background(), "UC1", true)
	if err == nil {
		t.Fatal("expected error")
	}
	var se *api.StatusError
	if !errors.As(err, &se) {
		t.Errorf("error %v does not wrap StatusError", err)
	}
	if diff := cmp.Diff(before, c.Following()); diff != "" {
		t.Errorf("set not restored (-want +got):\n%s", diff)
	}
	if c.Phase("UC1") != PhaseReverted {
		t.Errorf("phase = %v, want reverted", c.Phase("UC1"))
	}
	if rec.Count(notify.LevelError) != 1 {
		t.Errorf("error notices = %d", rec.Count(notify.LevelError))
	}
}

func TestToggleRestoresPriorNotAssumed(t *testing.T) {
	// The caller believes UC1 is followed but the local set says otherwise;
	// a failed toggle must restore the set's value, not the caller's.
	svc := newFake()
	c := New(svc, nil)
	svc.failFor["UC1"] = errors.New("nope")

	c.Toggle(context.Background(), "UC1", true)
	if c.IsFollowing("UC1") {
		t.Error("UC1 should remain unfollowed")
	}
}

func TestToggleWithoutToken(t *testing.T) {
	svc := newFake()
	svc.token = false
	rec := &notify.Recorder{}
	c := New(svc, rec)

	err := c.Toggle(context.Background(), "UC1", false)
	if !errors.Is(err, api.ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if c.IsFollowing("UC1") || len(svc.calls) != 0 {
		t.Error("state mutated without a session")
	}
	if rec.Count(notify.LevelWarn) != 1 {
		t.Error("expected a sign-in notice")
	}
}

func TestToggleSameChannelInFlight(t *testing.T) {
	svc := newFake()
	gate := make(chan struct{})
	svc.gates["UC1"] = gate
	svc.started = make(chan string, 1)
	c := New(svc, nil)

	done := make(chan error, 1)
	go func() { done <- c.Toggle(context.Background(), "UC1", false) }()
	<-svc.started

	if !c.InFlight("UC1") || c.Phase("UC1") != PhaseTentative {
		t.Fatalf("InFlight=%v phase=%v", c.InFlight("UC1"), c.Phase("UC1"))
	}
	if !c.IsFollowing("UC1") {
		t.Error("tentative value not applied")
	}
	if err := c.Toggle(context.Background(), "UC1", true); !errors.Is(err, ErrToggleInFlight) {
		t.Errorf("second toggle err = %v, want ErrToggleInFlight", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if c.InFlight("UC1") {
		t.Error("still in flight after completion")
	}
}

func TestConcurrentTogglesOnDistinctChannels(t *testing.T) {
	svc := newFake("UC2")
	gate1 := make(chan struct{})
	gate2 := make(chan struct{})
	svc.gates["UC1"] = gate1
	svc.gates["UC2"] = gate2
	svc.failFor["UC2"] = errors.New("server said no")
	svc.started = make(chan string, 2)
	c := New(svc, nil)
	c.Initialize(context.Background())

	res := make(chan error, 2)
	go func() { res <- c.Toggle(context.Background(), "UC1", false) }()
	go func() { res <- c.Toggle(context.Background(), "UC2", true) }()
	<-svc.started
	<-svc.started

	if !c.InFlight("UC1") || !c.InFlight("UC2") {
		t.Fatal("both toggles should be in flight")
	}

	// Let the failing one finish first; UC1 must keep its tentative value.
	close(gate2)
	if err := <-res; err == nil {
		t.Fatal("UC2 toggle should fail")
	}
	if !c.IsFollowing("UC2") {
		t.Error("UC2 not reverted to followed")
	}
	if !c.IsFollowing("UC1") || c.Phase("UC1") != PhaseTentative {
		t.Errorf("UC1 disturbed by UC2 failure: following=%v phase=%v", c.IsFollowing("UC1"), c.Phase("UC1"))
	}

	close(gate1)
	if err := <-res; err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"UC1", "UC2"}, c.Following()); diff != "" {
		t.Errorf("final set (-want +got):\n%s", diff)
	}
}

func TestReloadPreservesInFlightValue(t *testing.T) {
	svc := newFake("UC1")
	gate := make(chan struct{})
	svc.gates["UC1"] = gate
	svc.started = make(chan string, 1)
	c := New(svc, nil)
	c.Initialize(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Toggle(context.Background(), "UC1", true) }()
	<-svc.started

	// Server still lists UC1; the in-flight unfollow wins locally.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.IsFollowing("UC1") {
		t.Error("refresh overwrote in-flight unfollow")
	}
	if c.RefreshCount() != 1 {
		t.Errorf("RefreshCount = %d", c.RefreshCount())
	}

	close(gate)
	<-done
}

func TestSlowLoadDoesNotUndoConfirmedToggle(t *testing.T) {
	f := newFake("a")
	gate, started := make(chan struct{}), make(chan struct{})
	f.listGate, f.listStarted = gate, started
	c := New(f, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Initialize(ctx) }()
	<-started

	if err := c.Toggle(ctx, "x", false); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !c.IsFollowing("x") {
		t.Fatal("confirmed follow missing before slow load lands")
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("slow Initialize: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "x"}, c.Following()); diff != "" {
		t.Errorf("following (-want +got):\n%s", diff)
	}
}
