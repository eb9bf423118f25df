package feedcache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/abelbrown/byteme/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func items(ids ...string) []model.FeedItem {
	out := make([]model.FeedItem, len(ids))
	for i, id := range ids {
		out[i] = model.FeedItem{ID: id, Title: "t-" + id}
	}
	return out
}

func TestGetFreshAndExpired(t *testing.T) {
	clock := newClock()
	c := New("general", WithClock(clock.Now))

	c.Put("ai", Entry{Items: items("1", "2"), Offset: 5, HasMore: true})

	got, ok := c.Get("ai")
	if !ok {
		t.Fatal("fresh entry should be returned")
	}
	want := Entry{Items: items("1", "2"), Offset: 5, HasMore: true, Timestamp: clock.Now()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}

	clock.Advance(59*time.Minute + 59*time.Second)
	if _, ok := c.Get("ai"); !ok {
		t.Error("entry just under the TTL should still be valid")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("ai"); ok {
		t.Error("entry at exactly the TTL should be expired")
	}
}

func TestPutReplacesExpired(t *testing.T) {
	clock := newClock()
	c := New("general", WithClock(clock.Now), WithTTL(time.Minute))
	c.Put("", Entry{Items: items("old")})
	clock.Advance(2 * time.Minute)

	c.Put("", Entry{Items: items("new")})
	got, ok := c.Get("")
	if !ok {
		t.Fatal("replacement should be fresh")
	}
	if got.Items[0].ID != "new" || !got.Timestamp.Equal(clock.Now()) {
		t.Errorf("unexpected entry: %+v", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := New("general")
	c.Put("k", Entry{Items: items("1")})

	got, _ := c.Get("k")
	got.Items[0].Title = "mutated"

	again, _ := c.Get("k")
	if again.Items[0].Title != "t-1" {
		t.Error("callers must not be able to mutate cached items")
	}
}

func TestUpdateKeepsTimestamp(t *testing.T) {
	clock := newClock()
	c := New("saved", WithClock(clock.Now))
	c.Put(KeySaved, Entry{Items: items("1", "2")})
	stamped := clock.Now()

	clock.Advance(10 * time.Minute)
	ok := c.Update(KeySaved, func(e Entry) Entry {
		e.Items = e.Items[1:]
		return e
	})
	if !ok {
		t.Fatal("Update should apply to a fresh entry")
	}

	got, _ := c.Get(KeySaved)
	if !got.Timestamp.Equal(stamped) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, stamped)
	}
	if diff := cmp.Diff([]string{"2"}, model.IDs(got.Items)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}

	if c.Update("missing", func(e Entry) Entry { return e }) {
		t.Error("Update on a missing key should report false")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{}, ""},
		{[]string{"ml"}, "ml"},
		{[]string{"robotics", "ai", "ml"}, "ai,ml,robotics"},
		{[]string{" ai", "", "ml "}, "ai,ml"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type memPersister struct {
	mu      sync.Mutex
	data    map[string]Entry
	loadErr error
	saves   int
}

func (m *memPersister) LoadSnapshot(ns, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return Entry{}, false, m.loadErr
	}
	e, ok := m.data[ns+"/"+key]
	return e, ok, nil
}

func (m *memPersister) SaveSnapshot(ns, key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]Entry)
	}
	m.data[ns+"/"+key] = e
	m.saves++
	return nil
}

func TestPersisterWriteThroughAndWarmStart(t *testing.T) {
	clock := newClock()
	p := &memPersister{}

	first := New(KeyFollowed, WithClock(clock.Now), WithPersister(p))
	first.Put(KeyFollowed, Entry{Items: items("a"), Offset: 5, HasMore: true})
	if p.saves != 1 {
		t.Fatalf("saves = %d, want 1", p.saves)
	}

	// A new process: empty memory, same persister.
	second := New(KeyFollowed, WithClock(clock.Now), WithPersister(p))
	got, ok := second.Get(KeyFollowed)
	if !ok {
		t.Fatal("warm start should load the persisted snapshot")
	}
	if got.Offset != 5 || !got.HasMore || got.Items[0].ID != "a" {
		t.Errorf("unexpected entry: %+v", got)
	}

	clock.Advance(2 * time.Hour)
	third := New(KeyFollowed, WithClock(clock.Now), WithPersister(p))
	if _, ok := third.Get(KeyFollowed); ok {
		t.Error("expired persisted snapshot must read as absent")
	}
}

func TestPersisterLoadError(t *testing.T) {
	c := New("general", WithPersister(&memPersister{loadErr: errors.New("disk gone")}))
	if _, ok := c.Get("x"); ok {
		t.Error("load error should read as a miss")
	}
}
