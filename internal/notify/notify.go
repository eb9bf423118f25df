// Package notify collects user-facing notifications (toasts).
//
// Controllers push into a Center through the Notifier interface; the UI
// reads the most recent active notice on each render.
package notify

import (
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is one user-facing message.
type Notice struct {
	Level Level
	Text  string
	Time  time.Time
}

// Notifier is what controllers depend on.
type Notifier interface {
	Notify(level Level, text string)
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(Level, string) {}

// DefaultSize is the default Center capacity.
const DefaultSize = 64

// Center is a fixed-size circular buffer of Notices.
// Goroutine-safe for concurrent Notify and read operations.
type Center struct {
	mu    sync.Mutex
	buf   []Notice
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
	now   func() time.Time
}

// NewCenter creates a Center with the given capacity.
func NewCenter(size int) *Center {
	if size <= 0 {
		size = DefaultSize
	}
	return &Center{
		buf:  make([]Notice, size),
		size: size,
		now:  time.Now,
	}
}

// Notify records a notice, overwriting the oldest if full.
func (c *Center) Notify(level Level, text string) {
	c.mu.Lock()
	c.buf[c.head] = Notice{Level: level, Text: text, Time: c.now()}
	c.head = (c.head + 1) % c.size
	if c.count < c.size {
		c.count++
	}
	c.mu.Unlock()
}

// Latest returns the most recent notice.
func (c *Center) Latest() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 {
		return Notice{}, false
	}
	return c.buf[(c.head-1+c.size)%c.size], true
}

// Active returns the most recent notice if it is younger than ttl.
func (c *Center) Active(now time.Time, ttl time.Duration) (Notice, bool) {
	n, ok := c.Latest()
	if !ok || now.Sub(n.Time) >= ttl {
		return Notice{}, false
	}
	return n, true
}

// Snapshot returns all notices in chronological order (oldest first).
func (c *Center) Snapshot() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 {
		return nil
	}

	result := make([]Notice, c.count)
	if c.count < c.size {
		copy(result, c.buf[:c.count])
	} else {
		n := copy(result, c.buf[c.head:])
		copy(result[n:], c.buf[:c.head])
	}
	return result
}

// Len returns the number of notices currently held.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Recorder keeps every notice in order. Tests use it to assert on
// what a controller surfaced.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(level Level, text string) {
	r.mu.Lock()
	r.notices = append(r.notices, Notice{Level: level, Text: text})
	r.mu.Unlock()
}

// Notices returns a copy of everything recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Count returns how many notices of the given level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.notices {
		if x.Level == level {
			n++
		}
	}
	return n
}
