package swipe

import "time"

// AnimationDuration is how long a slide transition holds the lock.
const AnimationDuration = 300 * time.Millisecond

// Position tags an item for the transition renderer.
type Position int

const (
	PositionNone Position = iota
	PositionSlideUp
	PositionSlideDown
)

func (p Position) String() string {
	switch p {
	case PositionSlideUp:
		return "slide-up"
	case PositionSlideDown:
		return "slide-down"
	default:
		return ""
	}
}

// Result reports what Next or Previous did.
type Result int

const (
	// Started means a transition began; call Settle after the animation.
	Started Result = iota
	// Busy means a transition is already running; nothing changed.
	Busy
	// EndOfFeed means Next was called on the last item.
	EndOfFeed
	// StartOfFeed means Previous was called on the first item.
	StartOfFeed
)

// Session tracks the current card within a list of n items.
// It is owned by a single view and is not goroutine-safe.
type Session struct {
	current   int
	previous  int
	positions []Position
	animating bool
	step      int // +1 or -1 while animating
}

// NewSession creates a Session over n items positioned at the first.
func NewSession(n int) *Session {
	s := &Session{}
	s.Reset(n)
	return s
}

// Reset starts over for a new list of n items.
func (s *Session) Reset(n int) {
	if n < 0 {
		n = 0
	}
	s.current = 0
	s.previous = 0
	s.positions = make([]Position, n)
	s.animating = false
	s.step = 0
}

// Grow extends the session when items are appended to the same list.
// Shrinking is ignored; use Reset for a different list.
func (s *Session) Grow(n int) {
	for len(s.positions) < n {
		s.positions = append(s.positions, PositionNone)
	}
}

// Next starts a transition to the following item.
func (s *Session) Next() Result {
	if s.animating {
		return Busy
	}
	if s.current >= len(s.positions)-1 {
		return EndOfFeed
	}
	s.positions[s.current] = PositionSlideUp
	s.animating = true
	s.step = 1
	return Started
}

// Previous starts a transition to the preceding item.
func (s *Session) Previous() Result {
	if s.animating {
		return Busy
	}
	if s.current <= 0 {
		return StartOfFeed
	}
	s.positions[s.current] = PositionSlideDown
	s.animating = true
	s.step = -1
	return Started
}

// Settle completes a running transition: the index moves and the lock is
// released. Returns false when nothing was animating.
func (s *Session) Settle() bool {
	if !s.animating {
		return false
	}
	s.positions[s.current] = PositionNone
	s.current += s.step
	if s.current < 0 {
		s.current = 0
	}
	if s.current >= len(s.positions) && len(s.positions) > 0 {
		s.current = len(s.positions) - 1
	}
	s.animating = false
	s.step = 0
	return true
}

// EnterDetail remembers the current index before leaving for a profile
// or source view.
func (s *Session) EnterDetail() {
	s.previous = s.current
}

// ReturnFromDetail restores the index saved by EnterDetail.
func (s *Session) ReturnFromDetail() {
	s.current = s.previous
	if s.current >= len(s.positions) {
		s.current = len(s.positions) - 1
	}
	if s.current < 0 {
		s.current = 0
	}
}

// Current returns the index of the visible item.
func (s *Session) Current() int { return s.current }

// PreviousIndex returns the index saved by EnterDetail.
func (s *Session) PreviousIndex() int { return s.previous }

// Len returns the number of items.
func (s *Session) Len() int { return len(s.positions) }

// Animating reports whether a transition holds the lock.
func (s *Session) Animating() bool { return s.animating }

// Direction is +1 or -1 while animating, 0 otherwise.
func (s *Session) Direction() int { return s.step }

// Position returns the transition tag of item i.
func (s *Session) Position(i int) Position {
	if i < 0 || i >= len(s.positions) {
		return PositionNone
	}
	return s.positions[i]
}

// Positions returns a copy of every item's tag.
func (s *Session) Positions() []Position {
	return append([]Position(nil), s.positions...)
}

// NearEnd reports whether fewer than remaining items follow the current
// one, which is when the host should prefetch.
func (s *Session) NearEnd(remaining int) bool {
	return len(s.positions)-1-s.current < remaining
}

// Seek moves to index i, clamped to the list, when no transition is
// running. Used to keep the viewer's place after an item is removed.
func (s *Session) Seek(i int) {
	if s.animating || len(s.positions) == 0 {
		return
	}
	if i >= len(s.positions) {
		i = len(s.positions) - 1
	}
	if i < 0 {
		i = 0
	}
	s.current = i
}
