// Package swipe turns touch-style drags into navigation actions and
// tracks the position of the visible card in a linear feed.
package swipe

// Action is what a completed gesture asks for.
type Action int

const (
	ActionNone Action = iota
	ActionTap
	ActionNext
	ActionPrevious
	ActionProfile
	ActionSource
)

func (a Action) String() string {
	switch a {
	case ActionTap:
		return "tap"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionProfile:
		return "profile"
	case ActionSource:
		return "source"
	default:
		return "none"
	}
}

// Thresholds are gesture distances in pixels.
// Classify is how far a drag must travel sideways, and further than it
// travels vertically, before it counts as horizontal. Commit is how far
// it must travel along its axis to trigger an action instead of a tap.
type Thresholds struct {
	Classify int
	Commit   int
}

// DefaultThresholds are the stock values.
var DefaultThresholds = Thresholds{Classify: 30, Commit: 100}

// Gesture classifies a single drag. The zero value is not usable; call
// NewGesture.
type Gesture struct {
	th         Thresholds
	active     bool
	horizontal bool
	startX     int
	startY     int
	curX       int
	curY       int
}

// NewGesture creates a Gesture with th.
func NewGesture(th Thresholds) *Gesture {
	return &Gesture{th: th}
}

// TouchStart begins a drag at (x, y).
func (g *Gesture) TouchStart(x, y int) {
	g.active = true
	g.horizontal = false
	g.startX, g.startY = x, y
	g.curX, g.curY = x, y
}

// TouchMove records the pointer position. Once a drag is classified as
// horizontal it stays horizontal until the next TouchStart.
func (g *Gesture) TouchMove(x, y int) {
	if !g.active {
		return
	}
	g.curX, g.curY = x, y
	if g.horizontal {
		return
	}
	dx, dy := abs(g.startX-x), abs(g.startY-y)
	if dx > dy && dx > g.th.Classify {
		g.horizontal = true
	}
}

// TouchEnd finishes the drag and reports the resulting action.
//
// Horizontal: startX-endX > 0 opens the creator profile, < 0 opens the
// source. Vertical: startY-endY > 0 goes to the next item, < 0 to the
// previous. Anything under Commit is a tap.
func (g *Gesture) TouchEnd() Action {
	if !g.active {
		return ActionNone
	}
	g.active = false

	dx := g.startX - g.curX
	dy := g.startY - g.curY

	if g.horizontal {
		if abs(dx) > g.th.Commit {
			if dx > 0 {
				return ActionProfile
			}
			return ActionSource
		}
		return ActionTap
	}

	if abs(dy) > g.th.Commit {
		if dy > 0 {
			return ActionNext
		}
		return ActionPrevious
	}
	return ActionTap
}

// Active reports whether a drag is in progress.
func (g *Gesture) Active() bool {
	return g.active
}

// Horizontal reports whether the current drag has been classified as
// horizontal.
func (g *Gesture) Horizontal() bool {
	return g.horizontal
}

// Delta returns start minus current for both axes.
func (g *Gesture) Delta() (dx, dy int) {
	return g.startX - g.curX, g.startY - g.curY
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
