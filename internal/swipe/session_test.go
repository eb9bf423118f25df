package swipe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNextAnimatesThenSettles(t *testing.T) {
	s := NewSession(3)
	if got := s.Next(); got != Started {
		t.Fatalf("Next = %v, want Started", got)
	}
	if !s.Animating() {
		t.Fatal("expected animating")
	}
	if s.Position(0) != PositionSlideUp {
		t.Errorf("position 0 = %v, want slide-up", s.Position(0))
	}
	if s.Current() != 0 {
		t.Errorf("index moved before settle: %d", s.Current())
	}
	if got := s.Next(); got != Busy {
		t.Errorf("Next while animating = %v, want Busy", got)
	}
	if !s.Settle() {
		t.Fatal("Settle returned false")
	}
	if s.Current() != 1 || s.Animating() {
		t.Errorf("after settle current=%d animating=%v", s.Current(), s.Animating())
	}
	if s.Settle() {
		t.Error("second Settle should be a no-op")
	}
}

func TestNextAtLastIndex(t *testing.T) {
	s := NewSession(2)
	s.Next()
	s.Settle()
	if got := s.Next(); got != EndOfFeed {
		t.Fatalf("got %v, want EndOfFeed", got)
	}
	if s.Current() != 1 || s.Animating() {
		t.Errorf("state changed: current=%d animating=%v", s.Current(), s.Animating())
	}
	if diff := cmp.Diff([]Position{PositionNone, PositionNone}, s.Positions()); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
}

func TestPreviousAtStart(t *testing.T) {
	s := NewSession(3)
	if got := s.Previous(); got != StartOfFeed {
		t.Fatalf("got %v, want StartOfFeed", got)
	}
	if s.Current() != 0 || s.Animating() {
		t.Errorf("state changed: current=%d animating=%v", s.Current(), s.Animating())
	}
}

func TestPreviousSlidesDown(t *testing.T) {
	s := NewSession(3)
	s.Next()
	s.Settle()
	if got := s.Previous(); got != Started {
		t.Fatalf("got %v, want Started", got)
	}
	if s.Position(1) != PositionSlideDown {
		t.Errorf("position 1 = %v, want slide-down", s.Position(1))
	}
	s.Settle()
	if s.Current() != 0 {
		t.Errorf("current = %d, want 0", s.Current())
	}
}

func TestEmptySession(t *testing.T) {
	s := NewSession(0)
	if got := s.Next(); got != EndOfFeed {
		t.Errorf("Next = %v", got)
	}
	if got := s.Previous(); got != StartOfFeed {
		t.Errorf("Previous = %v", got)
	}
	if s.Position(5) != PositionNone {
		t.Error("out of range position should be none")
	}
}

func TestDetailRoundTrip(t *testing.T) {
	s := NewSession(5)
	for i := 0; i < 3; i++ {
		s.Next()
		s.Settle()
	}
	s.EnterDetail()
	if s.PreviousIndex() != 3 {
		t.Fatalf("previous = %d, want 3", s.PreviousIndex())
	}
	s.Previous()
	s.Settle()
	s.ReturnFromDetail()
	if s.Current() != 3 {
		t.Errorf("current = %d, want 3", s.Current())
	}
}

func TestReturnFromDetailClamps(t *testing.T) {
	s := NewSession(5)
	for i := 0; i < 4; i++ {
		s.Next()
		s.Settle()
	}
	s.EnterDetail()
	s.positions = s.positions[:2]
	s.ReturnFromDetail()
	if s.Current() != 1 {
		t.Errorf("current = %d, want 1", s.Current())
	}
}

func TestGrowKeepsIndex(t *testing.T) {
	s := NewSession(2)
	s.Next()
	s.Settle()
	if got := s.Next(); got != EndOfFeed {
		t.Fatalf("got %v", got)
	}
	s.Grow(4)
	if s.Len() != 4 || s.Current() != 1 {
		t.Fatalf("len=%d current=%d", s.Len(), s.Current())
	}
	if got := s.Next(); got != Started {
		t.Errorf("after grow Next = %v, want Started", got)
	}
}

func TestNearEnd(t *testing.T) {
	s := NewSession(5)
	if s.NearEnd(2) {
		t.Error("index 0 of 5 should not be near the end")
	}
	for i := 0; i < 3; i++ {
		s.Next()
		s.Settle()
	}
	if !s.NearEnd(2) {
		t.Error("index 3 of 5 should be near the end")
	}
}

func TestSeekClamps(t *testing.T) {
	s := NewSession(3)
	s.Seek(5)
	if s.Current() != 2 {
		t.Errorf("current = %d, want 2", s.Current())
	}
	s.Seek(-1)
	if s.Current() != 0 {
		t.Errorf("current = %d, want 0", s.Current())
	}
	s.Next()
	s.Seek(2)
	if s.Current() != 0 {
		t.Error("Seek moved during a transition")
	}
}
