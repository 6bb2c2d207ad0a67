// Package control carries steering input from a capture goroutine to the
// render loop.
package control

import (
	"sync"
	"time"
)

// DefaultWindow is how long a key press stays held without a repeat.
const DefaultWindow = 150 * time.Millisecond

// Key names one steering direction.
type Key uint8

const (
	Up Key = iota
	Down
	Left
	Right
)

func (k Key) String() string {
	switch k {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, bool) {
	for k := Up; k <= Right; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// State is a snapshot of the four directional flags.
type State struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Any reports whether any flag is set.
func (s State) Any() bool { return s.Up || s.Down || s.Left || s.Right }

// Yaw is +1 for left, -1 for right.
func (s State) Yaw() float64 { return axis(s.Left, s.Right) }

// Pitch is +1 for up, -1 for down.
func (s State) Pitch() float64 { return axis(s.Up, s.Down) }

func axis(pos, neg bool) float64 {
	v := 0.0
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

// Shared is written by input sources and read by the render loop. Each flag
// expires Window after its last press, so a key counts as held only while
// the terminal keeps repeating it.
type Shared struct {
	Window time.Duration

	mu   sync.Mutex
	seen [4]time.Time
	now  func() time.Time
}

func NewShared(window time.Duration) *Shared {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Shared{Window: window, now: time.Now}
}

// Press marks k as held from now.
func (s *Shared) Press(k Key) {
	if k > Right {
		return
	}
	s.mu.Lock()
	s.seen[k] = s.now()
	s.mu.Unlock()
}

// Set replaces all four flags; a true flag counts as freshly pressed, a
// false one is released immediately.
func (s *Shared) Set(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, on := range [4]bool{st.Up, st.Down, st.Left, st.Right} {
		if on {
			s.seen[k] = now
		} else {
			s.seen[k] = time.Time{}
		}
	}
}

// Release clears every flag.
func (s *Shared) Release() { s.Set(State{}) }

// Snapshot blocks for the lock and returns the current state.
func (s *Shared) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// TrySnapshot never blocks. ok is false when a writer holds the lock; the
// caller keeps whatever it read last.
func (s *Shared) TrySnapshot() (st State, ok bool) {
	if !s.mu.TryLock() {
		return State{}, false
	}
	defer s.mu.Unlock()
	return s.snapshot(), true
}

func (s *Shared) snapshot() State {
	now := s.now()
	held := func(k Key) bool {
		t := s.seen[k]
		return !t.IsZero() && now.Sub(t) <= s.Window
	}
	return State{Up: held(Up), Down: held(Down), Left: held(Left), Right: held(Right)}
}
