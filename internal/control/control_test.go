package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestShared() (*Shared, *clock) {
	c := &clock{t: time.Unix(1000, 0)}
	s := NewShared(100 * time.Millisecond)
	s.now = c.now
	return s, c
}

func TestPressExpires(t *testing.T) {
	s, c := newTestShared()
	s.Press(Left)
	assert.Equal(t, State{Left: true}, s.Snapshot())

	c.t = c.t.Add(50 * time.Millisecond)
	s.Press(Up)
	assert.Equal(t, State{Up: true, Left: true}, s.Snapshot())

	c.t = c.t.Add(80 * time.Millisecond)
	assert.Equal(t, State{Up: true}, s.Snapshot(), "left older than the window")

	c.t = c.t.Add(time.Second)
	assert.False(t, s.Snapshot().Any())
}

func TestSetLastWriterWins(t *testing.T) {
	s, _ := newTestShared()
	s.Set(State{Up: true, Right: true})
	s.Set(State{Down: true})
	assert.Equal(t, State{Down: true}, s.Snapshot())

	s.Release()
	assert.Equal(t, State{}, s.Snapshot())
}

func TestTrySnapshotContended(t *testing.T) {
	s, _ := newTestShared()
	s.Press(Right)
	st, ok := s.TrySnapshot()
	assert.True(t, ok)
	assert.True(t, st.Right)

	s.mu.Lock()
	_, ok = s.TrySnapshot()
	s.mu.Unlock()
	assert.False(t, ok)
}

func TestAxes(t *testing.T) {
	assert.Equal(t, 1.0, State{Left: true}.Yaw())
	assert.Equal(t, -1.0, State{Right: true}.Yaw())
	assert.Equal(t, 0.0, State{Left: true, Right: true}.Yaw())
	assert.Equal(t, 1.0, State{Up: true}.Pitch())
	assert.Equal(t, -1.0, State{Down: true}.Pitch())
	assert.Equal(t, "down", Down.String())
}

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("left")
	assert.True(t, ok)
	assert.Equal(t, Left, k)
	_, ok = ParseKey("sideways")
	assert.False(t, ok)
}
