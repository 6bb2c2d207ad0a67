package term

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/cosmo/internal/control"
	"github.com/coreman2200/cosmo/internal/render"
)

func frame(i int, rows ...string) render.Frame {
	g := make([][]rune, len(rows))
	for k, r := range rows {
		g[k] = []rune(r)
	}
	return render.Frame{Index: i, Grid: g, Stats: render.Stats{Compute: 3 * time.Millisecond, TotalCompute: time.Second, TotalWait: time.Second}}
}

func TestANSIRepaintsInPlace(t *testing.T) {
	var buf bytes.Buffer
	a := NewANSI(&buf, false)

	require.NoError(t, a.Write(frame(1, "ab", "cd")))
	assert.Equal(t, clearLine+"ab\n"+clearLine+"cd\n", buf.String())

	buf.Reset()
	require.NoError(t, a.Write(frame(2, "ef", "gh")))
	assert.True(t, strings.HasPrefix(buf.String(), cursorUp+cursorUp+clearLine+"ef\n"))
}

func TestANSIStatus(t *testing.T) {
	var buf bytes.Buffer
	a := NewANSI(&buf, true)
	require.NoError(t, a.Write(frame(7, "x")))
	out := buf.String()
	assert.Contains(t, out, "frame 7")
	assert.Contains(t, out, "load 50.0%")

	buf.Reset()
	require.NoError(t, a.Write(frame(8, "y")))
	assert.True(t, strings.HasPrefix(buf.String(), cursorUp+cursorUp+clearLine+"y"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		ev  termbox.Event
		act action
		key control.Key
	}{
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowUp}, actSteer, control.Up},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowLeft}, actSteer, control.Left},
		{termbox.Event{Type: termbox.EventKey, Ch: 'd'}, actSteer, control.Right},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}, actQuit, 0},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyCtrlC}, actQuit, 0},
		{termbox.Event{Type: termbox.EventKey, Ch: 'q'}, actQuit, 0},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEnter}, actToggle, 0},
		{termbox.Event{Type: termbox.EventKey, Ch: 'z'}, actNone, 0},
		{termbox.Event{Type: termbox.EventResize}, actNone, 0},
	}
	for _, c := range cases {
		act, key := classify(c.ev)
		assert.Equal(t, c.act, act, "%+v", c.ev)
		if act == actSteer {
			assert.Equal(t, c.key, key)
		}
	}
}

func TestShade(t *testing.T) {
	assert.Equal(t, termbox.ColorDefault, shade(' '))
	assert.Less(t, int(shade('.')), int(shade('M')))
	assert.LessOrEqual(t, int(shade('M')), 24)
}
