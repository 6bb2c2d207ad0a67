// Package term paints frames on a terminal and reads steering keys.
package term

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/nsf/termbox-go"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/cosmo/internal/control"
	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/render"
)

// Terminal owns the screen through termbox between Open and Close.
type Terminal struct {
	Status bool

	mu     sync.Mutex
	shaded bool
}

// Open switches the terminal into raw, grayscale mode.
func Open(status bool) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("termbox init: %w", err)
	}
	termbox.SetOutputMode(termbox.OutputGrayscale)
	termbox.HideCursor()
	return &Terminal{Status: status}, nil
}

func (t *Terminal) Close() { termbox.Close() }

// shade maps a glyph onto one of termbox's 24 grey levels.
func shade(g rune) termbox.Attribute {
	if g == light.Blank {
		return termbox.ColorDefault
	}
	return termbox.Attribute(1 + int(math.Round(light.Level(g)*23)))
}

func (t *Terminal) Write(f render.Frame) error {
	t.mu.Lock()
	shaded := t.shaded
	t.mu.Unlock()

	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	for i, row := range f.Grid {
		for j, g := range row {
			if shaded {
				termbox.SetCell(j, i, ' ', termbox.ColorDefault, shade(g))
			} else {
				termbox.SetCell(j, i, g, shade(g), termbox.ColorDefault)
			}
		}
	}
	if t.Status {
		for j, c := range StatusLine(f) {
			termbox.SetCell(j, len(f.Grid), c, termbox.ColorDefault, termbox.ColorDefault)
		}
	}
	return termbox.Flush()
}

type action uint8

const (
	actNone action = iota
	actSteer
	actToggle
	actQuit
)

// classify maps a key event onto what Capture should do with it.
func classify(ev termbox.Event) (action, control.Key) {
	if ev.Type != termbox.EventKey {
		return actNone, 0
	}
	switch ev.Key {
	case termbox.KeyArrowUp:
		return actSteer, control.Up
	case termbox.KeyArrowDown:
		return actSteer, control.Down
	case termbox.KeyArrowLeft:
		return actSteer, control.Left
	case termbox.KeyArrowRight:
		return actSteer, control.Right
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return actQuit, 0
	case termbox.KeyEnter:
		return actToggle, 0
	}
	switch ev.Ch {
	case 'q', 'Q':
		return actQuit, 0
	case 'w':
		return actSteer, control.Up
	case 's':
		return actSteer, control.Down
	case 'a':
		return actSteer, control.Left
	case 'd':
		return actSteer, control.Right
	}
	return actNone, 0
}

// Capture polls key events into ctl until ctx ends or the user quits, in
// which case stop is called. Enter toggles shaded blocks.
func (t *Terminal) Capture(ctx context.Context, ctl *control.Shared, stop func()) {
	done := make(chan struct{})
	quit := false
	defer func() {
		close(done)
		if quit {
			stop()
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			termbox.Interrupt()
		case <-done:
		}
	}()
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventInterrupt:
			return
		case termbox.EventError:
			log.Warn().Err(ev.Err).Msg("terminal input failed")
			quit = true
			return
		}
		act, k := classify(ev)
		switch act {
		case actSteer:
			ctl.Press(k)
		case actToggle:
			t.mu.Lock()
			t.shaded = !t.shaded
			t.mu.Unlock()
		case actQuit:
			quit = true
			return
		}
	}
}
