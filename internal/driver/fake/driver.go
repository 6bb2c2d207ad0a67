// Package fake is a headless sink: it logs a compact summary of each frame
// instead of drawing it.
package fake

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/render"
)

// Summary condenses a grid to a few numbers.
type Summary struct {
	Lit    int     // non-blank cells
	Mean   float64 // mean grey level over lit cells
	Centre rune
}

func Summarize(grid [][]rune) Summary {
	var s Summary
	var sum float64
	for _, row := range grid {
		for _, g := range row {
			if g == light.Blank {
				continue
			}
			s.Lit++
			sum += light.Level(g)
		}
	}
	if s.Lit > 0 {
		s.Mean = sum / float64(s.Lit)
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		s.Centre = grid[len(grid)/2][len(grid[0])/2]
	}
	return s
}

// Driver logs every Every-th frame (every frame when Every <= 1).
type Driver struct {
	Every int
	Log   *zerolog.Logger
	Count int
}

func (d *Driver) Write(f render.Frame) error {
	d.Count++
	if d.Every > 1 && f.Index%d.Every != 0 {
		return nil
	}
	l := d.Log
	if l == nil {
		l = &log.Logger
	}
	s := Summarize(f.Grid)
	l.Info().
		Int("frame", f.Index).
		Float64("t", f.T).
		Int("lit", s.Lit).
		Float64("mean", s.Mean).
		Str("centre", string(s.Centre)).
		Dur("compute", f.Stats.Compute).
		Float64("load", f.Stats.Load()).
		Msg("frame")
	return nil
}
