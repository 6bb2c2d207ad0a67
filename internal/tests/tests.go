// Package tests plays wiring test patterns through the frame sinks, for
// checking an LED matrix's serpentine order without a scene.
package tests

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/render"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RowSweep   Kind = "row_sweep"
	Ramp       Kind = "ramp"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case IndexSweep, RowSweep, Ramp:
		return k, nil
	}
	return None, fmt.Errorf("unknown test pattern %q", s)
}

type Plan struct{ Kind Kind }

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }
func (r *Runner) Kind() Kind     { return r.plan.Kind }

// Step fills grid with the next pattern frame; returns false when complete.
func (r *Runner) Step(grid [][]rune) bool {
	for _, row := range grid {
		for j := range row {
			row[j] = light.Blank
		}
	}
	if len(grid) == 0 || len(grid[0]) == 0 {
		return false
	}
	h, w := len(grid), len(grid[0])

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= w*h {
			return false
		}
		grid[r.step/w][r.step%w] = 'M'
	case RowSweep:
		if r.step >= h {
			return false
		}
		for j := range grid[r.step] {
			grid[r.step][j] = 'M'
		}
	case Ramp:
		ramp := []rune(light.Ramp)
		if r.step >= len(ramp) {
			return false
		}
		for _, row := range grid {
			for j := range row {
				row[j] = ramp[r.step]
			}
		}
	default:
		return false
	}
	r.step++
	return true
}

// Play writes every frame of plan to sink at one frame per interval.
func Play(ctx context.Context, plan Plan, w, h int, interval time.Duration, sink render.Sink) error {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = make([]rune, w)
	}
	r := NewRunner(plan)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 1; r.Step(grid); i++ {
		if err := sink.Write(render.Frame{Index: i, T: float64(i) * interval.Seconds(), Grid: grid}); err != nil {
			return fmt.Errorf("pattern frame %d: %w", i, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	log.Info().Str("pattern", string(plan.Kind)).Msg("test pattern done")
	return nil
}
