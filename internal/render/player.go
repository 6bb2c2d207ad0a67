package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/cosmo/internal/camera"
	"github.com/coreman2200/cosmo/internal/control"
	"github.com/coreman2200/cosmo/internal/geom"
	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/scene"
)

// Config is fixed for the lifetime of a Player.
type Config struct {
	FPS       float64
	Width     int
	Height    int
	Duration  float64 // simulated time units; the run ends once exceeded
	Shadows   bool
	Bounds    bool    // wrap top-level objects in culling boxes
	Debug     bool    // unit time step and no pacing sleep
	Workers   int     // row-parallel goroutines; <= 1 renders inline
	SteerRate float64 // camera turn rate in radians per time unit
}

// Step is the simulated time advanced per frame.
func (c Config) Step() float64 {
	if c.Debug {
		return 1
	}
	return 1 / c.FPS
}

// Interval is the wall-clock frame budget.
func (c Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}

// Player owns a scene and drives it frame by frame:
// simulate, render, pace.
type Player struct {
	Cfg Config

	cam    *camera.Camera
	things []scene.Thing
	lights []*light.Light
	sink   Sink
	ctl    *control.Shared
	steer  control.State

	grid  [][]rune
	t     float64
	index int
	stats Stats

	sleep func(ctx context.Context, d time.Duration) error
}

func NewPlayer(cfg Config, cam *camera.Camera, sink Sink) (*Player, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("invalid dimensions")
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps %v", cfg.FPS)
	}
	if cam == nil {
		return nil, errors.New("camera is nil")
	}
	if cam.W != cfg.Width || cam.H != cfg.Height {
		return nil, fmt.Errorf("camera is %dx%d, output is %dx%d", cam.W, cam.H, cfg.Width, cfg.Height)
	}
	grid := make([][]rune, cfg.Height)
	for i := range grid {
		grid[i] = make([]rune, cfg.Width)
	}
	return &Player{Cfg: cfg, cam: cam, sink: sink, grid: grid, sleep: sleepCtx}, nil
}

// AddThing appends a top-level thing. With Bounds set, objects get a
// culling box.
func (p *Player) AddThing(th scene.Thing) {
	if o, ok := th.(*scene.Object); ok && p.Cfg.Bounds {
		o.EnableBounds()
	}
	p.things = append(p.things, th)
}

func (p *Player) AddLight(l *light.Light) { p.lights = append(p.lights, l) }

// SetControl attaches a steering source read once per frame.
func (p *Player) SetControl(c *control.Shared) { p.ctl = c }

func (p *Player) Camera() *camera.Camera { return p.cam }
func (p *Player) Time() float64          { return p.t }
func (p *Player) Stats() Stats           { return p.stats }
func (p *Player) Frames() int            { return p.index }

// Update advances every thing and light by dt, then applies steering and
// refreshes culling state for the camera.
func (p *Player) Update(dt float64) {
	for _, th := range p.things {
		scene.Update(th, dt, geom.Movement{})
	}
	for _, l := range p.lights {
		l.Update(dt)
	}
	if p.ctl != nil {
		if st, ok := p.ctl.TrySnapshot(); ok {
			p.steer = st
		}
		if p.steer.Any() {
			p.cam.Steer(dt, p.steer, p.Cfg.SteerRate)
		}
	}
	if o, ok := p.cam.Origin(); ok {
		for _, th := range p.things {
			scene.Prepare(th, o)
		}
	}
}

// RenderOnce casts every camera ray into the grid.
func (p *Player) RenderOnce() {
	if p.Cfg.Workers <= 1 {
		for i := range p.grid {
			p.renderRow(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(p.Cfg.Workers)
	for i := range p.grid {
		i := i
		g.Go(func() error {
			p.renderRow(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Player) renderRow(i int) {
	var occ light.Occluder
	if p.Cfg.Shadows {
		occ = func(r geom.Ray, maxT float64) bool { return scene.Occluded(p.things, r, maxT) }
	}
	row := p.grid[i]
	for j := range row {
		r := p.cam.Ray(i, j)
		h, ok := scene.Nearest(p.things, r)
		switch {
		case !ok:
			row[j] = light.Blank
		case len(p.lights) == 0:
			row[j] = h.Color
		default:
			row[j] = light.Glyph(light.Shade(p.lights, h.Point, h.Normal, r.D, occ))
		}
	}
}

// Run loops until simulated time passes Cfg.Duration, ctx is cancelled, or
// the sink fails. Cancellation is honoured between frames only.
func (p *Player) Run(ctx context.Context) (Stats, error) {
	dt := p.Cfg.Step()
	interval := p.Cfg.Interval()
	for {
		if err := ctx.Err(); err != nil {
			return p.stats, err
		}
		start := time.Now()
		p.Update(dt)
		p.RenderOnce()
		p.t += dt
		p.index++

		f := Frame{Index: p.index, T: p.t, Grid: p.grid, Stats: p.stats}
		f.Stats.Compute = time.Since(start)
		if p.sink != nil {
			if err := p.sink.Write(f); err != nil {
				return p.stats, fmt.Errorf("frame %d: %w", p.index, err)
			}
		}

		compute := time.Since(start)
		wait := interval - compute
		if wait < 0 || p.Cfg.Debug {
			wait = 0
		}
		p.stats.Compute, p.stats.Wait = compute, wait
		p.stats.TotalCompute += compute
		p.stats.TotalWait += wait
		if p.stats.Overrun() && !p.Cfg.Debug {
			log.Debug().Int("frame", p.index).Dur("compute", compute).Dur("interval", interval).Msg("frame overrun")
		}

		if p.t > p.Cfg.Duration {
			return p.stats, nil
		}
		if err := p.sleep(ctx, wait); err != nil {
			return p.stats, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
