package app

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/cosmo/internal/config"
	"github.com/coreman2200/cosmo/internal/control"
	"github.com/coreman2200/cosmo/internal/loader"
	"github.com/coreman2200/cosmo/internal/render"
)

// Core is a loaded scene ready to play.
type Core struct {
	Player  *render.Player
	Scene   *loader.Scene
	Control *control.Shared
}

// RenderConfig converts the file/flag config into player settings.
func RenderConfig(c *config.Config) render.Config {
	return render.Config{
		FPS:       c.FPS,
		Width:     c.Width,
		Height:    c.Height,
		Duration:  c.Duration,
		Shadows:   config.On(c.Shadows),
		Bounds:    config.On(c.Bounds),
		Debug:     config.On(c.Debug),
		Workers:   c.Workers,
		SteerRate: c.SteerDeg * math.Pi / 180,
	}
}

// InitCore loads cfg.Scene and wires it into a Player that writes to sink
// and steers from ctl (a fresh one when nil).
func InitCore(cfg *config.Config, sink render.Sink, ctl *control.Shared) (*Core, error) {
	if cfg.Scene == "" {
		return nil, fmt.Errorf("no scene file given")
	}
	sc, err := loader.Load(cfg.Scene, loader.Options{Width: cfg.Width, Height: cfg.Height})
	if err != nil {
		return nil, err
	}
	p, err := render.NewPlayer(RenderConfig(cfg), sc.Camera, sink)
	if err != nil {
		return nil, err
	}
	for _, th := range sc.Things {
		p.AddThing(th)
	}
	for _, l := range sc.Lights {
		p.AddLight(l)
	}
	if ctl == nil {
		ctl = control.NewShared(control.DefaultWindow)
	}
	p.SetControl(ctl)

	log.Info().
		Str("scene", cfg.Scene).
		Int("things", len(sc.Things)).
		Int("lights", len(sc.Lights)).
		Str("camera", sc.Camera.Projection.String()).
		Msg("scene loaded")
	return &Core{Player: p, Scene: sc, Control: ctl}, nil
}
