// Package led paints frames onto an addressable LED matrix through periph.
package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/cosmo/internal/layout"
	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/render"
)

// Options selects the SPI port and matrix geometry.
type Options struct {
	SPIDev     string // "" opens the first registered port
	SpeedHz    int64
	Layout     layout.Layout
	Brightness float64 // 0..1 scale on every channel
}

// Sink draws each frame as a 1xN strip image, N = Layout.Count(). Cells are
// sampled nearest-neighbour from the render grid and shown as grey levels.
type Sink struct {
	Layout     layout.Layout
	Brightness float64
	// SPI is false when drawing to the console fallback.
	SPI bool

	drawer display.Drawer
	port   io.Closer
	img    *image.NRGBA
}

// NewSink wraps an existing drawer.
func NewSink(d display.Drawer, l layout.Layout, brightness float64) *Sink {
	if brightness <= 0 || brightness > 1 {
		brightness = 1
	}
	return &Sink{
		Layout:     l,
		Brightness: brightness,
		drawer:     d,
		img:        image.NewNRGBA(image.Rect(0, 0, l.Count(), 1)),
	}
}

// Open initializes the host, opens SPI and builds an nrzled strip. Without a
// SPI port it falls back to printing on the console.
func Open(o Options) (*Sink, error) {
	if o.Layout.Count() <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", o.Layout.Count())
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(o.SPIDev)
	if err != nil {
		log.Warn().Err(err).Str("dev", o.SPIDev).Msg("no SPI port; drawing LEDs on the console")
		return NewSink(screen.New(o.Layout.Count()), o.Layout, o.Brightness), nil
	}
	if o.SpeedHz <= 0 {
		o.SpeedHz = 800000
	}
	d, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: o.Layout.Count(),
		Channels:  3,
		Freq:      physic.Frequency(o.SpeedHz) * physic.Hertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	s := NewSink(d, o.Layout, o.Brightness)
	s.SPI, s.port = true, port
	log.Info().Str("port", port.String()).Int("pixels", o.Layout.Count()).Msg("LED strip ready")
	return s, nil
}

// Image renders grid into the strip image.
func (s *Sink) Image(grid [][]rune) *image.NRGBA {
	h := len(grid)
	w := 0
	if h > 0 {
		w = len(grid[0])
	}
	for r := 0; r < s.Layout.Rows; r++ {
		for c := 0; c < s.Layout.Cols; c++ {
			var v uint8
			if w > 0 {
				i, j := s.Layout.Sample(r, c, w, h)
				v = uint8(math.Round(light.Level(grid[i][j]) * s.Brightness * 255))
			}
			s.img.SetNRGBA(s.Layout.Index(r, c), 0, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return s.img
}

func (s *Sink) Write(f render.Frame) error {
	img := s.Image(f.Grid)
	if err := s.drawer.Draw(s.drawer.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("led draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *Sink) Close() error {
	err := s.drawer.Halt()
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
