package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr string `yaml:"addr"` // e.g. :8080
}

type LED struct {
	SPIDev     string  `yaml:"spi_dev"`              // "" picks the first port
	SpeedHz    int64   `yaml:"speed_hz"`             // nrzled stream frequency
	Cols       int     `yaml:"cols"`                 // matrix columns; 0 = render width
	Rows       int     `yaml:"rows"`                 // matrix rows; 0 = render height
	Serpentine *bool   `yaml:"serpentine,omitempty"` // flip every other row
	Brightness float64 `yaml:"brightness"`
}

// Config mirrors the cosmo flags. Zero values mean "not set"; pointer bools
// distinguish false from absent.
type Config struct {
	Scene    string  `yaml:"scene"`
	FPS      float64 `yaml:"fps"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Duration float64 `yaml:"duration"`
	Workers  int     `yaml:"workers"`
	SteerDeg float64 `yaml:"steer_deg"` // degrees per time unit

	Shadows *bool `yaml:"shadows,omitempty"`
	Bounds  *bool `yaml:"bounds,omitempty"`
	Debug   *bool `yaml:"debug,omitempty"`

	Sink   string `yaml:"sink"` // term | ansi | ws | led | log
	Server Server `yaml:"server,omitempty"`
	LED    LED    `yaml:"led,omitempty"`
}

// Default is the baseline every run starts from.
func Default() *Config {
	return &Config{
		FPS:      24,
		Width:    80,
		Height:   40,
		Duration: 10,
		Workers:  1,
		SteerDeg: 45,
		Sink:     "term",
		Server:   Server{Addr: ":8080"},
		LED:      LED{SpeedHz: 800000, Serpentine: Bool(true), Brightness: 0.5},
	}
}

// Merge overlays the non-zero fields of o onto c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Scene != "" {
		c.Scene = o.Scene
	}
	c.FPS = firstNonZero(o.FPS, c.FPS)
	c.Duration = firstNonZero(o.Duration, c.Duration)
	c.SteerDeg = firstNonZero(o.SteerDeg, c.SteerDeg)
	if o.Width > 0 {
		c.Width = o.Width
	}
	if o.Height > 0 {
		c.Height = o.Height
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.Shadows != nil {
		c.Shadows = o.Shadows
	}
	if o.Bounds != nil {
		c.Bounds = o.Bounds
	}
	if o.Debug != nil {
		c.Debug = o.Debug
	}
	if o.Sink != "" {
		c.Sink = o.Sink
	}
	if o.Server.Addr != "" {
		c.Server.Addr = o.Server.Addr
	}
	if o.LED.SPIDev != "" {
		c.LED.SPIDev = o.LED.SPIDev
	}
	if o.LED.SpeedHz > 0 {
		c.LED.SpeedHz = o.LED.SpeedHz
	}
	if o.LED.Cols > 0 {
		c.LED.Cols = o.LED.Cols
	}
	if o.LED.Rows > 0 {
		c.LED.Rows = o.LED.Rows
	}
	if o.LED.Serpentine != nil {
		c.LED.Serpentine = o.LED.Serpentine
	}
	c.LED.Brightness = firstNonZero(o.LED.Brightness, c.LED.Brightness)
}

// On reads an optional flag.
func On(b *bool) bool { return b != nil && *b }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

func firstNonZero(v, fallback float64) float64 {
	if v != 0 {
		return v
	}
	return fallback
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
