// Package loader reads the line-oriented scene format:
//
//	// comment
//	P name x y z
//	T a b c glyph [R deg px py pz dx dy dz]
//	S cx cy cz radius glyph [R ...]
//	TO cx cy cz ax ay az major minor glyph [R ...]
//	STL path glyph [R ...]
//	C O dx dy dz px py pz scale
//	C P dx dy dz px py pz scale focal
//	L D dx dy dz intensity [R ...]
//	L P px py pz intensity [R ...]
//	OBJ ... M R ... ... END_OBJ
//
// Rotation rates are in degrees per time unit. Only the first camera is
// used. OBJ blocks nest.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/camera"
	"github.com/coreman2200/cosmo/internal/geom"
	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/scene"
)

var (
	ErrNoCamera     = errors.New("scene has no camera")
	ErrUnknownTag   = errors.New("unknown tag")
	ErrUnknownPoint = errors.New("unknown point")
	ErrArgs         = errors.New("wrong number of arguments")
)

// Options size the camera and resolve relative mesh paths.
type Options struct {
	Width, Height int
	Dir           string
}

// Scene is everything a Player needs.
type Scene struct {
	Things []scene.Thing
	Camera *camera.Camera
	Lights []*light.Light
}

// Load parses the scene file at path. Mesh paths resolve against the file's
// directory unless opt.Dir is set.
func Load(path string, opt Options) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	if opt.Dir == "" {
		opt.Dir = filepath.Dir(path)
	}
	sc, err := Parse(f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

type parser struct {
	opt    Options
	points map[string]r3.Vec
	open   []*scene.Object
	out    Scene
}

// Parse reads a scene from r.
func Parse(r io.Reader, opt Options) (*Scene, error) {
	p := &parser{opt: opt, points: map[string]r3.Vec{}}
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		tok := strings.Fields(sc.Text())
		if len(tok) == 0 || strings.HasPrefix(tok[0], "//") {
			continue
		}
		if err := p.line(tok); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.open) > 0 {
		return nil, fmt.Errorf("line %d: %d OBJ block(s) not closed", n, len(p.open))
	}
	if p.out.Camera == nil {
		return nil, ErrNoCamera
	}
	log.Debug().
		Int("things", len(p.out.Things)).
		Int("lights", len(p.out.Lights)).
		Str("camera", p.out.Camera.Projection.String()).
		Msg("scene loaded")
	return &p.out, nil
}

func (p *parser) line(tok []string) error {
	args := tok[1:]
	switch tok[0] {
	case "P":
		if len(args) < 4 {
			return fmt.Errorf("P: %w", ErrArgs)
		}
		v, err := vec(args[1:4])
		if err != nil {
			return err
		}
		p.points[args[0]] = v
	case "T":
		return p.triangle(args)
	case "S":
		return p.sphere(args)
	case "TO":
		return p.torus(args)
	case "STL":
		return p.mesh(args)
	case "C":
		return p.camera(args)
	case "L":
		return p.light(args)
	case "OBJ":
		p.open = append(p.open, scene.NewObject(geom.Movement{}))
	case "M":
		if len(p.open) == 0 {
			return errors.New("M outside OBJ")
		}
		m, err := movement(args)
		if err != nil {
			return err
		}
		p.open[len(p.open)-1].Move = m
	case "END_OBJ":
		if len(p.open) == 0 {
			return errors.New("END_OBJ without OBJ")
		}
		o := p.open[len(p.open)-1]
		p.open = p.open[:len(p.open)-1]
		p.add(o)
	default:
		return fmt.Errorf("%w %q", ErrUnknownTag, tok[0])
	}
	return nil
}

func (p *parser) add(th scene.Thing) {
	if len(p.open) > 0 {
		p.open[len(p.open)-1].Add(th)
		return
	}
	p.out.Things = append(p.out.Things, th)
}

func (p *parser) point(name string) (r3.Vec, error) {
	v, ok := p.points[name]
	if !ok {
		return r3.Vec{}, fmt.Errorf("%w %q", ErrUnknownPoint, name)
	}
	return v, nil
}

func (p *parser) triangle(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("T: %w", ErrArgs)
	}
	var v [3]r3.Vec
	for i := range v {
		var err error
		if v[i], err = p.point(args[i]); err != nil {
			return err
		}
	}
	m, err := movement(args[4:])
	if err != nil {
		return err
	}
	p.add(scene.NewTriangle(v[0], v[1], v[2], glyph(args[3]), m))
	return nil
}

func (p *parser) sphere(args []string) error {
	if len(args) < 5 {
		return fmt.Errorf("S: %w", ErrArgs)
	}
	f, err := floats(args[:4])
	if err != nil {
		return err
	}
	m, err := movement(args[5:])
	if err != nil {
		return err
	}
	c := r3.Vec{X: f[0], Y: f[1], Z: f[2]}
	p.add(scene.NewSphere(c, f[3], glyph(args[4]), m))
	return nil
}

func (p *parser) torus(args []string) error {
	if len(args) < 9 {
		return fmt.Errorf("TO: %w", ErrArgs)
	}
	f, err := floats(args[:8])
	if err != nil {
		return err
	}
	m, err := movement(args[9:])
	if err != nil {
		return err
	}
	c := r3.Vec{X: f[0], Y: f[1], Z: f[2]}
	axis := r3.Vec{X: f[3], Y: f[4], Z: f[5]}
	p.add(scene.NewTorus(c, axis, f[6], f[7], glyph(args[8]), m))
	return nil
}

func (p *parser) mesh(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("STL: %w", ErrArgs)
	}
	path := args[0]
	if !filepath.IsAbs(path) && p.opt.Dir != "" {
		path = filepath.Join(p.opt.Dir, path)
	}
	facets, err := LoadSTL(path)
	if err != nil {
		return err
	}
	m, err := movement(args[2:])
	if err != nil {
		return err
	}
	g := glyph(args[1])
	o := scene.NewObject(m)
	for _, f := range facets {
		o.Add(scene.NewTriangle(f[0], f[1], f[2], g, geom.Movement{}))
	}
	log.Debug().Str("path", path).Int("facets", len(facets)).Msg("mesh loaded")
	p.add(o)
	return nil
}

func (p *parser) camera(args []string) error {
	if len(args) < 8 {
		return fmt.Errorf("C: %w", ErrArgs)
	}
	if p.out.Camera != nil {
		log.Debug().Msg("extra camera ignored")
		return nil
	}
	f, err := floats(args[1:8])
	if err != nil {
		return err
	}
	d := r3.Vec{X: f[0], Y: f[1], Z: f[2]}
	pos := r3.Vec{X: f[3], Y: f[4], Z: f[5]}
	if geom.IsZero(d) {
		return errors.New("camera direction is zero")
	}
	switch args[0] {
	case "O":
		p.out.Camera = camera.NewOrtho(d, pos, f[6], p.opt.Width, p.opt.Height)
	case "P":
		if len(args) < 9 {
			return fmt.Errorf("C P: %w", ErrArgs)
		}
		focal, err := strconv.ParseFloat(args[8], 64)
		if err != nil {
			return err
		}
		p.out.Camera = camera.NewPerspective(d, pos, f[6], focal, p.opt.Width, p.opt.Height)
	default:
		return fmt.Errorf("%w camera %q", ErrUnknownTag, args[0])
	}
	return nil
}

func (p *parser) light(args []string) error {
	if len(args) < 5 {
		return fmt.Errorf("L: %w", ErrArgs)
	}
	f, err := floats(args[1:5])
	if err != nil {
		return err
	}
	m, err := movement(args[5:])
	if err != nil {
		return err
	}
	v := r3.Vec{X: f[0], Y: f[1], Z: f[2]}
	switch args[0] {
	case "D":
		p.out.Lights = append(p.out.Lights, light.NewDirectional(v, f[3], m))
	case "P":
		p.out.Lights = append(p.out.Lights, light.NewPoint(v, f[3], m))
	default:
		return fmt.Errorf("%w light %q", ErrUnknownTag, args[0])
	}
	return nil
}

// movement parses an optional trailing "R deg px py pz dx dy dz". Anything
// else is ignored.
func movement(args []string) (geom.Movement, error) {
	if len(args) == 0 || args[0] != "R" {
		return geom.Movement{}, nil
	}
	if len(args) < 8 {
		return geom.Movement{}, fmt.Errorf("R: %w", ErrArgs)
	}
	f, err := floats(args[1:8])
	if err != nil {
		return geom.Movement{}, err
	}
	rate := f[0] * math.Pi / 180
	anchor := r3.Vec{X: f[1], Y: f[2], Z: f[3]}
	axis := r3.Vec{X: f[4], Y: f[5], Z: f[6]}
	return geom.NewRotate(rate, anchor, axis), nil
}

func glyph(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func vec(args []string) (r3.Vec, error) {
	f, err := floats(args)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}
