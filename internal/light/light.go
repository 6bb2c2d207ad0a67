// Package light computes per-hit luminance and maps it onto glyphs.
package light

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

type Kind uint8

const (
	Directional Kind = iota
	Point
)

func (k Kind) String() string {
	if k == Point {
		return "point"
	}
	return "directional"
}

// Light is a directional light (Dir) or a point light (Pos).
type Light struct {
	Kind      Kind
	Dir       r3.Vec
	Pos       r3.Vec
	Intensity float64
	Move      geom.Movement
}

func NewDirectional(dir r3.Vec, intensity float64, move geom.Movement) *Light {
	return &Light{Kind: Directional, Dir: geom.Unit(dir), Intensity: intensity, Move: move}
}

func NewPoint(pos r3.Vec, intensity float64, move geom.Movement) *Light {
	return &Light{Kind: Point, Pos: pos, Intensity: intensity, Move: move}
}

// Ray returns the shadow ray from p toward the light and the distance
// beyond which blockers no longer count.
func (l *Light) Ray(p r3.Vec) (geom.Ray, float64) {
	if l.Kind == Point {
		to := r3.Sub(l.Pos, p)
		return geom.Ray{P: p, D: geom.Unit(to)}, r3.Norm(to)
	}
	return geom.Ray{P: p, D: r3.Scale(-1, l.Dir)}, math.Inf(1)
}

// Lum is the contribution of l at p with unit normal n. out is the viewing
// direction, unused until surfaces gain material properties.
func (l *Light) Lum(p, n, out r3.Vec) float64 {
	switch l.Kind {
	case Directional:
		c := r3.Dot(l.Dir, n)
		if c > -1e-6 {
			return 0
		}
		return -c * l.Intensity
	case Point:
		v := r3.Sub(p, l.Pos)
		d := geom.Unit(v)
		c := r3.Dot(d, n)
		if c > -1e-6 {
			return 0
		}
		return -c * l.Intensity / math.Max(r3.Norm2(v), 1)
	}
	return 0
}

// Update turns a directional light or moves a point light.
func (l *Light) Update(dt float64) {
	if l.Move.IsZero() {
		return
	}
	x := l.Move.At(dt)
	if l.Kind == Point {
		l.Pos = x.Point(l.Pos)
		return
	}
	l.Dir = geom.Unit(x.Dir(l.Dir))
}
