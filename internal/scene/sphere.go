package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

type Sphere struct {
	Center r3.Vec
	Radius float64
	Color  rune
	Move   geom.Movement
}

func NewSphere(center r3.Vec, radius float64, color rune, move geom.Movement) *Sphere {
	return &Sphere{Center: center, Radius: radius, Color: color, Move: move}
}

func (s *Sphere) Intersect(r geom.Ray) (Hit, bool) {
	oc := r3.Sub(r.P, s.Center)
	a := r3.Dot(r.D, r.D)
	if a < geom.Eps {
		return Hit{}, false
	}
	b := 2 * r3.Dot(oc, r.D)
	c := r3.Dot(oc, oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return Hit{}, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t <= 0 {
		// Origin inside the sphere.
		t = (-b + sq) / (2 * a)
	}
	if t <= 0 {
		return Hit{}, false
	}
	p := r.At(t)
	n := geom.Unit(r3.Sub(p, s.Center))
	return Hit{T: t, Point: p, Normal: n, Color: s.Color}, true
}

func (s *Sphere) Update(dt float64, parent geom.Movement) {
	m := parent.Or(s.Move)
	if m.IsZero() {
		return
	}
	s.Center = m.Apply(dt, s.Center)
}
