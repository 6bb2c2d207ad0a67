package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

const (
	torusGuess    = 1e-3
	torusMaxIter  = 20
	torusStepTol  = 1e-7
	torusSlopeTol = 1e-12
	torusValueTol = 1e-4
)

// Torus is a ring of tube radius Minor swept at distance Major around Axis
// through Center.
type Torus struct {
	Center       r3.Vec
	Axis         r3.Vec
	Major, Minor float64
	Color        rune
	Move         geom.Movement

	toLocal, toWorld geom.Transform
	degenerate       bool
}

func NewTorus(center, axis r3.Vec, major, minor float64, color rune, move geom.Movement) *Torus {
	to := &Torus{Center: center, Axis: geom.Unit(axis), Major: major, Minor: minor, Color: color, Move: move}
	to.process()
	return to
}

func (to *Torus) process() {
	to.degenerate = geom.IsZero(to.Axis)
	if to.degenerate {
		return
	}
	to.toLocal = geom.ShortestArc(to.Axis, geom.ZAxis, r3.Vec{}).At(1)
	to.toWorld = geom.ShortestArc(geom.ZAxis, to.Axis, r3.Vec{}).At(1)
}

// eval returns f(s) and f'(s) for the canonical-frame ray p + s*d.
func (to *Torus) eval(p, d r3.Vec, s float64) (float64, float64) {
	x, y, z := p.X+s*d.X, p.Y+s*d.Y, p.Z+s*d.Z
	rho := math.Hypot(x, y)
	k := rho - to.Major
	f := k*k + z*z - to.Minor*to.Minor

	var drho float64
	if rho < geom.Eps {
		drho = math.Hypot(d.X, d.Y)
	} else {
		drho = (x*d.X + y*d.Y) / rho
	}
	return f, 2*k*drho + 2*z*d.Z
}

func (to *Torus) Intersect(r geom.Ray) (Hit, bool) {
	if to.degenerate || geom.IsZero(r.D) {
		return Hit{}, false
	}
	p := to.toLocal.Dir(r3.Sub(r.P, to.Center))
	d := to.toLocal.Dir(r.D)

	s := torusGuess
	for i := 0; i < torusMaxIter; i++ {
		f, df := to.eval(p, d, s)
		if math.Abs(df) < torusSlopeTol {
			return Hit{}, false
		}
		step := f / df
		s -= step
		if math.Abs(step) >= torusStepTol {
			continue
		}
		if s <= 0 {
			return Hit{}, false
		}
		if f, _ := to.eval(p, d, s); math.Abs(f) > torusValueTol {
			return Hit{}, false
		}
		return to.hit(r, p, d, s), true
	}
	return Hit{}, false
}

func (to *Torus) hit(r geom.Ray, p, d r3.Vec, s float64) Hit {
	q := r3.Add(p, r3.Scale(s, d))
	rho := math.Hypot(q.X, q.Y)
	var g r3.Vec
	if rho < geom.Eps {
		g = r3.Vec{Z: q.Z}
	} else {
		k := 2 * (rho - to.Major) / rho
		g = r3.Vec{X: k * q.X, Y: k * q.Y, Z: 2 * q.Z}
	}
	return Hit{
		T:      s,
		Point:  r.At(s),
		Normal: geom.Unit(to.toWorld.Dir(g)),
		Color:  to.Color,
	}
}

func (to *Torus) Update(dt float64, parent geom.Movement) {
	m := parent.Or(to.Move)
	if m.IsZero() {
		return
	}
	x := m.At(dt)
	to.Center = x.Point(to.Center)
	to.Axis = geom.Unit(x.Dir(to.Axis))
	to.process()
}
