package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

// Triangle is one-sided: only rays travelling against its normal
// (B-A)x(C-A) can hit it.
type Triangle struct {
	A, B, C r3.Vec
	Color   rune
	Move    geom.Movement

	v0, v1              r3.Vec
	dot00, dot01, dot11 float64
	invDenom            float64
	n                   r3.Vec
	degenerate          bool
}

func NewTriangle(a, b, c r3.Vec, color rune, move geom.Movement) *Triangle {
	tr := &Triangle{A: a, B: b, C: c, Color: color, Move: move}
	tr.process()
	return tr
}

func (tr *Triangle) process() {
	tr.v0 = r3.Sub(tr.C, tr.A)
	tr.v1 = r3.Sub(tr.B, tr.A)
	tr.dot00 = r3.Dot(tr.v0, tr.v0)
	tr.dot01 = r3.Dot(tr.v0, tr.v1)
	tr.dot11 = r3.Dot(tr.v1, tr.v1)
	den := tr.dot00*tr.dot11 - tr.dot01*tr.dot01
	tr.degenerate = den < geom.Eps
	if !tr.degenerate {
		tr.invDenom = 1 / den
	}
	tr.n = geom.Unit(r3.Cross(tr.v1, tr.v0))
}

// Normal returns the unit face normal.
func (tr *Triangle) Normal() r3.Vec { return tr.n }

func (tr *Triangle) contains(p r3.Vec) bool {
	v2 := r3.Sub(p, tr.A)
	dot02 := r3.Dot(tr.v0, v2)
	dot12 := r3.Dot(tr.v1, v2)
	u := (tr.dot11*dot02 - tr.dot01*dot12) * tr.invDenom
	v := (tr.dot00*dot12 - tr.dot01*dot02) * tr.invDenom
	// The edge opposite A is open so neighbours never both claim it.
	return u >= 0 && v >= 0 && u+v < 1
}

func (tr *Triangle) Intersect(r geom.Ray) (Hit, bool) {
	if tr.degenerate {
		return Hit{}, false
	}
	denom := r3.Dot(tr.n, r.D)
	if denom > -1e-6 {
		return Hit{}, false
	}
	t := r3.Dot(tr.n, r3.Sub(tr.A, r.P)) / denom
	if t <= 0 {
		return Hit{}, false
	}
	p := r.At(t)
	if !tr.contains(p) {
		return Hit{}, false
	}
	return Hit{T: t, Point: p, Normal: tr.n, Color: tr.Color}, true
}

func (tr *Triangle) Update(dt float64, parent geom.Movement) {
	m := parent.Or(tr.Move)
	if m.IsZero() {
		return
	}
	x := m.At(dt)
	tr.A, tr.B, tr.C = x.Point(tr.A), x.Point(tr.B), x.Point(tr.C)
	tr.process()
}
