package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// AABB is an axis-aligned bounding box. The zero value is not empty; use
// NewAABB or Clear.
type AABB struct {
	Min, Max r3.Vec
}

func NewAABB() AABB {
	var b AABB
	b.Clear()
	return b
}

// Clear resets b to the empty box.
func (b *AABB) Clear() {
	inf := math.Inf(1)
	b.Min = r3.Vec{X: inf, Y: inf, Z: inf}
	b.Max = r3.Vec{X: -inf, Y: -inf, Z: -inf}
}

// Empty reports whether no point has been added.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows b to include p.
func (b *AABB) Extend(p r3.Vec) {
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
}

func (b AABB) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Contains reports whether p is inside b, boundary included.
func (b AABB) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b AABB) Corners() [8]r3.Vec {
	var c [8]r3.Vec
	for i := range c {
		c[i] = b.Min
		if i&1 != 0 {
			c[i].X = b.Max.X
		}
		if i&2 != 0 {
			c[i].Y = b.Max.Y
		}
		if i&4 != 0 {
			c[i].Z = b.Max.Z
		}
	}
	return c
}

const (
	// hullSegments is how many pieces each box edge is split into before
	// projection; edges are arcs on the sphere, not straight lines.
	hullSegments = 8
	// hullMargin is how far (radians) outside the hull a direction may fall
	// and still be admitted. It covers the arc sag between samples.
	hullMargin = 0.02
)

// edges lists the 12 box edges as corner index pairs.
var edges = func() (e [12][2]int) {
	n := 0
	for i := 0; i < 8; i++ {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				e[n] = [2]int{i, i | bit}
				n++
			}
		}
	}
	return e
}()

// Cull is the projected silhouette of a box as seen from a fixed origin.
// A nil-hull Cull never rejects.
type Cull struct {
	frame Transform
	hull  Hull
}

// Hull projects b onto the unit sphere around origin. Directions are first
// turned so the box centre lies on +X, which keeps the projection away from
// the atan2 seam and the poles. The result never culls when origin is
// within sqrt(2) half-diagonals of the centre (the box would span more than
// 90 degrees), when the hull degenerates, or when the box spans more than a
// hemisphere of longitude.
func (b AABB) Hull(origin r3.Vec) Cull {
	if b.Empty() || b.Contains(origin) {
		return Cull{}
	}
	toCenter := r3.Sub(b.Center(), origin)
	halfDiag := r3.Norm(r3.Sub(b.Max, b.Min)) / 2
	if r3.Norm(toCenter) < math.Sqrt2*halfDiag {
		return Cull{}
	}
	frame := ShortestArc(toCenter, XAxis, r3.Vec{}).At(1)

	corners := b.Corners()
	pts := make([]r2.Vec, 0, len(edges)*hullSegments)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range edges {
		a, c := corners[e[0]], corners[e[1]]
		// k == hullSegments is the next edge's start corner or a repeat.
		for k := 0; k <= hullSegments; k++ {
			f := float64(k) / hullSegments
			p := r3.Add(r3.Scale(1-f, a), r3.Scale(f, c))
			s := Spherical(frame.Dir(r3.Sub(p, origin)))
			lo, hi = math.Min(lo, s.X), math.Max(hi, s.X)
			pts = append(pts, s)
		}
	}
	if hi-lo > math.Pi {
		return Cull{}
	}
	h := ConvexHull(pts)
	if len(h) < 3 {
		return Cull{}
	}
	return Cull{frame: frame, hull: h}
}

// Admits reports whether direction d may hit the box.
func (c Cull) Admits(d r3.Vec) bool {
	if c.hull == nil {
		return true
	}
	return InHullWithin(c.hull, Spherical(c.frame.Dir(d)), hullMargin)
}

// Intersect is the slab test: whether ray r, for t >= 0, touches b.
func (b AABB) Intersect(r Ray) bool {
	if b.Empty() {
		return false
	}
	tmin, tmax := 0.0, math.Inf(1)
	for i := 0; i < 3; i++ {
		p, d := component(r.P, i), component(r.D, i)
		lo, hi := component(b.Min, i), component(b.Max, i)
		if math.Abs(d) < Eps {
			if p < lo || p > hi {
				return false
			}
			continue
		}
		t0, t1 := (lo-p)/d, (hi-p)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin, tmax = math.Max(tmin, t0), math.Min(tmax, t1)
		if tmin > tmax {
			return false
		}
	}
	return true
}

func component(v r3.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
