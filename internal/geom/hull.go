package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hull is a counter-clockwise convex polygon in (longitude, colatitude) space.
type Hull []r2.Vec

// Spherical maps a direction onto (atan2(y, x), acos(z)). d is normalized
// first; the zero vector maps to the origin.
func Spherical(d r3.Vec) r2.Vec {
	d = Unit(d)
	if IsZero(d) {
		return r2.Vec{}
	}
	return r2.Vec{X: math.Atan2(d.Y, d.X), Y: math.Acos(clamp(d.Z, -1, 1))}
}

// cross is the z component of (a-o) x (b-o); positive for a left turn.
func cross(o, a, b r2.Vec) float64 {
	return r2.Cross(r2.Sub(a, o), r2.Sub(b, o))
}

// ConvexHull returns the hull of pts by Andrew's monotone chain. Collinear
// points are dropped and the result starts at the lexicographically smallest
// point. pts is sorted in place.
func ConvexHull(pts []r2.Vec) Hull {
	if len(pts) < 3 {
		return append(Hull(nil), pts...)
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	h := make(Hull, 0, 2*len(pts))
	for _, p := range pts {
		for len(h) >= 2 && cross(h[len(h)-2], h[len(h)-1], p) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, p)
	}
	lower := len(h) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(h) >= lower && cross(h[len(h)-2], h[len(h)-1], p) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, p)
	}
	return h[:len(h)-1]
}

// InHull reports whether p lies inside h or on its boundary.
func InHull(h Hull, p r2.Vec) bool { return InHullWithin(h, p, 0) }

// InHullWithin is InHull with every edge pushed outward by margin.
func InHullWithin(h Hull, p r2.Vec, margin float64) bool {
	for i := range h {
		j := (i + 1) % len(h)
		if cross(h[i], h[j], p) < -margin*r2.Norm(r2.Sub(h[j], h[i])) {
			return false
		}
	}
	return true
}
