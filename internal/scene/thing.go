// Package scene holds the renderable primitives and the object graph that
// groups them.
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

// Hit describes the nearest surface a ray reached.
type Hit struct {
	T      float64
	Point  r3.Vec
	Normal r3.Vec
	Color  rune
}

// Thing is one of *Triangle, *Sphere, *Torus or *Object.
type Thing interface {
	thing()
}

func (*Triangle) thing() {}
func (*Sphere) thing()   {}
func (*Torus) thing()    {}
func (*Object) thing()   {}

// Intersect dispatches r to th.
func Intersect(th Thing, r geom.Ray) (Hit, bool) {
	switch v := th.(type) {
	case *Triangle:
		return v.Intersect(r)
	case *Sphere:
		return v.Intersect(r)
	case *Torus:
		return v.Intersect(r)
	case *Object:
		return v.Intersect(r)
	}
	return Hit{}, false
}

// Update advances th by dt. A non-zero parent movement replaces th's own.
func Update(th Thing, dt float64, parent geom.Movement) {
	switch v := th.(type) {
	case *Triangle:
		v.Update(dt, parent)
	case *Sphere:
		v.Update(dt, parent)
	case *Torus:
		v.Update(dt, parent)
	case *Object:
		v.Update(dt, parent)
	}
}

// Extents grows b to enclose th.
func Extents(th Thing, b *geom.AABB) {
	switch v := th.(type) {
	case *Triangle:
		b.Extend(v.A)
		b.Extend(v.B)
		b.Extend(v.C)
	case *Sphere:
		rr := r3.Vec{X: v.Radius, Y: v.Radius, Z: v.Radius}
		b.Extend(r3.Sub(v.Center, rr))
		b.Extend(r3.Add(v.Center, rr))
	case *Torus:
		// The outer radius bounds the ring in every direction.
		e := v.Major + v.Minor
		rr := r3.Vec{X: e, Y: e, Z: e}
		b.Extend(r3.Sub(v.Center, rr))
		b.Extend(r3.Add(v.Center, rr))
	case *Object:
		for _, c := range v.Children {
			Extents(c, b)
		}
	}
}

// Prepare caches per-frame culling state for rays sharing origin.
func Prepare(th Thing, origin r3.Vec) {
	if o, ok := th.(*Object); ok {
		o.Prepare(origin)
	}
}

// Nearest returns the closest hit of r against things.
func Nearest(things []Thing, r geom.Ray) (Hit, bool) {
	best := Hit{T: math.Inf(1)}
	found := false
	for _, th := range things {
		h, ok := Intersect(th, r)
		if ok && h.T < best.T {
			best, found = h, true
		}
	}
	return best, found
}

// Occluded reports whether anything is hit by r closer than maxT.
func Occluded(things []Thing, r geom.Ray, maxT float64) bool {
	for _, th := range things {
		if h, ok := Intersect(th, r); ok && h.T < maxT {
			return true
		}
	}
	return false
}
