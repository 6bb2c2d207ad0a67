package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MoveKind tags the Movement variant.
type MoveKind uint8

const (
	MoveNone MoveKind = iota
	MoveRotate
)

// Movement is a rigid rotation about an axis through Anchor at Rate radians
// per time unit. The zero value does nothing.
type Movement struct {
	Kind   MoveKind
	Rate   float64
	Anchor r3.Vec
	Axis   r3.Vec
}

// NewRotate builds a rotation. A zero axis or rate yields no movement.
func NewRotate(rate float64, anchor, axis r3.Vec) Movement {
	axis = Unit(axis)
	if rate == 0 || IsZero(axis) {
		return Movement{}
	}
	return Movement{Kind: MoveRotate, Rate: rate, Anchor: anchor, Axis: axis}
}

// ShortestArc returns the rotation that carries direction from onto
// direction to when applied for one time unit. Antiparallel inputs turn by
// pi about an axis perpendicular to from, preferring one that keeps +Z
// upright so cameras built this way are not flipped.
func ShortestArc(from, to, anchor r3.Vec) Movement {
	f, t := Unit(from), Unit(to)
	if IsZero(f) || IsZero(t) {
		return Movement{}
	}
	c := clamp(r3.Dot(f, t), -1, 1)
	axis := r3.Cross(f, t)
	if r3.Norm(axis) < 1e-9 {
		if c > 0 {
			return Movement{}
		}
		axis = perpendicular(f)
	}
	return NewRotate(math.Acos(c), anchor, axis)
}

func perpendicular(f r3.Vec) r3.Vec {
	for _, ref := range []r3.Vec{ZAxis, XAxis, YAxis} {
		p := r3.Sub(ref, r3.Scale(r3.Dot(ref, f), f))
		if r3.Norm(p) > 1e-6 {
			return Unit(p)
		}
	}
	return ZAxis
}

// IsZero reports whether m leaves everything in place.
func (m Movement) IsZero() bool { return m.Kind == MoveNone }

// Or returns m, or fallback when m is empty.
func (m Movement) Or(fallback Movement) Movement {
	if m.IsZero() {
		return fallback
	}
	return m
}

// At resolves the movement over an elapsed dt into a reusable transform.
func (m Movement) At(dt float64) Transform {
	if m.IsZero() || m.Rate*dt == 0 {
		return Transform{id: true}
	}
	return Transform{
		rot:    r3.NewRotation(m.Rate*dt, m.Axis),
		anchor: m.Anchor,
	}
}

// Apply moves point p by dt.
func (m Movement) Apply(dt float64, p r3.Vec) r3.Vec { return m.At(dt).Point(p) }

// ApplyDir turns the free vector d by dt; the anchor plays no part.
func (m Movement) ApplyDir(dt float64, d r3.Vec) r3.Vec { return m.At(dt).Dir(d) }

// Transform is a Movement evaluated for a fixed dt.
type Transform struct {
	rot    r3.Rotation
	anchor r3.Vec
	id     bool
}

func (t Transform) Point(p r3.Vec) r3.Vec {
	if t.id {
		return p
	}
	return r3.Add(t.rot.Rotate(r3.Sub(p, t.anchor)), t.anchor)
}

func (t Transform) Dir(d r3.Vec) r3.Vec {
	if t.id {
		return d
	}
	return t.rot.Rotate(d)
}
