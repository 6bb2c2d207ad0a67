package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

// Object groups children under a shared movement and an optional bounding
// box. Children are owned by the object and fixed after construction.
type Object struct {
	Children []Thing
	Move     geom.Movement

	bounded bool
	box     geom.AABB

	// Written by Prepare and Update on the simulating goroutine, read by
	// render workers only after that step finishes.
	origin   r3.Vec
	prepared bool
	cull     geom.Cull
}

func NewObject(move geom.Movement, children ...Thing) *Object {
	return &Object{Children: children, Move: move}
}

// Add appends a child. Not safe during rendering.
func (o *Object) Add(th Thing) {
	o.Children = append(o.Children, th)
	if o.bounded {
		o.rebuild()
	}
}

// EnableBounds wraps the children in an AABB used to cull rays.
func (o *Object) EnableBounds() {
	o.bounded = true
	o.rebuild()
}

// Bounds returns the current box and whether culling is enabled.
func (o *Object) Bounds() (geom.AABB, bool) { return o.box, o.bounded }

func (o *Object) rebuild() {
	o.box.Clear()
	for _, c := range o.Children {
		Extents(c, &o.box)
	}
	o.prepared = false
}

// Prepare projects the box once for rays leaving origin. Nested objects are
// prepared too.
func (o *Object) Prepare(origin r3.Vec) {
	for _, c := range o.Children {
		Prepare(c, origin)
	}
	if !o.bounded {
		return
	}
	o.origin, o.prepared = origin, true
	o.cull = o.box.Hull(origin)
}

// admits uses the prepared silhouette for rays from the prepared origin and
// the slab test for any other ray (ortho cameras, shadow rays).
func (o *Object) admits(r geom.Ray) bool {
	if !o.bounded {
		return true
	}
	if o.prepared && o.origin == r.P {
		return o.cull.Admits(r.D)
	}
	return o.box.Intersect(r)
}

// Intersect returns the nearest child hit.
func (o *Object) Intersect(r geom.Ray) (Hit, bool) {
	if !o.admits(r) {
		return Hit{}, false
	}
	return Nearest(o.Children, r)
}

// Update moves every child by the effective movement: the parent's when set,
// otherwise the object's own.
func (o *Object) Update(dt float64, parent geom.Movement) {
	m := parent.Or(o.Move)
	for _, c := range o.Children {
		Update(c, dt, m)
	}
	if o.bounded {
		o.rebuild()
	}
}
