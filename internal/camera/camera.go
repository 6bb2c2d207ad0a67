// Package camera precomputes one ray per output cell.
package camera

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/control"
	"github.com/coreman2200/cosmo/internal/geom"
)

type Projection uint8

const (
	Ortho Projection = iota
	Perspective
)

func (p Projection) String() string {
	if p == Perspective {
		return "perspective"
	}
	return "ortho"
}

// Camera holds a W x H grid of rays in row-major order. The canonical camera
// looks along -X with +Z up and +Y to the right; it is turned onto its
// direction with the shortest arc from -X.
type Camera struct {
	Projection Projection
	W, H       int

	rays []geom.Ray
	pos  r3.Vec
	dir  r3.Vec
}

var canonical = r3.Vec{X: -1}

// cell returns the canonical image-plane offset of cell (i, j).
func cell(i, j, w, h int, scale float64) r3.Vec {
	return r3.Vec{
		Y: (float64(j) - float64(w)/2) / scale,
		Z: (float64(h)/2 - float64(i)) * 2 / scale,
	}
}

// NewOrtho builds parallel rays along d, laid out on the plane through p
// perpendicular to d. Rows are twice as tall as columns are wide, matching
// terminal glyph cells.
func NewOrtho(d, p r3.Vec, scale float64, w, h int) *Camera {
	d = geom.Unit(d)
	rot := geom.ShortestArc(canonical, d, r3.Vec{}).At(1)
	c := &Camera{Projection: Ortho, W: w, H: h, rays: make([]geom.Ray, 0, w*h), pos: p, dir: d}
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			o := r3.Add(rot.Point(cell(i, j, w, h, scale)), p)
			c.rays = append(c.rays, geom.Ray{P: o, D: d})
		}
	}
	return c
}

// NewPerspective builds rays from p through an image plane focal units
// behind the eye, turned to face d.
func NewPerspective(d, p r3.Vec, scale, focal float64, w, h int) *Camera {
	d = geom.Unit(d)
	eye := r3.Vec{X: focal}
	rot := geom.ShortestArc(canonical, d, eye).At(1)
	c := &Camera{Projection: Perspective, W: w, H: h, rays: make([]geom.Ray, 0, w*h), pos: p, dir: d}
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			q := r3.Add(rot.Point(cell(i, j, w, h, scale)), r3.Sub(p, eye))
			c.rays = append(c.rays, geom.Ray{P: p, D: geom.Unit(r3.Sub(q, p))})
		}
	}
	return c
}

// Ray returns the ray for row i, column j.
func (c *Camera) Ray(i, j int) geom.Ray { return c.rays[i*c.W+j] }

// Position and Direction track the camera frame through updates.
func (c *Camera) Position() r3.Vec  { return c.pos }
func (c *Camera) Direction() r3.Vec { return c.dir }

// Origin returns the point every ray leaves from, if they share one.
func (c *Camera) Origin() (r3.Vec, bool) {
	if c.Projection != Perspective || len(c.rays) == 0 {
		return r3.Vec{}, false
	}
	return c.rays[0].P, true
}

// Update moves every cached ray by m over dt.
func (c *Camera) Update(dt float64, m geom.Movement) {
	if m.IsZero() {
		return
	}
	x := m.At(dt)
	for k := range c.rays {
		c.rays[k].P = x.Point(c.rays[k].P)
		c.rays[k].D = x.Dir(c.rays[k].D)
	}
	c.pos = x.Point(c.pos)
	c.dir = x.Dir(c.dir)
}

// Steer turns the camera about its own position: left/right yaw around
// world +Z, up/down pitch around the camera's right-hand axis. rate is in
// radians per time unit.
func (c *Camera) Steer(dt float64, st control.State, rate float64) {
	if yaw := st.Yaw(); yaw != 0 {
		c.Update(dt, geom.NewRotate(rate*yaw, c.pos, geom.ZAxis))
	}
	if pitch := st.Pitch(); pitch != 0 {
		right := r3.Cross(c.dir, geom.ZAxis)
		if geom.IsZero(right) {
			// Looking straight up or down; pitch about world Y instead.
			right = geom.YAxis
		}
		c.Update(dt, geom.NewRotate(rate*pitch, c.pos, right))
	}
}
