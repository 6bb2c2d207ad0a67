package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Eps guards near-zero denominators throughout the kernel.
const Eps = 1e-9

var (
	XAxis = r3.Vec{X: 1}
	YAxis = r3.Vec{Y: 1}
	ZAxis = r3.Vec{Z: 1}
)

// Ray is an origin and a direction. Camera and light rays carry unit directions.
type Ray struct {
	P r3.Vec
	D r3.Vec
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.P, r3.Scale(t, r.D))
}

// Unit normalizes v, returning the zero vector for degenerate input
// instead of NaNs.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < Eps {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// IsZero reports whether v has (near) zero length.
func IsZero(v r3.Vec) bool {
	return r3.Norm2(v) < Eps*Eps
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
