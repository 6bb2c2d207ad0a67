package light

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/geom"
)

// Ramp orders glyphs from darkest to brightest.
const Ramp = ".,:;!~-+=*#%@M"

// Blank marks a cell no ray hit.
const Blank = ' '

const (
	maxLum     = 0.99999
	shadowBias = 1e-4
)

var ramp = []rune(Ramp)

// Glyph quantizes lum into Ramp.
func Glyph(lum float64) rune {
	lum = math.Max(0, math.Min(lum, maxLum))
	return ramp[int(math.Floor(lum*float64(len(ramp))))]
}

// Level maps a glyph back to the centre of its luminance band. Blank and
// unknown glyphs are 0.
func Level(g rune) float64 {
	i := strings.IndexRune(Ramp, g)
	if i < 0 {
		return 0
	}
	return (float64(i) + 0.5) / float64(len(ramp))
}

// Occluder reports whether r is blocked before distance maxT.
type Occluder func(r geom.Ray, maxT float64) bool

// Shade sums the contributions of lights at hit point p with normal n. With
// a non-nil occluded, lights whose shadow ray is blocked are skipped. The
// result is not clamped.
func Shade(lights []*Light, p, n, out r3.Vec, occluded Occluder) float64 {
	lifted := r3.Add(p, r3.Scale(shadowBias, n))
	var lum float64
	for _, l := range lights {
		c := l.Lum(p, n, out)
		if c == 0 {
			continue
		}
		if occluded != nil {
			r, maxT := l.Ray(lifted)
			if occluded(r, maxT) {
				continue
			}
		}
		lum += c
	}
	return lum
}
