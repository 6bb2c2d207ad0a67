package loader

import (
	"bytes"
	"fmt"

	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"
)

// Facet is one mesh triangle in file winding order. The stored facet normal
// is ignored; triangles derive it from the winding.
type Facet [3]r3.Vec

// LoadSTL reads a binary or ASCII STL mesh.
func LoadSTL(path string) ([]Facet, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl %s: %w", path, err)
	}
	return facets(solid), nil
}

// ParseSTL decodes STL bytes in either encoding.
func ParseSTL(data []byte) ([]Facet, error) {
	solid, err := stl.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse stl: %w", err)
	}
	return facets(solid), nil
}

func facets(s *stl.Solid) []Facet {
	out := make([]Facet, len(s.Triangles))
	for i, t := range s.Triangles {
		for v, p := range t.Vertices {
			out[i][v] = r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		}
	}
	return out
}
