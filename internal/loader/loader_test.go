package loader

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coreman2200/cosmo/internal/camera"
	"github.com/coreman2200/cosmo/internal/geom"
	"github.com/coreman2200/cosmo/internal/light"
	"github.com/coreman2200/cosmo/internal/scene"
)

const octahedron = `
L P 15 15 15 400 -
C P -1 -1 0 30 30 0 60 2
P A 0 0 8.660254
P B 0 0 -8.660254
P C 8.164965 0 2.886751
P D -4.082483 7.071067 2.886751
P E -4.082483 -7.071067 2.886751
P F 4.082483 7.071067 -2.886751
P G -8.164965 0 -2.886751
P H 4.082483 -7.071067 -2.886751
OBJ
T A C D - 
T C F D -
T A D E *
T D G E *
T A E C .
T E H C .
T D F G #
T F B G #
T C H F /
T H B F /
T E G H @
T G B H @
M R 90 0 0 0 0 0 1
END_OBJ
`

var opt = Options{Width: 60, Height: 40}

func TestParseOctahedron(t *testing.T) {
	sc, err := Parse(strings.NewReader(octahedron), opt)
	require.NoError(t, err)

	require.Len(t, sc.Lights, 1)
	assert.Equal(t, light.Point, sc.Lights[0].Kind)
	assert.Equal(t, 400.0, sc.Lights[0].Intensity)
	assert.True(t, sc.Lights[0].Move.IsZero(), "trailing token is not a movement")

	require.NotNil(t, sc.Camera)
	assert.Equal(t, camera.Perspective, sc.Camera.Projection)
	assert.Equal(t, 60, sc.Camera.W)
	assert.Equal(t, 40, sc.Camera.H)

	require.Len(t, sc.Things, 1)
	o, ok := sc.Things[0].(*scene.Object)
	require.True(t, ok)
	assert.Len(t, o.Children, 12)
	assert.Equal(t, geom.MoveRotate, o.Move.Kind)
	assert.InDelta(t, math.Pi/2, o.Move.Rate, 1e-12)
	assert.Equal(t, geom.ZAxis, o.Move.Axis)

	tr := o.Children[0].(*scene.Triangle)
	assert.Equal(t, '-', tr.Color)
	assert.InDelta(t, 8.660254, tr.A.Z, 1e-12)

	// The camera looks at the mesh.
	o2, _ := sc.Camera.Origin()
	h, ok := scene.Intersect(o, sc.Camera.Ray(20, 30))
	require.True(t, ok)
	assert.Less(t, h.T, r3.Norm(o2))
}

func TestParsePrimitives(t *testing.T) {
	src := `// primitives
C O -1 0 0 10 0 0 4
S 0 0 0 1 o R 45 0 0 0 0 0 1
TO 1 2 3 0 0 1 2 0.5 @
L D 0 0 -1 0.8 R 10 0 0 0 1 0 0
`
	sc, err := Parse(strings.NewReader(src), opt)
	require.NoError(t, err)
	require.Len(t, sc.Things, 2)

	s := sc.Things[0].(*scene.Sphere)
	assert.Equal(t, 1.0, s.Radius)
	assert.Equal(t, 'o', s.Color)
	assert.InDelta(t, math.Pi/4, s.Move.Rate, 1e-12)

	to := sc.Things[1].(*scene.Torus)
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, to.Center)
	assert.Equal(t, 2.0, to.Major)
	assert.Equal(t, 0.5, to.Minor)

	require.Len(t, sc.Lights, 1)
	assert.Equal(t, light.Directional, sc.Lights[0].Kind)
	assert.Equal(t, geom.MoveRotate, sc.Lights[0].Move.Kind)
	assert.Equal(t, camera.Ortho, sc.Camera.Projection)
}

func TestNestedObjects(t *testing.T) {
	src := `C O -1 0 0 10 0 0 4
OBJ
S 0 0 0 1 a
OBJ
S 0 3 0 1 b
M R 30 0 0 0 0 0 1
END_OBJ
M R 60 0 0 0 1 0 0
END_OBJ
`
	sc, err := Parse(strings.NewReader(src), opt)
	require.NoError(t, err)
	require.Len(t, sc.Things, 1)
	outer := sc.Things[0].(*scene.Object)
	require.Len(t, outer.Children, 2)
	inner := outer.Children[1].(*scene.Object)
	assert.InDelta(t, math.Pi/3, outer.Move.Rate, 1e-12)
	assert.InDelta(t, math.Pi/6, inner.Move.Rate, 1e-12)
}

func TestFirstCameraWins(t *testing.T) {
	src := "C O -1 0 0 10 0 0 4\nC P 1 0 0 0 0 0 4 2\n"
	sc, err := Parse(strings.NewReader(src), opt)
	require.NoError(t, err)
	assert.Equal(t, camera.Ortho, sc.Camera.Projection)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		is   error
		msg  string
	}{
		{"no camera", "S 0 0 0 1 o\n", ErrNoCamera, ""},
		{"unknown tag", "C O -1 0 0 1 0 0 1\nX 1 2 3\n", ErrUnknownTag, "line 2"},
		{"unknown light", "L Q 0 0 0 1\n", ErrUnknownTag, "line 1"},
		{"unknown point", "T A B C x\n", ErrUnknownPoint, "line 1"},
		{"short sphere", "S 0 0 0\n", ErrArgs, "line 1"},
		{"short rotation", "S 0 0 0 1 o R 10 0 0\n", ErrArgs, "line 1"},
		{"bad number", "P A 0 zero 0\n", nil, "line 1"},
		{"unclosed", "C O -1 0 0 1 0 0 1\nOBJ\n", nil, "not closed"},
		{"stray end", "END_OBJ\n", nil, "without OBJ"},
		{"stray M", "M R 1 0 0 0 0 0 1\n", nil, "outside OBJ"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(c.src), opt)
			require.Error(t, err)
			if c.is != nil {
				assert.ErrorIs(t, err, c.is)
			}
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func binarySTL(t *testing.T, facets []Facet) []byte {
	t.Helper()
	solid := &stl.Solid{Name: "test"}
	for _, f := range facets {
		var tr stl.Triangle
		for v, p := range f {
			tr.Vertices[v] = stl.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
		}
		solid.Triangles = append(solid.Triangles, tr)
	}
	var buf bytes.Buffer
	require.NoError(t, solid.WriteAll(&buf))
	return buf.Bytes()
}

var square = []Facet{
	{{Y: -1, Z: -1}, {Y: -1, Z: 1}, {Y: 1, Z: -1}},
	{{Y: 1, Z: 1}, {Y: 1, Z: -1}, {Y: -1, Z: 1}},
}

func TestParseSTL(t *testing.T) {
	got, err := ParseSTL(binarySTL(t, square))
	require.NoError(t, err)
	assert.Equal(t, square, got)

	ascii := `solid sq
facet normal -1 0 0
 outer loop
  vertex 0 -1 -1
  vertex 0 -1 1
  vertex 0 1 -1
 endloop
endfacet
facet normal -1 0 0
 outer loop
  vertex 0 1 1
  vertex 0 1 -1
  vertex 0 -1 1
 endloop
endfacet
endsolid sq
`
	got, err = ParseSTL([]byte(ascii))
	require.NoError(t, err)
	assert.Equal(t, square, got)

	_, err = ParseSTL([]byte("garbage"))
	assert.Error(t, err)
}

func TestLoadWithMesh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "square.stl"), binarySTL(t, square), 0o644))
	src := "C O 1 0 0 -10 0 0 4\nSTL square.stl # R 90 0 0 0 0 0 1\nL D -1 0 0 1\n"
	path := filepath.Join(dir, "scene.txt")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	sc, err := Load(path, Options{Width: 8, Height: 4})
	require.NoError(t, err)
	require.Len(t, sc.Things, 1)
	o := sc.Things[0].(*scene.Object)
	assert.Len(t, o.Children, 2)
	assert.Equal(t, geom.MoveRotate, o.Move.Kind)

	// The square faces -X, so rays travelling +X see it.
	h, ok := scene.Intersect(o, geom.Ray{P: r3.Vec{X: -10, Y: 0.2, Z: 0.3}, D: geom.XAxis})
	require.True(t, ok)
	assert.Equal(t, '#', h.Color)

	_, err = Load(filepath.Join(dir, "missing.txt"), opt)
	assert.Error(t, err)
}

func TestBundledScenes(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			sc, err := Load(p, Options{Width: 40, Height: 20})
			require.NoError(t, err)
			assert.NotNil(t, sc.Camera)
			assert.NotEmpty(t, sc.Things)
			assert.NotEmpty(t, sc.Lights)
		})
	}
}
