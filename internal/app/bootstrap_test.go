package app

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/cosmo/internal/config"
	"github.com/coreman2200/cosmo/internal/render"
)

const sphereScene = `// single sphere
S 0 0 0 1 @
C O 1 0 0 -5 0 0 4
L D 1 0 0 1
`

func writeScene(t *testing.T, body string) string {
	p := filepath.Join(t.TempDir(), "scene.txt")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestRenderConfig(t *testing.T) {
	c := config.Default()
	c.SteerDeg = 90
	c.Shadows = config.Bool(true)
	rc := RenderConfig(c)
	assert.InDelta(t, math.Pi/2, rc.SteerRate, 1e-12)
	assert.True(t, rc.Shadows)
	assert.False(t, rc.Debug)
	assert.Equal(t, 80, rc.Width)
}

func TestInitCoreRuns(t *testing.T) {
	c := config.Default()
	c.Scene = writeScene(t, sphereScene)
	c.Width, c.Height = 20, 10
	c.Duration = 2
	c.Debug = config.Bool(true)

	var frames []render.Frame
	core, err := InitCore(c, render.SinkFunc(func(f render.Frame) error {
		frames = append(frames, f)
		return nil
	}), nil)
	require.NoError(t, err)
	assert.Len(t, core.Scene.Things, 1)
	assert.NotNil(t, core.Control)

	_, err = core.Player.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, frames, 3)
}

func TestInitCoreErrors(t *testing.T) {
	c := config.Default()
	_, err := InitCore(c, nil, nil)
	assert.Error(t, err)

	c.Scene = writeScene(t, "S 0 0 0 1 @\n")
	_, err = InitCore(c, nil, nil)
	assert.Error(t, err, "no camera")
}
