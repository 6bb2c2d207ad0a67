package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/cosmo/internal/render"
)

func newGrid(w, h int) [][]rune {
	g := make([][]rune, h)
	for i := range g {
		g[i] = make([]rune, w)
	}
	return g
}

func lit(g [][]rune) (n int) {
	for _, row := range g {
		for _, c := range row {
			if c != ' ' {
				n++
			}
		}
	}
	return n
}

func TestIndexSweep(t *testing.T) {
	g := newGrid(3, 2)
	r := NewRunner(Plan{Kind: IndexSweep})
	steps := 0
	for r.Step(g) {
		steps++
		assert.Equal(t, 1, lit(g))
	}
	assert.Equal(t, 6, steps)
	assert.Equal(t, 0, lit(g), "cleared once finished")
}

func TestRowSweepAndRamp(t *testing.T) {
	g := newGrid(4, 3)
	r := NewRunner(Plan{Kind: RowSweep})
	require.True(t, r.Step(g))
	require.True(t, r.Step(g))
	assert.Equal(t, "MMMM", string(g[1]))
	assert.Equal(t, "    ", string(g[0]))

	r = NewRunner(Plan{Kind: Ramp})
	require.True(t, r.Step(g))
	assert.Equal(t, "....", string(g[2]))
	steps := 1
	for r.Step(g) {
		steps++
	}
	assert.Equal(t, 14, steps)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("row_sweep")
	require.NoError(t, err)
	assert.Equal(t, RowSweep, k)
	_, err = ParseKind("plane_z")
	assert.Error(t, err)
	assert.False(t, NewRunner(Plan{}).Step(newGrid(1, 1)))
}

func TestPlay(t *testing.T) {
	var n int
	sink := render.SinkFunc(func(f render.Frame) error {
		n++
		assert.Equal(t, n, f.Index)
		return nil
	})
	require.NoError(t, Play(context.Background(), Plan{Kind: IndexSweep}, 2, 2, time.Millisecond, sink))
	assert.Equal(t, 4, n)

	n = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Play(ctx, Plan{Kind: RowSweep}, 2, 2, time.Hour, sink), context.Canceled)
}
