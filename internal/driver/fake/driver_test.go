package fake

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/cosmo/internal/render"
)

func grid(rows ...string) [][]rune {
	g := make([][]rune, len(rows))
	for i, r := range rows {
		g[i] = []rune(r)
	}
	return g
}

func TestSummarize(t *testing.T) {
	s := Summarize(grid("   ", " M ", "  ."))
	assert.Equal(t, 2, s.Lit)
	assert.Equal(t, 'M', s.Centre)
	assert.InDelta(t, (13.5/14+0.5/14)/2, s.Mean, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestDriverLogsEveryNth(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	d := &Driver{Every: 2, Log: &l}

	for i := 1; i <= 4; i++ {
		require.NoError(t, d.Write(render.Frame{Index: i, Grid: grid("M")}))
	}
	assert.Equal(t, 4, d.Count)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var ev map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ev))
	assert.EqualValues(t, 4, ev["frame"])
	assert.EqualValues(t, 1, ev["lit"])
	assert.Equal(t, "M", ev["centre"])
}
