package diagnostics

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrunEvidence(t *testing.T) {
	d := Overrun(12, 50*time.Millisecond, 40*time.Millisecond)
	assert.Equal(t, Warn, d.Severity)
	assert.Equal(t, CodeOverrun, d.Code)
	assert.Equal(t, 12, d.Evidence["frame"])
	assert.InDelta(t, 50.0, d.Evidence["compute_ms"], 1e-9)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"code":"FRAME.OVERRUN"`)
	assert.Contains(t, string(b), `"severity":"warning"`)
}

func TestRunDone(t *testing.T) {
	d := RunDone(10.04, 241, 37.5)
	assert.Equal(t, Info, d.Severity)
	assert.Equal(t, CodeRunDone, d.Code)
	assert.Contains(t, d.Detail, "241 frames")
	assert.Equal(t, 37.5, d.Evidence["load_pct"])
}

func TestSinkFailedOmitsEmpty(t *testing.T) {
	d := SinkFailed("led", errors.New("spi closed"))
	assert.Equal(t, Err, d.Severity)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "likely_causes")
	assert.Contains(t, string(b), "spi closed")
}
