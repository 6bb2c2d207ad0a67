package render

import (
	"errors"
	"time"
)

// Stats carries pacing figures for the latest frame and the run so far.
type Stats struct {
	Compute      time.Duration
	Wait         time.Duration
	TotalCompute time.Duration
	TotalWait    time.Duration
}

// Load is the share of wall time spent computing, in percent.
func (s Stats) Load() float64 {
	total := s.TotalCompute + s.TotalWait
	if total <= 0 {
		return 0
	}
	return float64(s.TotalCompute) * 100 / float64(total)
}

// Overrun reports whether the latest frame had no time left to wait.
func (s Stats) Overrun() bool { return s.Wait == 0 && s.Compute > 0 }

// Frame is one rendered grid. Grid rows are reused by the next frame; sinks
// must copy anything they keep. Stats.Compute covers this frame up to the
// hand-off; the other fields are as of the previous frame.
type Frame struct {
	Index int
	T     float64
	Grid  [][]rune
	Stats Stats
}

// Lines returns the grid as strings, one per row.
func (f Frame) Lines() []string {
	out := make([]string, len(f.Grid))
	for i, row := range f.Grid {
		out[i] = string(row)
	}
	return out
}

// Sink consumes frames (terminal, websocket, LED strip, log).
type Sink interface {
	Write(f Frame) error
}

// Sinks fans a frame out to several sinks. Every sink sees the frame even
// when an earlier one fails.
type Sinks []Sink

func (s Sinks) Write(f Frame) error {
	var errs []error
	for _, k := range s {
		if err := k.Write(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame) error

func (fn SinkFunc) Write(f Frame) error { return fn(f) }
