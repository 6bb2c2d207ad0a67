package diagnostics

import (
	"fmt"
	"time"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

const (
	CodeOverrun    = "FRAME.OVERRUN"
	CodeSinkFailed = "SINK.FAILED"
	CodeControl    = "CONTROL.INVALID"
	CodeRunDone    = "RUN.DONE"
)

// Overrun reports a frame whose compute time used up the whole interval.
func Overrun(frame int, compute, interval time.Duration) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     CodeOverrun,
		Summary:  "Frame took longer than the frame interval",
		Detail:   fmt.Sprintf("frame %d computed in %v, interval %v", frame, compute, interval),
		LikelyCauses: []string{
			"scene has many triangles without object bounds",
			"output grid too large for the target frame rate",
		},
		SuggestedFixes: []string{
			"enable bounds culling",
			"raise workers",
			"lower fps or grid size",
		},
		Evidence: map[string]any{
			"frame":       frame,
			"compute_ms":  float64(compute) / float64(time.Millisecond),
			"interval_ms": float64(interval) / float64(time.Millisecond),
		},
	}
}

// RunDone summarizes a finished run.
func RunDone(t float64, frames int, load float64) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     CodeRunDone,
		Summary:  "Run finished",
		Detail:   fmt.Sprintf("%d frames, simulated time %.2f, load %.1f%%", frames, t, load),
		Evidence: map[string]any{"t": t, "frames": frames, "load_pct": load},
	}
}

// SinkFailed reports an output that rejected a frame.
func SinkFailed(sink string, err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     CodeSinkFailed,
		Summary:  "Output sink rejected a frame",
		Detail:   err.Error(),
		Evidence: map[string]any{"sink": sink},
	}
}
