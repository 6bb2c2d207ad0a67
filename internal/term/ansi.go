package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coreman2200/cosmo/internal/render"
)

const (
	cursorUp  = "\x1b[F"
	clearLine = "\x1b[K"
)

// ANSI repaints frames in place on any writer using cursor-up and
// clear-line escapes, followed by one status line.
type ANSI struct {
	Status bool

	w     *bufio.Writer
	lines int
}

func NewANSI(w io.Writer, status bool) *ANSI {
	return &ANSI{Status: status, w: bufio.NewWriter(w)}
}

func (a *ANSI) Write(f render.Frame) error {
	if a.lines > 0 {
		a.w.WriteString(strings.Repeat(cursorUp, a.lines))
	}
	for _, row := range f.Grid {
		a.w.WriteString(clearLine)
		a.w.WriteString(string(row))
		a.w.WriteByte('\n')
	}
	a.lines = len(f.Grid)
	if a.Status {
		fmt.Fprintf(a.w, "%s%s\n", clearLine, StatusLine(f))
		a.lines++
	}
	return a.w.Flush()
}

// StatusLine formats a frame's pacing figures.
func StatusLine(f render.Frame) string {
	return fmt.Sprintf("frame %d t=%.2f compute %v wait %v load %.1f%%",
		f.Index, f.T, f.Stats.Compute.Round(10*time.Microsecond), f.Stats.Wait.Round(10*time.Microsecond), f.Stats.Load())
}
