package layout

// Layout maps a row-major cell grid onto a single LED strip wired row by
// row, optionally reversing every other row.
type Layout struct {
	Cols, Rows int
	Serpentine bool
}

// Index maps row, col -> linear LED index (0..N-1)
func (l Layout) Index(row, col int) int {
	c := col
	if l.Serpentine && row%2 == 1 {
		c = l.Cols - 1 - col
	}
	return row*l.Cols + c
}

func (l Layout) Count() int {
	return l.Cols * l.Rows
}

// Sample picks the source cell for LED (row, col) when the render grid is
// w x h, scaling nearest-neighbour.
func (l Layout) Sample(row, col, w, h int) (int, int) {
	if l.Rows <= 0 || l.Cols <= 0 {
		return 0, 0
	}
	return row * h / l.Rows, col * w / l.Cols
}
