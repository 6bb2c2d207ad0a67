package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	l := Layout{Cols: 4, Rows: 3}
	assert.Equal(t, 12, l.Count())
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 5, l.Index(1, 1))

	l.Serpentine = true
	assert.Equal(t, 3, l.Index(0, 3))
	assert.Equal(t, 7, l.Index(1, 0))
	assert.Equal(t, 4, l.Index(1, 3))
	assert.Equal(t, 8, l.Index(2, 0))

	seen := map[int]bool{}
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			seen[l.Index(r, c)] = true
		}
	}
	assert.Len(t, seen, l.Count())
}

func TestSample(t *testing.T) {
	l := Layout{Cols: 4, Rows: 2}
	r, c := l.Sample(1, 3, 80, 40)
	assert.Equal(t, 20, r)
	assert.Equal(t, 60, c)
	r, c = Layout{}.Sample(1, 1, 80, 40)
	assert.Zero(t, r+c)
}
