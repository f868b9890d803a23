package layout

import (
	"fmt"

	"topowatch/internal/domain"
)

// DefaultMaxSide bounds the grid search to 5x5 cells
const DefaultMaxSide = 5

// maxSkew is the largest allowed difference between rows and columns
const maxSkew = 2

// Grid is a row/column split of the surface
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cells returns the number of viewports the grid provides
func (g Grid) Cells() int {
	return g.Rows * g.Cols
}

// Allocate picks the grid with the fewest unused cells for count topologies,
// keeping rows and columns within two of each other and each side within
// maxSide. Columns are scanned in the outer loop and the first best candidate
// wins ties. When count exceeds what the bound allows, the largest grid within
// the bound is returned together with an error wrapping ErrLayoutOverflow; the
// grid is still usable.
func Allocate(count, maxSide int) (Grid, error) {
	if count <= 0 {
		return Grid{}, nil
	}
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}

	best := Grid{}
	bestWaste := -1
	largest := Grid{}

	for cols := 1; cols <= maxSide; cols++ {
		for rows := 1; rows <= maxSide; rows++ {
			if abs(rows-cols) > maxSkew {
				continue
			}
			g := Grid{Rows: rows, Cols: cols}
			if g.Cells() > largest.Cells() {
				largest = g
			}
			if g.Cells() < count {
				continue
			}
			if waste := g.Cells() - count; bestWaste < 0 || waste < bestWaste {
				best = g
				bestWaste = waste
			}
		}
	}

	if bestWaste < 0 {
		return largest, fmt.Errorf("%w: %d topologies, %d cells", domain.ErrLayoutOverflow, count, largest.Cells())
	}
	return best, nil
}

// Viewports splits a width x height surface into count viewports, filling the
// grid row by row. Topologies beyond the grid's capacity get a hidden viewport.
func Viewports(g Grid, count int, width, height float64) []domain.Viewport {
	out := make([]domain.Viewport, count)
	if g.Cells() == 0 {
		return out
	}

	cellW := width / float64(g.Cols)
	cellH := height / float64(g.Rows)

	for i := 0; i < count; i++ {
		if i >= g.Cells() {
			out[i] = domain.Viewport{Index: i, Visible: false}
			continue
		}
		row, col := i/g.Cols, i%g.Cols
		out[i] = domain.Viewport{
			Index:   i,
			Row:     row,
			Col:     col,
			X:       float64(col) * cellW,
			Y:       float64(row) * cellH,
			Width:   cellW,
			Height:  cellH,
			Visible: true,
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
