package tui

import (
	"math"
	"strconv"
	"strings"

	"topowatch/internal/dashboard"
	"topowatch/internal/domain"
)

// Surface units covered by one terminal cell. Cells are roughly twice as
// tall as they are wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// canvas is a fixed grid of runes
type canvas struct {
	cols, rows int
	cells      [][]rune
}

func newCanvas(cols, rows int) *canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", cols))
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

func (c *canvas) set(col, row int, r rune) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = r
}

// text writes s starting at (col, row), clipped to [minCol, maxCol]
func (c *canvas) text(col, row, minCol, maxCol int, s string) {
	for i, r := range []rune(s) {
		x := col + i
		if x < minCol || x > maxCol {
			continue
		}
		c.set(x, row, r)
	}
}

func (c *canvas) box(c0, r0, c1, r1 int) {
	if c1 <= c0 || r1 <= r0 {
		return
	}
	for x := c0 + 1; x < c1; x++ {
		c.set(x, r0, '─')
		c.set(x, r1, '─')
	}
	for y := r0 + 1; y < r1; y++ {
		c.set(c0, y, '│')
		c.set(c1, y, '│')
	}
	c.set(c0, r0, '┌')
	c.set(c1, r0, '┐')
	c.set(c0, r1, '└')
	c.set(c1, r1, '┘')
}

// line draws a segment with Bresenham's algorithm, clipped to the rectangle
func (c *canvas) line(x0, y0, x1, y1 int, r rune, clip rect) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if clip.contains(x0, y0) {
			c.set(x0, y0, r)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

type rect struct {
	c0, r0, c1, r1 int
}

func (r rect) contains(col, row int) bool {
	return col >= r.c0 && col <= r.c1 && row >= r.r0 && row <= r.r1
}

func toCell(x, y float64) (int, int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

func viewportRect(vp domain.Viewport) rect {
	c0, r0 := toCell(vp.X, vp.Y)
	c1, r1 := toCell(vp.X+vp.Width, vp.Y+vp.Height)
	return rect{c0: c0, r0: r0, c1: c1 - 1, r1: r1 - 1}
}

// linkRune picks a stroke for a link type so parallel routes of different
// kinds stay distinguishable without color
func linkRune(linkType string) rune {
	switch linkType {
	case "loopback":
		return '·'
	case "loopback_transport_route":
		return '~'
	case "socket_server_transport_route", "socket_client_transport_route":
		return '='
	}
	return '•'
}

// nodeLabel is the text drawn for a node: its first endpoint name, bracketed
// when the node is pinned
func nodeLabel(n domain.FrameNode) string {
	label := "#" + strconv.Itoa(n.NodeID)
	if len(n.Endpoints) > 0 && n.Endpoints[0].Name != "" {
		label = n.Endpoints[0].Name
	}
	if n.Pinned {
		return "[" + label + "]"
	}
	return "(" + label + ")"
}

// render draws every visible frame onto a cols x rows canvas
func render(fs dashboard.FrameSet, cols, rows int) string {
	c := newCanvas(cols, rows)

	for _, f := range fs.Frames {
		area := viewportRect(f.Viewport)
		c.box(area.c0, area.r0, area.c1, area.r1)

		caption := " " + f.Name + " "
		if f.Stale {
			caption = " " + f.Name + " (stale) "
		}
		c.text(area.c0+2, area.r0, area.c0+1, area.c1-1, caption)

		inner := rect{c0: area.c0 + 1, r0: area.r0 + 1, c1: area.c1 - 1, r1: area.r1 - 1}
		for _, l := range f.Links {
			x0, y0 := toCell(l.X1, l.Y1)
			x1, y1 := toCell(l.X2, l.Y2)
			c.line(x0, y0, x1, y1, linkRune(l.Type), inner)
		}
		for _, n := range f.Nodes {
			label := nodeLabel(n)
			col, row := toCell(n.X, n.Y)
			if !inner.contains(col, row) {
				continue
			}
			c.text(col-len([]rune(label))/2, row, inner.c0, inner.c1, label)
		}
	}

	return c.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
