package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleEmpty = 0x2800

// Canvas is a character grid addressed in sub-pixels: (Width*2) x
// (Height*4), origin at the top left.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). Points outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleEmpty
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PlotFunc draws f over [lo, hi] scaled to fill the canvas, one sample per
// sub-pixel column. Non-finite samples break the curve.
func (c *Canvas) PlotFunc(f func(float64) float64, lo, hi float64) {
	cols := c.Width * 2
	rows := c.Height * 4
	if cols < 2 || rows < 1 {
		return
	}

	values := Sample(f, lo, hi, cols-1)
	vmin, vmax := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		vmin = math.Min(vmin, v)
		vmax = math.Max(vmax, v)
	}
	if vmin > vmax {
		return
	}
	span := vmax - vmin
	if span == 0 {
		span = 1
	}

	toY := func(v float64) int {
		return rows - 1 - int(math.Round((v-vmin)/span*float64(rows-1)))
	}

	prev := -1
	for x, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			prev = -1
			continue
		}
		y := toY(v)
		if prev >= 0 {
			c.DrawLine(x-1, prev, x, y)
		} else {
			c.Set(x, y)
		}
		prev = y
	}
}

// Column maps a value of [lo, hi] to a character column.
func (c *Canvas) Column(v, lo, hi float64) int {
	if hi <= lo {
		return 0
	}
	col := int((v - lo) / (hi - lo) * float64(c.Width))
	return min(max(col, 0), c.Width-1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
