// Package export renders results as standalone SVG images.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/numkit/internal/viz"
)

var ErrNoData = errors.New("export: nothing to draw")

// Palette cycles over the series of a chart.
var Palette = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// CurveSVG plots f over [lo, hi] on a cols×rows Braille canvas and
// renders it as SVG.
func CurveSVG(f func(float64) float64, lo, hi float64, cols, rows int, scale float64) string {
	canvas := viz.NewCanvas(cols, rows)
	canvas.PlotFunc(f, lo, hi)
	return CanvasToSVG(canvas, scale)
}

var dotBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Chart is a set of series sharing one x axis.
type Chart struct {
	X      []float64
	Series [][]float64
	Labels []string
}

// WriteSVG draws the chart as polylines scaled to width x height, with 10%
// padding around the data. Non-finite points break a line.
func (c Chart) WriteSVG(w io.Writer, width, height int) error {
	minX, maxX := bounds(c.X)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		lo, hi := bounds(s)
		minY = math.Min(minY, lo)
		maxY = math.Max(maxY, hi)
	}
	if len(c.X) < 2 || minX > maxX || minY > maxY {
		return ErrNoData
	}

	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	toX := func(x float64) float64 { return (x - minX) / (maxX - minX) * float64(width) }
	toY := func(y float64) float64 { return float64(height) - (y-minY)/(maxY-minY)*float64(height) }

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	for i, s := range c.Series {
		color := Palette[i%len(Palette)]
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", color)
		pen := false
		for k := 0; k < len(s) && k < len(c.X); k++ {
			if !finite(s[k]) || !finite(c.X[k]) {
				pen = false
				continue
			}
			cmd := "L"
			if !pen {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, toX(c.X[k]), toY(s[k]))
			pen = true
		}
		sb.WriteString("\"/>\n")

		if i < len(c.Labels) {
			fmt.Fprintf(&sb, "<text x=\"8\" y=\"%d\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
				16*(i+1), color, c.Labels[i])
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func bounds(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if !finite(x) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func pad(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
