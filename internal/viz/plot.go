package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultPlotHeight = 10
	DefaultPlotWidth  = 80
)

// PlotSeries draws one or more series on a shared axis. Non-finite values
// are drawn as gaps. It returns "" when there is nothing to draw.
func PlotSeries(caption string, series ...[]float64) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		clean := make([]float64, len(s))
		finite := false
		for i, v := range s {
			if math.IsInf(v, 0) {
				v = math.NaN()
			}
			finite = finite || !math.IsNaN(v)
			clean[i] = v
		}
		if finite {
			data = append(data, clean)
		}
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(DefaultPlotHeight),
		asciigraph.Width(DefaultPlotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotFunction samples f at n+1 points of [lo, hi] and plots it.
func PlotFunction(caption string, f func(float64) float64, lo, hi float64, n int) string {
	return PlotSeries(caption, Sample(f, lo, hi, n))
}

// Sample evaluates f at n+1 evenly spaced points of [lo, hi].
func Sample(f func(float64) float64, lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for k := 0; k <= n; k++ {
		out[k] = f(lo + (hi-lo)*float64(k)/float64(n))
	}
	return out
}
