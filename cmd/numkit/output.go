package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/numkit/internal/experiment"
	"github.com/san-kum/numkit/internal/storage"
	"github.com/san-kum/numkit/internal/viz"
)

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "-"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 10, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// formatParams renders params as sorted name=value pairs.
func formatParams(p map[string]float64) string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + formatFloat(p[name])
	}
	return strings.Join(parts, " ")
}

func printResult(res *experiment.Result) {
	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%s %s (%s)", res.Kind, res.Problem, res.Method)))
	fmt.Println(viz.Separator(60))
	fmt.Println(viz.KeyValue("bounds", formatVector(res.Bounds)))
	fmt.Println(viz.KeyValue("value", formatVector(res.Value)))
	if res.HasReference() {
		fmt.Println(viz.KeyValue("reference", formatVector(res.Reference)))
		fmt.Println(viz.KeyValue("error", formatFloat(res.Error)))
		fmt.Println(viz.KeyValue("relative error", formatFloat(res.RelError)))
	}
	if res.Gradient != nil {
		fmt.Println(viz.KeyValue("objective", formatFloat(res.Objective)))
		fmt.Println(viz.KeyValue("gradient", formatVector(res.Gradient)))
	}
	fmt.Println(viz.KeyValue("evaluations", strconv.Itoa(res.Evaluations)))
	if res.Steps > 0 {
		fmt.Println(viz.KeyValue("steps", strconv.Itoa(res.Steps)))
	}
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Println(viz.KeyValue(name, formatFloat(res.Metrics[name])))
	}
	fmt.Println(viz.KeyValue("elapsed", res.Elapsed.String()))
}

func resultTable(results []*experiment.Result) string {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Method,
			formatVector(r.Value),
			formatFloat(r.Error),
			strconv.Itoa(r.Evaluations),
			r.Elapsed.String(),
		}
	}
	return viz.Table([]string{"method", "value", "error", "evaluations", "elapsed"}, rows)
}

func writeRunList(out io.Writer, runs []storage.RunMetadata) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tPROBLEM\tMETHOD\tTIME\tVALUE\tERROR\tEVALS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Kind,
			run.Problem,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			formatVector(storage.Float64s(run.Value)),
			formatFloat(float64(run.Error)),
			run.Evaluations,
		)
	}

	return w.Flush()
}

func printMetadata(meta *storage.RunMetadata) {
	fmt.Println(viz.TitleStyle.Render(meta.ID))
	fmt.Println(viz.Separator(60))
	fmt.Println(viz.KeyValue("kind", meta.Kind))
	fmt.Println(viz.KeyValue("problem", meta.Problem))
	fmt.Println(viz.KeyValue("method", meta.Method))
	fmt.Println(viz.KeyValue("time", meta.Timestamp.Format("2006-01-02 15:04:05")))
	if len(meta.Params) > 0 {
		fmt.Println(viz.KeyValue("params", formatParams(meta.Params)))
	}
	fmt.Println(viz.KeyValue("bounds", formatVector(storage.Float64s(meta.Bounds))))
	fmt.Println(viz.KeyValue("value", formatVector(storage.Float64s(meta.Value))))
	if meta.Reference != nil {
		fmt.Println(viz.KeyValue("reference", formatVector(storage.Float64s(meta.Reference))))
	}
	fmt.Println(viz.KeyValue("error", formatFloat(float64(meta.Error))))
	fmt.Println(viz.KeyValue("evaluations", strconv.Itoa(meta.Evaluations)))
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Println(viz.KeyValue(name, formatFloat(float64(meta.Metrics[name]))))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
