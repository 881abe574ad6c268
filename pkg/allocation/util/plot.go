package util

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
)

// ConvergenceChart builds a line chart of best, mean and worst fitness per
// generation. Infeasible (+Inf) values are left out of the series.
func ConvergenceChart(history []algorithms.GenerationStats, problemName string) (*charts.Line, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("history is empty for %s", problemName)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s convergence for %s", algorithms.Name, problemName),
			Subtitle: fmt.Sprintf("%d generations", len(history)-1),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "fitness",
			Scale: opts.Bool(true),
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	generations := make([]string, len(history))
	best := make([]opts.LineData, len(history))
	mean := make([]opts.LineData, len(history))
	worst := make([]opts.LineData, len(history))
	for i, stats := range history {
		generations[i] = strconv.Itoa(stats.Generation)
		best[i] = lineData(stats.Best)
		mean[i] = lineData(stats.Mean)
		worst[i] = lineData(stats.Worst)
	}

	line.SetXAxis(generations).
		AddSeries("Best fitness", best).
		AddSeries("Mean fitness", mean).
		AddSeries("Worst fitness", worst).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return line, nil
}

func lineData(v float64) opts.LineData {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: v, Symbol: "none"}
}

// RenderConvergence writes the convergence chart as a standalone HTML page.
func RenderConvergence(w io.Writer, history []algorithms.GenerationStats, problemName string) error {
	line, err := ConvergenceChart(history, problemName)
	if err != nil {
		return err
	}
	return line.Render(w)
}

// PlotConvergence writes the convergence chart to outputPath, or to
// <problem>_GA_convergence.html when no path is given.
func PlotConvergence(history []algorithms.GenerationStats, problemName string, outputPath ...string) error {
	filename := fmt.Sprintf("%s_%s_convergence.html", problemName, algorithms.Name)
	if len(outputPath) > 0 && outputPath[0] != "" {
		filename = outputPath[0]
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return RenderConvergence(f, history, problemName)
}
