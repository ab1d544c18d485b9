// Package plot renders the results of experiments: learning curves as
// interactive HTML charts and the Mountain Car landscape as PNG images
package plot

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Window is the number of episodes averaged by the smoothed series of a
// learning curve
const Window = 10

// LearningCurve writes an HTML line chart of the number of steps taken
// in each episode to path, along with its moving average over Window
// episodes
func LearningCurve(path string, steps []int) error {
	if len(steps) == 0 {
		return fmt.Errorf("learningCurve: no episodes to plot")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Learning curve",
			Subtitle: "Steps per episode",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Steps"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	episodes := make([]string, len(steps))
	raw := make([]opts.LineData, len(steps))
	for i, s := range steps {
		episodes[i] = strconv.Itoa(i)
		raw[i] = opts.LineData{Value: s}
	}

	smoothed := make([]opts.LineData, len(steps))
	for i, avg := range MovingAverage(steps, Window) {
		smoothed[i] = opts.LineData{Value: avg}
	}

	line.SetXAxis(episodes).
		AddSeries("Steps", raw).
		AddSeries(fmt.Sprintf("Mean of last %d", Window), smoothed)

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("learningCurve: could not create file: %v", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("learningCurve: could not render: %v", err)
	}
	return nil
}

// MovingAverage returns the mean of each element of data and the
// window-1 elements before it. The first elements are averaged over as
// many elements as are available.
func MovingAverage(data []int, window int) []float64 {
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(data))
	sum := 0
	for i, d := range data {
		sum += d
		if i >= window {
			sum -= data[i-window]
		}

		n := window
		if i+1 < window {
			n = i + 1
		}
		out[i] = float64(sum) / float64(n)
	}
	return out
}
