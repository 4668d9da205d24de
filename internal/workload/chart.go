package workload

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "100%"
	chartHeight = "480px"
)

// WriteChart renders the final member expenses as an HTML bar chart.
func (r *Report) WriteChart(w io.Writer) error {
	labels := make([]string, len(r.Members))
	data := make([]opts.BarData, len(r.Members))

	for i, m := range r.Members {
		labels[i] = strconv.Itoa(m.ID)
		data[i] = opts.BarData{Value: m.Expenses}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: r.Name, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: r.Name, Subtitle: "Member expenses net of prizes"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Member"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Expenses"}),
	)
	bar.SetXAxis(labels).AddSeries("expenses", data)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
