package admin

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// ModelCount is the number of widgets using one AI model label.
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// WidgetStats summarizes the widget collection.
type WidgetStats struct {
	Total    int          `json:"total"`
	Active   int          `json:"active"`
	Inactive int          `json:"inactive"`
	ByModel  []ModelCount `json:"by_model"`
}

// ComputeWidgetStats counts widgets by status and model label. ByModel is
// ordered by count, then label.
func ComputeWidgetStats(widgets []Widget) WidgetStats {
	stats := WidgetStats{Total: len(widgets)}
	counts := map[string]int{}
	for _, w := range widgets {
		switch w.Status {
		case WidgetActive:
			stats.Active++
		case WidgetInactive:
			stats.Inactive++
		}
		counts[w.AIModel]++
	}
	stats.ByModel = make([]ModelCount, 0, len(counts))
	for model, count := range counts {
		stats.ByModel = append(stats.ByModel, ModelCount{Model: model, Count: count})
	}
	sort.Slice(stats.ByModel, func(i, j int) bool {
		a, b := stats.ByModel[i], stats.ByModel[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Model < b.Model
	})
	return stats
}

// ChartOptions controls how the widget stats chart renders.
type ChartOptions struct {
	Title      string
	Theme      string
	AssetsHost string
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Title == "" {
		o.Title = "Widgets by AI model"
	}
	if o.Theme == "" {
		o.Theme = types.ThemeWesteros
	}
	return o
}

// RenderWidgetChart renders a bar chart of active and inactive widgets per
// model as a standalone HTML page.
func RenderWidgetChart(widgets []Widget, options ChartOptions) (string, error) {
	options = options.withDefaults()
	stats := ComputeWidgetStats(widgets)
	labels := make([]string, len(stats.ByModel))
	index := make(map[string]int, len(stats.ByModel))
	for i, mc := range stats.ByModel {
		labels[i] = mc.Model
		index[mc.Model] = i
	}
	activeCounts := make([]int, len(labels))
	inactiveCounts := make([]int, len(labels))
	for _, w := range widgets {
		i := index[w.AIModel]
		switch w.Status {
		case WidgetActive:
			activeCounts[i]++
		case WidgetInactive:
			inactiveCounts[i]++
		}
	}

	initOpts := opts.Initialization{
		Theme:  options.Theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if options.AssetsHost != "" {
		initOpts.AssetsHost = options.AssetsHost
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    options.Title,
			Subtitle: fmt.Sprintf("%d widgets, %d active", stats.Total, stats.Active),
		}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(string(WidgetActive), toBarData(labels, activeCounts))
	bar.AddSeries(string(WidgetInactive), toBarData(labels, inactiveCounts))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", fmt.Errorf("admin: render widget chart: %w", err)
	}
	return buf.String(), nil
}

func toBarData(labels []string, counts []int) []opts.BarData {
	data := make([]opts.BarData, len(labels))
	for i, label := range labels {
		data[i] = opts.BarData{Name: label, Value: counts[i]}
	}
	return data
}
