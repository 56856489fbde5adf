package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/rustyeddy/tradehub/performance"
)

// ErrNoData is returned when there are no daily snapshots to plot.
var ErrNoData = errors.New("no daily data to chart")

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorBalance       = "#3b82f6"
	colorGrowth        = "#34d399"
	colorProfit        = "#a78bfa"

	chartWidthPx   = 1200
	lineHeightPx   = 420
	profitHeightPx = 260
)

// RenderDaily writes an HTML page with the balance and growth curves and
// the daily profit bars of asc, which must be in ascending date order.
func RenderDaily(w io.Writer, accountID string, asc []performance.DailySnapshot) error {
	if len(asc) == 0 {
		return ErrNoData
	}

	labels := make([]string, len(asc))
	for i, d := range asc {
		labels[i] = d.Label()
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Account %s", accountID)
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		buildBalanceLine(accountID, labels, asc),
		buildProfitBar(labels, asc),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func initOpts(height int) opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", chartWidthPx),
		Height:          fmt.Sprintf("%dpx", height),
		BackgroundColor: colorBackground,
	}
}

func buildBalanceLine(accountID string, labels []string, asc []performance.DailySnapshot) *charts.Line {
	balance := make([]opts.LineData, len(asc))
	growth := make([]opts.LineData, len(asc))
	for i, d := range asc {
		balance[i] = opts.LineData{Value: round(d.Balance, 2)}
		growth[i] = opts.LineData{Value: round(d.GrowthEquity, 2)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(lineHeightPx)),
		charts.WithTitleOpts(opts.Title{
			Title:         fmt.Sprintf("Account %s", accountID),
			Subtitle:      fmt.Sprintf("%s to %s", labels[0], labels[len(labels)-1]),
			Left:          "left",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Balance", balance, charts.WithLineStyleOpts(opts.LineStyle{Color: colorBalance, Width: 2}))
	line.AddSeries("Growth %", growth, charts.WithLineStyleOpts(opts.LineStyle{Color: colorGrowth, Width: 2}))
	return line
}

func buildProfitBar(labels []string, asc []performance.DailySnapshot) *charts.Bar {
	profit := make([]opts.BarData, len(asc))
	for i, d := range asc {
		profit[i] = opts.BarData{Value: round(d.Profit, 2)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(profitHeightPx)),
		charts.WithTitleOpts(opts.Title{Title: "Daily Profit", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Profit", profit, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorProfit}))
	return bar
}

func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
