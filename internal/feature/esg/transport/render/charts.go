// Package render draws the dashboard: SVG charts, gauges, the HTML page and file exports.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"esg_dashboard/internal/feature/esg/usecase"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to render")

const (
	chartHeight   = 420
	minChartWidth = 640
	barWidth      = 18
	barSpacing    = 6
	scoreMax      = 100.0
)

var (
	barColor     = drawing.ColorFromHex("1f77b4")
	scatterColor = drawing.Color{R: 31, G: 119, B: 180, A: 160}
)

// barChartWidth widens the canvas with the number of bars so labels stay readable.
func barChartWidth(n int) int {
	return max(minChartWidth, n*(barWidth+barSpacing)+120)
}

// HistogramSVG draws the total ESG score distribution as adjacent bars, one per bin.
func HistogramSVG(w io.Writer, bins []usecase.HistogramBin) error {
	if len(bins) == 0 {
		return ErrNoData
	}

	maxCount := 0
	bars := make([]chart.Value, 0, len(bins))
	for _, b := range bins {
		maxCount = max(maxCount, b.Count)
		bars = append(bars, chart.Value{
			Value: float64(b.Count),
			Label: fmt.Sprintf("%.1f", b.Lower),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	bc := chart.BarChart{
		Title:      "Total ESG Score Distribution",
		Width:      barChartWidth(len(bars)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: 1,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 60}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  "count",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v)
			},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// BarSVG draws one bar per company in the given order.
func BarSVG(w io.Writer, bars []usecase.Bar) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(bars))
	for _, b := range bars {
		values = append(values, chart.Value{
			Value: b.Score,
			Label: b.Company,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	bc := chart.BarChart{
		Title:      "Total ESG Scores per Company",
		Width:      barChartWidth(len(values)),
		Height:     chartHeight + 120,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 160}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  "total_esg_score",
			Range: &chart.ContinuousRange{Min: 0, Max: scoreMax},
		},
		Bars: values,
	}
	return bc.Render(chart.SVG, w)
}

// ScatterSVG plots total ESG score against governance score.
// Marker size grows with the ESG score.
func ScatterSVG(w io.Writer, points []usecase.ScatterPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	yMax := 0.0
	for _, p := range points {
		xs = append(xs, p.ESG)
		ys = append(ys, p.Governance)
		yMax = math.Max(yMax, p.Governance)
	}

	ch := chart.Chart{
		Title:      "ESG Score vs Governance Score",
		Width:      minChartWidth + 260,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16}},
		XAxis: chart.XAxis{
			Name:  "total_esg_score",
			Range: &chart.ContinuousRange{Min: 0, Max: scoreMax},
		},
		YAxis: chart.YAxis{
			Name:  "governance_score",
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(yMax) + 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "companies",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotColor:    scatterColor,
					DotWidthProvider: func(_, _ chart.Range, _ int, x, _ float64) float64 {
						return markerSize(x)
					},
				},
			},
		},
	}
	return ch.Render(chart.SVG, w)
}

// markerSize maps a 0-100 score to a dot radius between 3 and 15.
func markerSize(score float64) float64 {
	s := math.Min(math.Max(score, 0), scoreMax)
	return 3 + 12*s/scoreMax
}
