package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/mindbankhq/mindbank-api/models"
)

// RenderEarningsChart draws the daily MBB earnings series as a PNG
// line chart with a 7-day moving average overlay.
func RenderEarningsChart(series []models.DailyEarnings) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("not enough data points to render a chart")
	}

	xValues := make([]time.Time, len(series))
	yValues := make([]float64, len(series))
	maxY := 0.0
	for i, point := range series {
		xValues[i] = point.Date
		yValues[i] = point.EarningsUSD
		if point.EarningsUSD > maxY {
			maxY = point.EarningsUSD
		}
	}
	// A flat zero series still needs a non-degenerate axis.
	if maxY == 0 {
		maxY = 1
	}

	movingAvg := movingAverage(yValues, 7)

	graph := chart.Chart{
		Width:  1000,
		Height: 420,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 02"),
			Style:          chart.Style{FontSize: 11, FontColor: chart.ColorBlack},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
			Style: chart.Style{FontSize: 11, FontColor: chart.ColorBlack},
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily earnings",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "7-day average",
				XValues: xValues,
				YValues: movingAvg,
				Style: chart.Style{
					StrokeColor:     chart.ColorBlue.WithAlpha(120),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: 11, FontColor: chart.ColorBlack}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func movingAverage(values []float64, window int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		count := 0
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			if j < 0 {
				continue
			}
			sum += values[j]
			count++
		}
		result[i] = sum / float64(count)
	}
	return result
}
