package weather

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// TemperatureChart renders a PNG chart of the forecast's daily
// temperatures. Returns an error when the forecast is too short to plot.
func TemperatureChart(f *Forecast, city string) ([]byte, error) {
	if len(f.Days) < 2 {
		return nil, fmt.Errorf("not enough forecast points to chart: %d", len(f.Days))
	}

	xs := make([]float64, len(f.Days))
	ys := make([]float64, len(f.Days))
	ticks := make([]chart.Tick, len(f.Days))
	for i, day := range f.Days {
		xs[i] = float64(i)
		ys[i] = day.Temp
		label := day.Date
		if len(label) > 5 {
			label = label[len(label)-5:] // MM-DD
		}
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	lineColor := drawing.ColorFromHex("3498db")

	graph := chart.Chart{
		Title:  fmt.Sprintf("Прогноз температури в %s", city),
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "Дата",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Температура (°C)",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Температура в %s (°C)", city),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   lineColor.WithAlpha(50),
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
