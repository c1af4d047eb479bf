// Package charts renders the published time-series charts.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"riverbot/internal/entities"
)

// ErrEmptySeries is returned when a chart is requested for a series with no
// plottable points.
var ErrEmptySeries = errors.New("empty series")

// attributionText is drawn into the lower-right corner of every chart.
const attributionText = "By @CalgaryRiverBot on Twitter"

const (
	chartWidth  = 1024
	chartHeight = 576
)

// Series is one station's line on a chart, keyed by display name.
type Series struct {
	Location string
	Times    []time.Time
	Values   []float64
}

// FlowSeries builds a chart series from shaped readings, dropping missing
// flow values and sorting ascending in time.
func FlowSeries(location string, readings []entities.Reading) Series {
	return buildSeries(location, readings, func(r entities.Reading) float64 { return r.Flow })
}

// LevelSeries builds a chart series from shaped readings, dropping missing
// level values and sorting ascending in time.
func LevelSeries(location string, readings []entities.Reading) Series {
	return buildSeries(location, readings, func(r entities.Reading) float64 { return r.Level })
}

func buildSeries(location string, readings []entities.Reading, metric func(entities.Reading) float64) Series {
	sorted := make([]entities.Reading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	s := Series{Location: location}
	for _, r := range sorted {
		v := metric(r)
		if entities.Missing(v) {
			continue
		}
		s.Times = append(s.Times, r.Timestamp)
		s.Values = append(s.Values, v)
	}
	return s
}

// Render draws one line per station and returns the chart as PNG bytes.
func Render(yLabel string, series []Series) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("render %q: %w", yLabel, ErrEmptySeries)
	}

	var lines []chart.Series
	for i, s := range series {
		if len(s.Times) == 0 {
			return nil, fmt.Errorf("render %q: series %q: %w", yLabel, s.Location, ErrEmptySeries)
		}
		lines = append(lines, chart.TimeSeries{
			Name:    s.Location,
			XValues: s.Times,
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2.0,
			},
		})
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/02 15:04"),
			Style: chart.Style{
				TextRotationDegrees: 30,
			},
		},
		YAxis: chart.YAxis{
			Name: yLabel,
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
		attribution(attributionText),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %q chart: %v", yLabel, err)
	}
	return buf.Bytes(), nil
}

// RenderToFile renders the chart and writes it to path instead of returning
// the bytes. Not used by the default pipeline.
func RenderToFile(yLabel string, series []Series, path string) error {
	png, err := Render(yLabel, series)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write chart to %s: %v", path, err)
	}
	return nil
}

// attribution draws a small credit line in the lower-right corner.
func attribution(text string) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		font := defaults.Font
		if font == nil {
			font, _ = chart.GetDefaultFont()
		}
		style := chart.Style{
			Font:      font,
			FontSize:  8,
			FontColor: chart.ColorAlternateGray,
		}
		style.WriteTextOptionsToRenderer(r)
		box := r.MeasureText(text)
		chart.Draw.Text(r, text, canvasBox.Right-box.Width()-5, canvasBox.Bottom-5, style)
	}
}
