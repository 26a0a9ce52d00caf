// Package render draws chart specs as SVG with go-chart.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"earlyvote/domain/chart"
)

// SVG writes spec as an SVG document.
func SVG(w io.Writer, spec chart.Spec) error {
	switch spec.Kind {
	case chart.KindLine:
		return renderLine(w, spec)
	case chart.KindPie:
		return renderPie(w, spec)
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

// SVGBytes renders spec into memory.
func SVGBytes(spec chart.Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := SVG(&buf, spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderLine(w io.Writer, spec chart.Spec) error {
	if len(spec.Lines) == 0 {
		return fmt.Errorf("line chart %q has no series", spec.Title)
	}

	labels := spec.Lines[0].X
	series := make([]gochart.Series, 0, len(spec.Lines))
	for _, line := range spec.Lines {
		if len(line.X) != len(line.Y) {
			return fmt.Errorf("series %s has %d x values and %d y values", line.Name, len(line.X), len(line.Y))
		}
		xs := make([]float64, len(line.Y))
		for i := range xs {
			xs[i] = float64(i)
		}
		style := gochart.Style{
			StrokeColor: parseColor(line.Color),
			StrokeWidth: line.Width,
		}
		if len(xs) == 1 {
			// One reporting day has no segment to stroke.
			style.DotColor = style.StrokeColor
			style.DotWidth = line.Width + 2
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: line.Y,
			Style:   style,
		})
	}

	if len(labels) == 0 {
		return fmt.Errorf("line chart %q has no x values", spec.Title)
	}
	xTicks := dayTicks(labels)

	ch := gochart.Chart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Background: gochart.Style{
			FillColor: parseColor(spec.Background),
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: parseColor(spec.Background)},
		XAxis: gochart.XAxis{
			Name:  spec.XAxis.Title,
			Style: axisStyle(spec.XAxis),
			Range: &gochart.ContinuousRange{Min: xTicks[0].Value, Max: xTicks[len(xTicks)-1].Value},
			Ticks: xTicks,
		},
		YAxis: gochart.YAxis{
			Name:  spec.YAxis.Title,
			Style: axisStyle(spec.YAxis),
		},
		Series: series,
	}
	if r := spec.YAxis.Range; r != nil {
		ch.YAxis.Range = &gochart.ContinuousRange{Min: r.Min, Max: r.Max}
		ch.YAxis.Ticks = rangeTicks(r.Min, r.Max, 10)
	}
	if spec.YAxis.ShowGrid {
		ch.YAxis.GridMajorStyle = gochart.Style{StrokeColor: parseColor(spec.YAxis.GridColor), StrokeWidth: 1}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	return ch.Render(gochart.SVG, w)
}

func renderPie(w io.Writer, spec chart.Spec) error {
	values := make([]gochart.Value, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		// A pie cannot draw a negative share. chart.Spec still carries the
		// raw value and its warning.
		if s.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: gochart.Style{FillColor: parseColor(s.Color), StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("pie chart %q has no positive slices", spec.Title)
	}

	pie := gochart.PieChart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Values: values,
	}
	return pie.Render(gochart.SVG, w)
}

func axisStyle(axis chart.Axis) gochart.Style {
	if !axis.ShowLine {
		return gochart.Style{}
	}
	return gochart.Style{StrokeColor: parseColor(axis.LineColor), StrokeWidth: axis.LineWidth}
}

// dayTicks labels each x index with its day. go-chart takes the x range from
// the ticks, so a single day is framed by blank ticks on both sides.
func dayTicks(labels []string) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(labels)+2)
	if len(labels) == 1 {
		ticks = append(ticks, gochart.Tick{Value: -1})
	}
	for i, label := range labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	if len(labels) == 1 {
		ticks = append(ticks, gochart.Tick{Value: 1})
	}
	return ticks
}

// rangeTicks places a labelled tick every step from min to max.
func rangeTicks(min, max, step float64) []gochart.Tick {
	var ticks []gochart.Tick
	for v := min; v <= max; v += step {
		ticks = append(ticks, gochart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return ticks
}

// parseColor accepts "#rgb", "#rrggbb" or "white". Anything else is black.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "white":
		return drawing.ColorWhite
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
