// Package chart converts an evolution aggregate into drawing primitives and SVG.
package chart

import (
	"fmt"
	"strings"

	"mindcare/internal/calendar"
	"mindcare/internal/evolution"
)

const (
	zeroLineColor = "#9CA3AF"
	gridLineColor = "#E5E7EB"
	axisColor     = "#6B7280"
	gridDash      = "4,4"

	seriesStroke  = 3
	outerRadius   = 8
	innerRadius   = 4
	tooltipWidth  = 120
	tooltipHeight = 50
)

// GridValues are the intensities that get a horizontal line.
var GridValues = []int{0, 2, 4, 6, 8, 10}

type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	Width          float64
	Dash           string // empty means solid
}

type Label struct {
	X, Y   float64
	Text   string
	Anchor string
}

type Gridline struct {
	Value int
	Line  Line
	Label Label
}

type Polyline struct {
	Symptom string
	Stroke  string
	Width   float64
	Points  [][2]float64
}

// Path renders the polyline as an SVG path "M x y L x y ...".
func (p Polyline) Path() string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		fmt.Fprintf(&b, "%s %s", num(pt[0]), num(pt[1]))
	}
	return b.String()
}

// Marker is two concentric circles: a white ring and a filled dot.
type Marker struct {
	EntryID     string
	X, Y        float64
	Color       string
	OuterRadius float64
	InnerRadius float64
}

// Tooltip is shown on hover or focus of a marker.
type Tooltip struct {
	EntryID       string
	X, Y          float64
	Width, Height float64
	Symptom       string
	Value         string // "Nota: 7/10"
	Date          string // dd/mm/yyyy
}

type LegendEntry struct {
	Symptom string
	Color   string
}

type Chart struct {
	Width, Height float64
	Empty         bool
	Gridlines     []Gridline
	Axes          []Line
	Lines         []Polyline
	Markers       []Marker
	Tooltips      []Tooltip
	Legend        []LegendEntry
}

// Render is a pure mapping from aggregate to primitives. An empty aggregate
// yields a Chart with Empty set and nothing to draw.
func Render(agg evolution.Aggregate) Chart {
	l := agg.Layout
	c := Chart{Width: l.Width, Height: l.Height}
	if agg.Empty() {
		c.Empty = true
		return c
	}

	right := l.Width - l.PadRight
	bottom := l.Height - l.PadBottom
	for _, v := range GridValues {
		y := l.Y(float64(v))
		line := Line{X1: l.PadLeft, Y1: y, X2: right, Y2: y, Stroke: gridLineColor, Width: 1, Dash: gridDash}
		if v == 0 {
			line.Stroke, line.Width, line.Dash = zeroLineColor, 2, ""
		}
		c.Gridlines = append(c.Gridlines, Gridline{
			Value: v,
			Line:  line,
			Label: Label{X: l.PadLeft - 10, Y: y + 4, Text: fmt.Sprint(v), Anchor: "end"},
		})
	}
	c.Axes = []Line{
		{X1: l.PadLeft, Y1: l.PadTop, X2: l.PadLeft, Y2: bottom, Stroke: axisColor, Width: 2},
		{X1: l.PadLeft, Y1: bottom, X2: right, Y2: bottom, Stroke: axisColor, Width: 2},
	}

	for _, s := range agg.Series {
		pl := Polyline{Symptom: s.Symptom, Stroke: s.Color, Width: seriesStroke}
		for _, p := range s.Points {
			pl.Points = append(pl.Points, [2]float64{p.X, p.Y})
			c.Markers = append(c.Markers, Marker{
				EntryID: p.EntryID, X: p.X, Y: p.Y, Color: s.Color,
				OuterRadius: outerRadius, InnerRadius: innerRadius,
			})
			c.Tooltips = append(c.Tooltips, Tooltip{
				EntryID: p.EntryID,
				X:       p.X - tooltipWidth/2,
				Y:       p.Y - 60,
				Width:   tooltipWidth,
				Height:  tooltipHeight,
				Symptom: s.Symptom,
				Value:   fmt.Sprintf("Nota: %d/10", p.Intensity),
				Date:    calendar.DateOf(p.Time).FormatBR(),
			})
		}
		c.Lines = append(c.Lines, pl)
	}

	if len(agg.Series) > 1 {
		for _, s := range agg.Series {
			c.Legend = append(c.Legend, LegendEntry{Symptom: s.Symptom, Color: s.Color})
		}
	}
	return c
}

// num trims trailing zeros so coordinates stay compact in SVG output.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
