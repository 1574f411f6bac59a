// Package evolution turns a client's symptom ratings into per-symptom series
// laid out on chart coordinates.
package evolution

import (
	"sort"
	"time"

	"mindcare/internal/domain"
)

// Palette is cycled in first-seen symptom order.
var Palette = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6",
	"#EC4899", "#06B6D4", "#84CC16", "#F97316", "#6366F1",
}

// Layout is the drawing area in pixels.
type Layout struct {
	Width, Height                        float64
	PadTop, PadRight, PadBottom, PadLeft float64
}

func DefaultLayout() Layout {
	return Layout{Width: 700, Height: 300, PadTop: 30, PadRight: 50, PadBottom: 80, PadLeft: 70}
}

func (l Layout) PlotWidth() float64  { return l.Width - l.PadLeft - l.PadRight }
func (l Layout) PlotHeight() float64 { return l.Height - l.PadTop - l.PadBottom }

// X spreads n points evenly across the plot by rank. A lone point sits on the left margin.
func (l Layout) X(rank, n int) float64 {
	if n <= 1 {
		return l.PadLeft
	}
	return l.PadLeft + float64(rank)/float64(n-1)*l.PlotWidth()
}

// Y maps an intensity on the 0..10 scale; 0 is the bottom of the plot.
func (l Layout) Y(v float64) float64 {
	return l.Height - l.PadBottom - v/domain.MaxIntensity*l.PlotHeight()
}

type Point struct {
	EntryID   string    `json:"entryId"`
	Time      time.Time `json:"time"`
	Intensity int       `json:"intensity"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
}

type Series struct {
	Symptom string  `json:"symptom"`
	Color   string  `json:"color"`
	Points  []Point `json:"points"`
}

type Aggregate struct {
	Layout Layout   `json:"layout"`
	Series []Series `json:"series"`
}

func (a Aggregate) Empty() bool { return len(a.Series) == 0 }

// Colors maps each symptom to its assigned color.
func (a Aggregate) Colors() map[string]string {
	out := make(map[string]string, len(a.Series))
	for _, s := range a.Series {
		out[s.Symptom] = s.Color
	}
	return out
}

// Build groups entries by exact symptom label (case-sensitive) in first-seen
// order and sorts each group by time. X is the point's rank within its own
// series, not a shared time axis: series with different lengths get different
// time-to-pixel ratios.
func Build(entries []domain.EvolutionEntry, layout Layout) Aggregate {
	agg := Aggregate{Layout: layout}
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Symptom]
		if !ok {
			i = len(agg.Series)
			index[e.Symptom] = i
			agg.Series = append(agg.Series, Series{
				Symptom: e.Symptom,
				Color:   Palette[i%len(Palette)],
			})
		}
		agg.Series[i].Points = append(agg.Series[i].Points, Point{
			EntryID:   e.ID,
			Time:      e.CreatedAt,
			Intensity: e.Intensity,
		})
	}

	for si := range agg.Series {
		pts := agg.Series[si].Points
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].Time.Before(pts[b].Time) })
		for i := range pts {
			pts[i].X = layout.X(i, len(pts))
			pts[i].Y = layout.Y(float64(pts[i].Intensity))
		}
	}
	return agg
}
