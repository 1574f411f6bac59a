package chart

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"mindcare/internal/domain"
	"mindcare/internal/evolution"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(symptoms ...string) evolution.Aggregate {
	base := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	var entries []domain.EvolutionEntry
	for i, s := range symptoms {
		entries = append(entries, domain.EvolutionEntry{
			ID: s + "-" + string(rune('a'+i)), Symptom: s, Intensity: i + 3, CreatedAt: base.AddDate(0, 0, i),
		})
	}
	return evolution.Build(entries, evolution.DefaultLayout())
}

func TestRender_Gridlines(t *testing.T) {
	c := Render(sample("Ansiedade"))

	require.Len(t, c.Gridlines, 6)
	zero := c.Gridlines[0]
	assert.Equal(t, 0, zero.Value)
	assert.Equal(t, "", zero.Line.Dash)
	assert.Equal(t, "#9CA3AF", zero.Line.Stroke)
	assert.Equal(t, 2.0, zero.Line.Width)
	assert.Equal(t, 220.0, zero.Line.Y1)

	for _, g := range c.Gridlines[1:] {
		assert.Equal(t, "4,4", g.Line.Dash)
		assert.Equal(t, "#E5E7EB", g.Line.Stroke)
	}
	assert.Equal(t, 30.0, c.Gridlines[5].Line.Y1)
	assert.Len(t, c.Axes, 2)
}

func TestRender_SeriesMarkersTooltips(t *testing.T) {
	c := Render(sample("Ansiedade", "Ansiedade", "Estresse"))

	require.Len(t, c.Lines, 2)
	assert.Len(t, c.Lines[0].Points, 2)
	assert.Equal(t, "M 70 163 L 650 144", c.Lines[0].Path())
	require.Len(t, c.Markers, 3)
	assert.Equal(t, 8.0, c.Markers[0].OuterRadius)
	assert.Equal(t, 4.0, c.Markers[0].InnerRadius)

	require.Len(t, c.Tooltips, 3)
	tt := c.Tooltips[1]
	assert.Equal(t, "Ansiedade", tt.Symptom)
	assert.Equal(t, "Nota: 4/10", tt.Value)
	assert.Equal(t, "06/03/2024", tt.Date)
	assert.Equal(t, c.Markers[1].X-60, tt.X)

	require.Len(t, c.Legend, 2)
	assert.Equal(t, "Estresse", c.Legend[1].Symptom)
}

func TestRender_NoLegendForSingleSymptom(t *testing.T) {
	c := Render(sample("Ansiedade", "Ansiedade"))
	assert.Empty(t, c.Legend)
}

func TestRender_Empty(t *testing.T) {
	c := Render(evolution.Build(nil, evolution.DefaultLayout()))
	assert.True(t, c.Empty)
	assert.Empty(t, c.Gridlines)
	assert.Empty(t, c.Markers)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, c))
	assert.Contains(t, buf.String(), "Nenhum registro")
}

func TestWriteSVG_WellFormed(t *testing.T) {
	c := Render(sample("Ansiedade", "Medo <noite> & dia"))

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, c))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 6, strings.Count(out, "<line")-2)
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, "Medo &lt;noite&gt; &amp; dia")
	assert.Contains(t, out, `stroke-dasharray="4,4"`)

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}
