package chart

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// WriteSVG serialises c as a standalone SVG document. Tooltips become <title>
// children of their marker group so browsers show them on hover and focus.
func WriteSVG(w io.Writer, c Chart) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" role="img">`,
		num(c.Width), num(c.Height), num(c.Width), num(c.Height))
	bw.WriteString("\n")

	if c.Empty {
		fmt.Fprintf(bw, `<text x="%s" y="%s" text-anchor="middle" fill="#6B7280">Nenhum registro de evolução</text>`+"\n",
			num(c.Width/2), num(c.Height/2))
		bw.WriteString("</svg>\n")
		return bw.Flush()
	}

	for _, g := range c.Gridlines {
		writeLine(bw, g.Line)
		fmt.Fprintf(bw, `<text x="%s" y="%s" text-anchor="%s" font-size="12" fill="#6B7280">%s</text>`+"\n",
			num(g.Label.X), num(g.Label.Y), g.Label.Anchor, escape(g.Label.Text))
	}
	for _, a := range c.Axes {
		writeLine(bw, a)
	}
	for _, p := range c.Lines {
		fmt.Fprintf(bw, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="round"/>`+"\n",
			p.Path(), p.Stroke, num(p.Width))
	}
	for i, m := range c.Markers {
		bw.WriteString(`<g tabindex="0">`)
		fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="#FFFFFF" stroke="%s" stroke-width="3"/>`,
			num(m.X), num(m.Y), num(m.OuterRadius), m.Color)
		fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
			num(m.X), num(m.Y), num(m.InnerRadius), m.Color)
		if i < len(c.Tooltips) {
			tt := c.Tooltips[i]
			fmt.Fprintf(bw, `<title>%s&#10;%s&#10;%s</title>`, escape(tt.Symptom), escape(tt.Value), escape(tt.Date))
		}
		bw.WriteString("</g>\n")
	}
	for i, l := range c.Legend {
		y := c.Height - 30
		x := 70 + float64(i)*140
		fmt.Fprintf(bw, `<rect x="%s" y="%s" width="12" height="12" fill="%s"/>`, num(x), num(y-10), l.Color)
		fmt.Fprintf(bw, `<text x="%s" y="%s" font-size="12" fill="#374151">%s</text>`+"\n", num(x+18), num(y), escape(l.Symptom))
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeLine(w io.Writer, l Line) {
	dash := ""
	if l.Dash != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, l.Dash)
	}
	fmt.Fprintf(w, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s/>`+"\n",
		num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), l.Stroke, num(l.Width), dash)
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
