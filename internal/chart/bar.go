package chart

import (
	"fmt"
	"strings"

	"github.com/hargabyte/pkgdb/internal/output"
)

const (
	barLabelWidth = 140 // left gutter for category labels
	barValueWidth = 90  // right gutter for formatted counts
	barGap        = 8
	barMinStub    = 2 // zero values still get a visible stub
)

// Bar renders a horizontal bar chart. Bar length is proportional to the
// value relative to the maximum in the set; zero values are drawn as a
// minimum-width stub so every category stays labeled. Categories beyond
// cfg.MaxCategories are collapsed into a trailing "Other" bar.
func Bar(spec Spec, cfg Config) (string, error) {
	if err := spec.validate(); err != nil {
		return "", err
	}
	if spec.Total() == 0 {
		return Placeholder(spec.Name, cfg), nil
	}

	values := collapseTopN(spec.Values, cfg.MaxCategories)

	var maxVal int64
	for _, v := range values {
		if v.Value > maxVal {
			maxVal = v.Value
		}
	}

	rowHeight := (cfg.Height - barGap) / len(values)
	barHeight := rowHeight - barGap
	if barHeight < 4 {
		barHeight = 4
	}
	plotWidth := cfg.Width - barLabelWidth - barValueWidth

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="%s chart-bar" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		spec.Name, cfg.Width, cfg.Height)
	b.WriteString("\n")

	for i, v := range values {
		y := barGap + i*rowHeight
		w := int64(barMinStub)
		if v.Value > 0 {
			w = v.Value * int64(plotWidth) / maxVal
			if w < barMinStub {
				w = barMinStub
			}
		}
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-size="12" fill="#333">%s</text>`,
			barLabelWidth-8, y+barHeight/2+4, escape(v.Label))
		b.WriteString("\n")
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
			barLabelWidth, y, w, barHeight, cfg.color(i))
		b.WriteString("\n")
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="#333">%s</text>`,
			barLabelWidth+int(w)+6, y+barHeight/2+4, output.FormatCount(v.Value))
		b.WriteString("\n")
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

// escape covers the characters that matter inside SVG text nodes and
// attribute values.
func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
