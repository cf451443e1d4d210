package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/hargabyte/pkgdb/internal/output"
)

// Pie renders a pie chart with a legend. Sector angles are value/total
// proportions of 360°; any rounding residue is assigned to the final
// sector so the sweeps always close the circle exactly. Categories beyond
// cfg.MaxCategories collapse into a trailing "Other" sector using the same
// helper as the bar chart. A zero total renders the placeholder.
func Pie(spec Spec, cfg Config) (string, error) {
	if err := spec.validate(); err != nil {
		return "", err
	}
	if len(spec.Values) == 0 {
		return Placeholder(spec.Name, cfg), nil
	}
	total := spec.Total()
	if total == 0 {
		return Placeholder(spec.Name, cfg), nil
	}

	values := collapseTopN(spec.Values, cfg.MaxCategories)

	radius := float64(cfg.Height)/2 - 16
	cx := radius + 16
	cy := float64(cfg.Height) / 2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="%s chart-pie" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		spec.Name, cfg.Width, cfg.Height)
	b.WriteString("\n")

	start := 0.0
	for i, v := range values {
		sweep := float64(v.Value) / float64(total) * 360
		end := start + sweep
		if i == len(values)-1 {
			// Close the circle exactly regardless of accumulated rounding.
			end = 360
		}
		if end > start {
			b.WriteString(sectorPath(cx, cy, radius, start, end, cfg.color(i)))
			b.WriteString("\n")
		}
		start = end
	}

	// Legend to the right of the pie, one row per sector with percentage.
	legendX := int(cx + radius + 24)
	for i, v := range values {
		y := 24 + i*22
		pct := float64(v.Value) / float64(total) * 100
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`,
			legendX, y-10, cfg.color(i))
		b.WriteString("\n")
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="#333">%s — %s (%.1f%%)</text>`,
			legendX+18, y, escape(v.Label), output.FormatCount(v.Value), pct)
		b.WriteString("\n")
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

// sectorPath emits one pie sector. A sweep covering the whole circle is
// drawn as a circle element because an arc with coincident endpoints
// renders as nothing.
func sectorPath(cx, cy, r, startDeg, endDeg float64, fill string) string {
	if endDeg-startDeg >= 360 {
		return fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, cx, cy, r, fill)
	}

	x1, y1 := arcPoint(cx, cy, r, startDeg)
	x2, y2 := arcPoint(cx, cy, r, endDeg)
	largeArc := 0
	if endDeg-startDeg > 180 {
		largeArc = 1
	}
	return fmt.Sprintf(`<path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z" fill="%s"/>`,
		cx, cy, x1, y1, r, r, largeArc, x2, y2, fill)
}

// arcPoint converts a clockwise angle (0° at twelve o'clock) to a point on
// the circle.
func arcPoint(cx, cy, r, deg float64) (float64, float64) {
	rad := (deg - 90) * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}
