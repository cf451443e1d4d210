package chart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/hargabyte/pkgdb/internal/output"
)

const (
	lineMarginX = 48
	lineMarginY = 24
)

// Line renders one series as a polyline over a fixed grid. X positions are
// evenly distributed across the observations even when fetch cadence is
// irregular; y is scaled to the [min, max] of the series with a fixed
// margin. A single observation renders a point marker, not a degenerate
// line; an empty series renders the placeholder.
func Line(series Series, cfg Config) (string, error) {
	if err := series.validate(); err != nil {
		return "", err
	}
	if len(series.Points) == 0 {
		return Placeholder(series.Name, cfg), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="%s chart-line" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		series.Name, cfg.Width, cfg.Height)
	b.WriteString("\n")

	minVal, maxVal := seriesRange([]Series{series})
	writeAxes(&b, cfg, minVal, maxVal, series.Points[0].Date, series.Points[len(series.Points)-1].Date)

	if len(series.Points) == 1 {
		x, y := pointPos(0, 1, series.Points[0].Value, minVal, maxVal, cfg)
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="4" fill="%s"/>`, x, y, cfg.color(0))
		b.WriteString("\n")
	} else {
		columns := len(series.Points)
		b.WriteString(polyline(series.Points, func(i int) int { return i }, columns, minVal, maxVal, cfg, cfg.color(0)))
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

// MultiLine renders up to cfg.MaxSeries series on one grid. Series are
// ranked by final total descending (ties by name) and assigned palette
// colors by rank; the x axis is the sorted union of all dates across the
// included series. A series without a value on a given date contributes
// nothing at that x position — no interpolation, no zero-fill.
func MultiLine(name string, series []Series, cfg Config) (string, error) {
	for _, s := range series {
		if err := s.validate(); err != nil {
			return "", err
		}
	}

	included := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Points) > 0 {
			included = append(included, s)
		}
	}
	if len(included) == 0 {
		return Placeholder(name, cfg), nil
	}

	sort.SliceStable(included, func(i, j int) bool {
		a := included[i].Points[len(included[i].Points)-1].Value
		b := included[j].Points[len(included[j].Points)-1].Value
		if a != b {
			return a > b
		}
		return included[i].Name < included[j].Name
	})
	if cfg.MaxSeries > 0 && len(included) > cfg.MaxSeries {
		included = included[:cfg.MaxSeries]
	}

	// Union of all dates across the included series, ascending.
	dateSet := make(map[string]time.Time)
	for _, s := range included {
		for _, p := range s.Points {
			dateSet[p.Date.Format("2006-01-02")] = p.Date
		}
	}
	keys := make([]string, 0, len(dateSet))
	for k := range dateSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	dateIndex := make(map[string]int, len(keys))
	for i, k := range keys {
		dateIndex[k] = i
	}

	minVal, maxVal := seriesRange(included)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="%s chart-line chart-multiline" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		name, cfg.Width, cfg.Height)
	b.WriteString("\n")
	writeAxes(&b, cfg, minVal, maxVal, dateSet[keys[0]], dateSet[keys[len(keys)-1]])

	for i, s := range included {
		if len(s.Points) == 1 {
			idx := dateIndex[s.Points[0].Date.Format("2006-01-02")]
			x, y := pointPos(idx, len(keys), s.Points[0].Value, minVal, maxVal, cfg)
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="4" fill="%s"/>`, x, y, cfg.color(i))
			b.WriteString("\n")
			continue
		}
		points := s.Points
		b.WriteString(polyline(points, func(i int) int {
			return dateIndex[points[i].Date.Format("2006-01-02")]
		}, len(keys), minVal, maxVal, cfg, cfg.color(i)))
	}

	// Legend by rank, top-right.
	for i, s := range included {
		y := lineMarginY + i*18
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="4" fill="%s"/>`,
			cfg.Width-150, y-4, cfg.color(i))
		b.WriteString("\n")
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="#333">%s</text>`,
			cfg.Width-132, y, escape(s.Name))
		b.WriteString("\n")
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

// seriesRange returns the global min and max values across all points.
func seriesRange(all []Series) (int64, int64) {
	var data stats.Float64Data
	for _, s := range all {
		for _, p := range s.Points {
			data = append(data, float64(p.Value))
		}
	}
	if len(data) == 0 {
		return 0, 0
	}
	minVal, _ := stats.Min(data)
	maxVal, _ := stats.Max(data)
	return int64(minVal), int64(maxVal)
}

// pointPos maps a (column index, value) pair into plot coordinates. A flat
// or single-point range lands on the vertical center of the plot area.
func pointPos(idx, columns int, value, minVal, maxVal int64, cfg Config) (float64, float64) {
	plotW := float64(cfg.Width - 2*lineMarginX)
	plotH := float64(cfg.Height - 2*lineMarginY)

	x := float64(lineMarginX)
	if columns > 1 {
		x += float64(idx) / float64(columns-1) * plotW
	} else {
		x += plotW / 2
	}

	y := float64(lineMarginY) + plotH/2
	if maxVal > minVal {
		frac := float64(value-minVal) / float64(maxVal-minVal)
		y = float64(lineMarginY) + (1-frac)*plotH
	}
	return x, y
}

// polyline draws a series as one polyline. columnOf maps the i-th point to
// its x column out of columns total.
func polyline(points []Point, columnOf func(i int) int, columns int, minVal, maxVal int64, cfg Config, color string) string {
	coords := make([]string, 0, len(points))
	for i, p := range points {
		x, y := pointPos(columnOf(i), columns, p.Value, minVal, maxVal, cfg)
		coords = append(coords, fmt.Sprintf("%.2f,%.2f", x, y))
	}
	return fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
		strings.Join(coords, " "), color) + "\n"
}

// writeAxes draws the plot frame plus min/max value labels and the date
// range endpoints.
func writeAxes(b *strings.Builder, cfg Config, minVal, maxVal int64, first, last time.Time) {
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#ddd"/>`,
		lineMarginX, lineMarginY, cfg.Width-2*lineMarginX, cfg.Height-2*lineMarginY)
	b.WriteString("\n")
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="end" font-size="10" fill="#666">%s</text>`,
		lineMarginX-4, lineMarginY+10, output.FormatCount(maxVal))
	b.WriteString("\n")
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="end" font-size="10" fill="#666">%s</text>`,
		lineMarginX-4, cfg.Height-lineMarginY, output.FormatCount(minVal))
	b.WriteString("\n")
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="10" fill="#666">%s</text>`,
		lineMarginX, cfg.Height-lineMarginY+16, first.Format("2006-01-02"))
	b.WriteString("\n")
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="end" font-size="10" fill="#666">%s</text>`,
		cfg.Width-lineMarginX, cfg.Height-lineMarginY+16, last.Format("2006-01-02"))
	b.WriteString("\n")
}
