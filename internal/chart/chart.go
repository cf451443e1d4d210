// Package chart renders SVG fragments for pkgdb's HTML reports: bar charts,
// pie charts, and single/multi-series line charts. Renderers are pure
// functions from a validated spec plus an immutable Config to markup text;
// identical inputs produce byte-identical fragments so reports can be
// golden-file tested. Degenerate data (zero totals, empty series) renders a
// visible "No data" placeholder instead of a malformed graphic; only a
// malformed spec is an error.
package chart

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSpec is wrapped by all validation failures at the render boundary.
var ErrInvalidSpec = errors.New("invalid chart spec")

// Config holds the rendering parameters shared by all chart kinds.
// It is a plain value so alternate configurations can be passed in tests;
// there is no ambient global state.
type Config struct {
	Width         int
	Height        int
	Palette       []string
	MaxCategories int // bar/pie slices before collapsing into "Other"
	MaxSeries     int // series cap for the multi-line chart
}

// DefaultConfig returns the dimensions and palette the reports use.
func DefaultConfig() Config {
	return Config{
		Width:  640,
		Height: 320,
		Palette: []string{
			"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
			"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
		},
		MaxCategories: 5,
		MaxSeries:     5,
	}
}

// Value is one labeled magnitude in a bar or pie spec.
type Value struct {
	Label string
	Value int64
}

// Spec is the input contract for bar and pie charts: an ordered set of
// labeled values plus a name used as the fragment's CSS class so tests and
// styling can address individual charts.
type Spec struct {
	Name   string
	Values []Value
}

// Point is one dated sample in a line series.
type Point struct {
	Date  time.Time
	Value int64
}

// Series is a named (date, value) sequence for line charts, ordered
// ascending by date.
type Series struct {
	Name   string
	Points []Point
}

// Total returns the sum of all values in the spec.
func (s Spec) Total() int64 {
	var total int64
	for _, v := range s.Values {
		total += v.Value
	}
	return total
}

func (s Spec) validate() error {
	for _, v := range s.Values {
		if v.Value < 0 {
			return fmt.Errorf("%w: negative value %d for category %q", ErrInvalidSpec, v.Value, v.Label)
		}
	}
	return nil
}

func (s Series) validate() error {
	for i, p := range s.Points {
		if p.Value < 0 {
			return fmt.Errorf("%w: negative value %d in series %q", ErrInvalidSpec, p.Value, s.Name)
		}
		if i > 0 && p.Date.Before(s.Points[i-1].Date) {
			return fmt.Errorf("%w: series %q not ordered by date", ErrInvalidSpec, s.Name)
		}
	}
	return nil
}

func (c Config) color(i int) string {
	if len(c.Palette) == 0 {
		return "#888888"
	}
	return c.Palette[i%len(c.Palette)]
}

// Placeholder is the fragment substituted when a chart has nothing to draw.
// It is deliberately a real SVG so report layout stays stable.
func Placeholder(name string, cfg Config) string {
	return fmt.Sprintf(
		`<svg class="%s chart-empty" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+
			`<text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">No data</text></svg>`,
		name, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2)
}
