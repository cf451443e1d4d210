package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hargabyte/pkgdb/internal/chart"
	"github.com/hargabyte/pkgdb/internal/stats"
)

func day(n int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func sampleEnv() *EnvData {
	return &EnvData{
		Python: stats.EnvSummary{
			Dimension:  stats.DimensionPython,
			Categories: []stats.CategoryCount{{Label: "3.11", Count: 2000}, {Label: "3.10", Count: 1000}},
			Total:      3000,
		},
		System: stats.EnvSummary{
			Dimension:  stats.DimensionSystem,
			Categories: []stats.CategoryCount{{Label: "Linux", Count: 4000}, {Label: "Windows", Count: 1000}},
			Total:      5000,
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Run("includes all packages in the summary table", func(t *testing.T) {
		var buf bytes.Buffer
		data := Data{
			Generated: day(0),
			Summaries: []PackageSummary{
				{Name: "pkg-a", Total: 10000, LastMonth: 3000, LastWeek: 700, LastDay: 100, Sparkline: "▁▃▅█"},
				{Name: "pkg-b", Total: 5000, LastMonth: 1500, LastWeek: 350, LastDay: 50},
			},
		}
		require.NoError(t, Generate(&buf, data, chart.DefaultConfig()))

		out := buf.String()
		assert.Contains(t, out, "<!DOCTYPE html>")
		assert.Contains(t, out, "pkg-a")
		assert.Contains(t, out, "pkg-b")
		assert.Contains(t, out, "10,000")
		assert.Contains(t, out, "▁▃▅█")
	})

	t.Run("is self contained", func(t *testing.T) {
		var buf bytes.Buffer
		data := Data{
			Generated: day(0),
			Summaries: []PackageSummary{{Name: "pkg-a", Total: 1000}},
			History: []chart.Series{
				{Name: "pkg-a", Points: []chart.Point{{Date: day(0), Value: 900}, {Date: day(1), Value: 1000}}},
			},
			Env: sampleEnv(),
		}
		require.NoError(t, Generate(&buf, data, chart.DefaultConfig()))

		out := strings.ToLower(buf.String())
		assert.NotContains(t, out, "cdn")
		assert.NotContains(t, out, "<script")
		assert.NotContains(t, out, `src="`)
		assert.NotContains(t, out, `<link`)
	})

	t.Run("trend chart only with at least two points", func(t *testing.T) {
		singlePoint := Data{
			Generated: day(0),
			Summaries: []PackageSummary{{Name: "pkg-a", Total: 1000}},
			History: []chart.Series{
				{Name: "pkg-a", Points: []chart.Point{{Date: day(0), Value: 1000}}},
			},
		}
		var buf bytes.Buffer
		require.NoError(t, Generate(&buf, singlePoint, chart.DefaultConfig()))
		assert.NotContains(t, buf.String(), "Downloads Over Time")

		twoPoints := singlePoint
		twoPoints.History = []chart.Series{
			{Name: "pkg-a", Points: []chart.Point{{Date: day(0), Value: 900}, {Date: day(1), Value: 1000}}},
		}
		buf.Reset()
		require.NoError(t, Generate(&buf, twoPoints, chart.DefaultConfig()))
		assert.Contains(t, buf.String(), "Downloads Over Time")
		assert.Contains(t, buf.String(), "polyline")
	})

	t.Run("environment section only when requested", func(t *testing.T) {
		data := Data{
			Generated: day(0),
			Summaries: []PackageSummary{{Name: "pkg-a", Total: 1000}},
		}
		var buf bytes.Buffer
		require.NoError(t, Generate(&buf, data, chart.DefaultConfig()))
		assert.NotContains(t, buf.String(), "Environment Summary")

		data.Env = sampleEnv()
		buf.Reset()
		require.NoError(t, Generate(&buf, data, chart.DefaultConfig()))
		out := buf.String()
		assert.Contains(t, out, "Environment Summary")
		assert.Contains(t, out, "py-version-chart")
		assert.Contains(t, out, "os-chart")
	})

	t.Run("growth cells show direction and undefined as dash", func(t *testing.T) {
		data := Data{
			Generated: day(0),
			Summaries: []PackageSummary{
				{Name: "up", Week: stats.Growth{Defined: true, Percent: 12.5}},
				{Name: "down", Week: stats.Growth{Defined: true, Percent: -3}},
				{Name: "new", Week: stats.Growth{}},
			},
		}
		var buf bytes.Buffer
		require.NoError(t, Generate(&buf, data, chart.DefaultConfig()))
		out := buf.String()
		assert.Contains(t, out, `class="growth-up">+12.5%`)
		assert.Contains(t, out, `class="growth-down">-3.0%`)
		assert.Contains(t, out, `class="growth-none">-`)
	})
}

func TestGeneratePackage(t *testing.T) {
	base := PackageData{
		Name:      "test-pkg",
		FetchDate: "2026-08-01",
		Total:     1000,
		LastMonth: 300,
		LastWeek:  70,
		LastDay:   10,
		Generated: day(0),
	}

	t.Run("renders stat cards with formatted counts", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, GeneratePackage(&buf, base, chart.DefaultConfig()))

		out := buf.String()
		assert.Contains(t, out, "test-pkg")
		assert.Contains(t, out, "Total Downloads")
		assert.Contains(t, out, "Last Month")
		assert.Contains(t, out, "Last Week")
		assert.Contains(t, out, "Last Day")
		assert.Contains(t, out, "1,000")
	})

	t.Run("renders history line chart when available", func(t *testing.T) {
		data := base
		data.History = chart.Series{Name: "trend-chart", Points: []chart.Point{
			{Date: day(0), Value: 1000},
			{Date: day(1), Value: 2000},
			{Date: day(2), Value: 3000},
		}}

		var buf bytes.Buffer
		require.NoError(t, GeneratePackage(&buf, data, chart.DefaultConfig()))
		out := buf.String()
		assert.Contains(t, out, "Downloads Over Time")
		assert.Contains(t, out, "polyline")
	})

	t.Run("placeholder note without history", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, GeneratePackage(&buf, base, chart.DefaultConfig()))
		out := buf.String()
		assert.Contains(t, out, "Downloads Over Time")
		assert.Contains(t, out, "placeholder-note")
		assert.NotContains(t, out, "polyline")
	})

	t.Run("environment charts", func(t *testing.T) {
		data := base
		env := sampleEnv()
		data.Python = env.Python
		data.System = env.System

		var buf bytes.Buffer
		require.NoError(t, GeneratePackage(&buf, data, chart.DefaultConfig()))
		out := buf.String()
		assert.Contains(t, out, "Environment Distribution")
		assert.Contains(t, out, "Python Versions")
		assert.Contains(t, out, "Operating Systems")
		assert.Contains(t, out, "py-version-chart")
		assert.Contains(t, out, "os-chart")
	})

	t.Run("empty environment renders no-data placeholders", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, GeneratePackage(&buf, base, chart.DefaultConfig()))
		out := buf.String()
		assert.Contains(t, out, "Environment Distribution")
		assert.Contains(t, out, "No data")
	})
}

func TestGenerateEndToEnd(t *testing.T) {
	// Three packages with four days of history: one flat, one growing, one
	// jumping from zero to nonzero.
	histories := map[string][]int64{
		"flat":    {500, 500, 500, 500},
		"growing": {100, 200, 300, 400},
		"jumper":  {0, 0, 50, 100},
	}

	var summaries []PackageSummary
	var series []chart.Series
	for _, name := range []string{"flat", "growing", "jumper"} {
		values := histories[name]
		var obs []stats.Observation
		var points []chart.Point
		for i, v := range values {
			obs = append(obs, stats.Observation{Date: day(i), Value: v})
			points = append(points, chart.Point{Date: day(i), Value: v})
		}
		summaries = append(summaries, PackageSummary{
			Name:      name,
			Total:     values[len(values)-1],
			Week:      stats.ComputeGrowth(obs, 3),
			Sparkline: stats.Sparkline(values, 7),
		})
		series = append(series, chart.Series{Name: name, Points: points})
	}

	// Growth over the 3-day window: flat and growing are defined, the
	// zero-to-nonzero jump is not.
	assert.True(t, summaries[0].Week.Defined)
	assert.Equal(t, float64(0), summaries[0].Week.Percent)
	assert.True(t, summaries[1].Week.Defined)
	assert.False(t, summaries[2].Week.Defined)

	var buf bytes.Buffer
	data := Data{Generated: day(4), Summaries: summaries, History: series}
	require.NoError(t, Generate(&buf, data, chart.DefaultConfig()))

	out := buf.String()
	for name := range histories {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Downloads Over Time")
	assert.Contains(t, out, "polyline")
}
