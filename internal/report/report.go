// Package report assembles self-contained HTML documents from computed
// statistics: an aggregate report over the tracking list and a detailed
// single-package report. Both modes share one document shell so their base
// styling can never diverge. Charts arrive as pre-rendered inline SVG; the
// documents reference no external resources.
package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/hargabyte/pkgdb/internal/chart"
	"github.com/hargabyte/pkgdb/internal/output"
	"github.com/hargabyte/pkgdb/internal/stats"
)

// PackageSummary is one row of the aggregate report's summary table.
type PackageSummary struct {
	Name      string
	Total     int64
	LastMonth int64
	LastWeek  int64
	LastDay   int64
	Week      stats.Growth
	Month     stats.Growth
	Sparkline string
}

// EnvData carries the aggregated environment summaries for the optional
// environment section.
type EnvData struct {
	Python stats.EnvSummary
	System stats.EnvSummary
}

// Data is the input for the aggregate report.
type Data struct {
	Title     string
	Generated time.Time
	Summaries []PackageSummary
	History   []chart.Series // one series per package; optional
	Env       *EnvData       // optional environment section
}

// PackageData is the input for the single-package report.
type PackageData struct {
	Name      string
	FetchDate string
	Total     int64
	LastMonth int64
	LastWeek  int64
	LastDay   int64
	History   chart.Series
	Python    stats.EnvSummary
	System    stats.EnvSummary
	Generated time.Time
}

// Generate writes the aggregate report. The multi-series chart is included
// only when at least one package has two or more history points; the
// environment section only when data.Env is set. Empty chart data renders a
// visible placeholder instead of dropping the section silently.
func Generate(w io.Writer, data Data, cfg chart.Config) error {
	title := data.Title
	if title == "" {
		title = "PyPI Package Statistics"
	}

	body := &bodyData{
		Summaries: summaryRows(data.Summaries),
	}

	if hasTrend(data.History) {
		svg, err := chart.MultiLine("trend-chart", data.History, cfg)
		if err != nil {
			return fmt.Errorf("render trend chart: %w", err)
		}
		body.TrendChart = template.HTML(svg)
	}

	if data.Env != nil {
		section, err := envSection(data.Env.Python, data.Env.System, cfg)
		if err != nil {
			return err
		}
		body.Env = section
		body.EnvHeading = "Environment Summary"
	}

	var buf template.HTML
	if err := renderTemplate(aggregateBody, body, &buf); err != nil {
		return err
	}
	return renderShell(w, title, data.Generated, buf)
}

// GeneratePackage writes the detailed report for one package.
func GeneratePackage(w io.Writer, data PackageData, cfg chart.Config) error {
	body := &packageBodyData{
		Name:      data.Name,
		FetchDate: data.FetchDate,
		Cards: []statCard{
			{"Total Downloads", output.FormatCount(data.Total)},
			{"Last Month", output.FormatCount(data.LastMonth)},
			{"Last Week", output.FormatCount(data.LastWeek)},
			{"Last Day", output.FormatCount(data.LastDay)},
		},
	}

	if len(data.History.Points) > 0 {
		svg, err := chart.Line(data.History, cfg)
		if err != nil {
			return fmt.Errorf("render history chart: %w", err)
		}
		body.HistoryChart = template.HTML(svg)
	} else {
		body.HistoryNote = "No history recorded yet. Run fetch on consecutive days to build a trend."
	}

	section, err := envSection(data.Python, data.System, cfg)
	if err != nil {
		return err
	}
	body.Env = section
	body.EnvHeading = "Environment Distribution"

	var buf template.HTML
	if err := renderTemplate(packageBody, body, &buf); err != nil {
		return err
	}
	return renderShell(w, data.Name+" - PyPI Downloads", data.Generated, buf)
}

// hasTrend reports whether any series carries enough points for a line.
func hasTrend(series []chart.Series) bool {
	for _, s := range series {
		if len(s.Points) >= 2 {
			return true
		}
	}
	return false
}

func summaryRows(summaries []PackageSummary) []summaryRow {
	rows := make([]summaryRow, 0, len(summaries))
	for i, s := range summaries {
		rows = append(rows, summaryRow{
			Rank:      i + 1,
			Name:      s.Name,
			Total:     output.FormatCount(s.Total),
			LastMonth: output.FormatCount(s.LastMonth),
			LastWeek:  output.FormatCount(s.LastWeek),
			LastDay:   output.FormatCount(s.LastDay),
			Week:      growthCell(s.Week),
			Month:     growthCell(s.Month),
			Sparkline: s.Sparkline,
		})
	}
	return rows
}

type growthView struct {
	Text  string
	Class string
}

func growthCell(g stats.Growth) growthView {
	if !g.Defined {
		return growthView{Text: "-", Class: "growth-none"}
	}
	text := fmt.Sprintf("%+.1f%%", g.Percent)
	switch {
	case g.Percent > 0:
		return growthView{Text: text, Class: "growth-up"}
	case g.Percent < 0:
		return growthView{Text: text, Class: "growth-down"}
	default:
		return growthView{Text: text, Class: "growth-flat"}
	}
}

type envView struct {
	PythonChart template.HTML
	SystemChart template.HTML
}

func envSection(python, system stats.EnvSummary, cfg chart.Config) (*envView, error) {
	pySVG, err := chart.Pie(envSpec("py-version-chart", python), cfg)
	if err != nil {
		return nil, fmt.Errorf("render python version chart: %w", err)
	}
	osSVG, err := chart.Pie(envSpec("os-chart", system), cfg)
	if err != nil {
		return nil, fmt.Errorf("render os chart: %w", err)
	}
	return &envView{
		PythonChart: template.HTML(pySVG),
		SystemChart: template.HTML(osSVG),
	}, nil
}

func envSpec(name string, summary stats.EnvSummary) chart.Spec {
	spec := chart.Spec{Name: name}
	for _, c := range summary.Categories {
		spec.Values = append(spec.Values, chart.Value{Label: c.Label, Value: c.Count})
	}
	return spec
}
