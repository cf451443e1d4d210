package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

// renderShell wraps a pre-rendered body in the shared document shell. Both
// report modes go through here so layout and styling stay identical.
func renderShell(w io.Writer, title string, generated time.Time, body template.HTML) error {
	data := struct {
		Title     string
		Generated string
		Body      template.HTML
	}{
		Title:     title,
		Generated: generated.UTC().Format("2006-01-02 15:04 UTC"),
		Body:      body,
	}
	if err := shellTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render report shell: %w", err)
	}
	return nil
}

func renderTemplate(t *template.Template, data any, out *template.HTML) error {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return fmt.Errorf("render report body: %w", err)
	}
	*out = template.HTML(b.String())
	return nil
}

type summaryRow struct {
	Rank      int
	Name      string
	Total     string
	LastMonth string
	LastWeek  string
	LastDay   string
	Week      growthView
	Month     growthView
	Sparkline string
}

type bodyData struct {
	Summaries  []summaryRow
	TrendChart template.HTML
	Env        *envView
	EnvHeading string
}

type statCard struct {
	Label string
	Value string
}

type packageBodyData struct {
	Name         string
	FetchDate    string
	Cards        []statCard
	HistoryChart template.HTML
	HistoryNote  string
	Env          *envView
	EnvHeading   string
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; background: #f6f8fa; color: #24292f; }
.container { max-width: 960px; margin: 0 auto; padding: 24px; }
header { border-bottom: 1px solid #d0d7de; margin-bottom: 24px; padding-bottom: 12px; }
h1 { margin: 0 0 4px 0; font-size: 24px; }
h2 { font-size: 18px; margin: 32px 0 12px 0; }
.generated { color: #57606a; font-size: 13px; margin: 0; }
table.summary { width: 100%; border-collapse: collapse; background: #fff; border: 1px solid #d0d7de; border-radius: 6px; }
table.summary th, table.summary td { padding: 8px 12px; text-align: left; border-bottom: 1px solid #d8dee4; font-size: 14px; }
table.summary th { background: #f6f8fa; font-weight: 600; }
table.summary tr:last-child td { border-bottom: none; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
td.spark { font-family: monospace; font-size: 14px; }
.growth-up { color: #1a7f37; }
.growth-down { color: #cf222e; }
.growth-none, .growth-flat { color: #57606a; }
.chart-section { background: #fff; border: 1px solid #d0d7de; border-radius: 6px; padding: 16px; margin-bottom: 24px; }
.chart-row { display: flex; flex-wrap: wrap; gap: 24px; }
.chart-row > div { flex: 1 1 300px; }
.stat-cards { display: flex; flex-wrap: wrap; gap: 16px; margin-bottom: 24px; }
.stat-card { flex: 1 1 160px; background: #fff; border: 1px solid #d0d7de; border-radius: 6px; padding: 16px; }
.stat-card .label { color: #57606a; font-size: 13px; }
.stat-card .value { font-size: 22px; font-weight: 600; margin-top: 4px; }
.placeholder-note { color: #57606a; font-style: italic; }
svg { max-width: 100%; height: auto; }
</style>
</head>
<body>
<div class="container">
<header>
<h1>{{.Title}}</h1>
<p class="generated">Generated {{.Generated}}</p>
</header>
{{.Body}}
</div>
</body>
</html>
`))

var aggregateBody = template.Must(template.New("aggregate").Parse(`<section class="chart-section">
<table class="summary">
<thead>
<tr><th>Rank</th><th>Package</th><th>Total</th><th>Month</th><th>Week</th><th>Day</th><th>Week Δ</th><th>Month Δ</th><th>Trend</th></tr>
</thead>
<tbody>
{{range .Summaries}}<tr>
<td class="num">{{.Rank}}</td>
<td>{{.Name}}</td>
<td class="num">{{.Total}}</td>
<td class="num">{{.LastMonth}}</td>
<td class="num">{{.LastWeek}}</td>
<td class="num">{{.LastDay}}</td>
<td class="{{.Week.Class}}">{{.Week.Text}}</td>
<td class="{{.Month.Class}}">{{.Month.Text}}</td>
<td class="spark">{{.Sparkline}}</td>
</tr>
{{end}}</tbody>
</table>
</section>
{{if .TrendChart}}<h2>Downloads Over Time</h2>
<section class="chart-section">
{{.TrendChart}}
</section>
{{end}}{{if .Env}}<h2>{{.EnvHeading}}</h2>
<section class="chart-section">
<div class="chart-row">
<div><h3>Python Versions</h3>{{.Env.PythonChart}}</div>
<div><h3>Operating Systems</h3>{{.Env.SystemChart}}</div>
</div>
</section>
{{end}}`))

var packageBody = template.Must(template.New("package").Parse(`<div class="stat-cards">
{{range .Cards}}<div class="stat-card">
<div class="label">{{.Label}}</div>
<div class="value">{{.Value}}</div>
</div>
{{end}}</div>
<h2>Downloads Over Time</h2>
<section class="chart-section">
{{if .HistoryChart}}{{.HistoryChart}}{{else}}<p class="placeholder-note">{{.HistoryNote}}</p>{{end}}
</section>
<h2>{{.EnvHeading}}</h2>
<section class="chart-section">
<div class="chart-row">
<div><h3>Python Versions</h3>{{.Env.PythonChart}}</div>
<div><h3>Operating Systems</h3>{{.Env.SystemChart}}</div>
</div>
</section>
`))
