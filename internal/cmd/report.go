package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/chart"
	"github.com/hargabyte/pkgdb/internal/config"
	"github.com/hargabyte/pkgdb/internal/pypi"
	"github.com/hargabyte/pkgdb/internal/report"
	"github.com/hargabyte/pkgdb/internal/stats"
	"github.com/hargabyte/pkgdb/internal/store"
)

var (
	reportOutput  string
	reportWithEnv bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [package]",
	Short: "Generate a self-contained HTML report",
	Long: `Generate an HTML report from recorded statistics. The output is a
single file with inline SVG charts and no external resources, suitable
for emailing or static hosting.

Without arguments the report covers all tracked packages: a ranked
summary table with growth and sparklines, and a downloads-over-time
chart once packages have two or more snapshots. With a package name the
report covers that package alone, including its Python version and
operating system distribution fetched live from pypistats.org.

With --env the aggregate report also includes environment distribution
charts merged across all tracked packages.

Examples:
  pkgdb report
  pkgdb report -e -o weekly.html
  pkgdb report requests`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default report.html in the pkgdb directory)")
	reportCmd.Flags().BoolVarP(&reportWithEnv, "env", "e", false, "include environment distribution charts")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	path, err := reportPath()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if len(args) == 1 {
		err = writePackageReport(cmd, cfg, st, args[0], f)
	} else {
		err = writeAggregateReport(cmd, cfg, st, f)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printer().Success("Report written to %s", path)
	return nil
}

func reportPath() (string, error) {
	path := reportOutput
	if path == "" {
		dir, err := config.EnsureDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "report.html")
	}
	if err := validateOutputPath(path, []string{".html", ".htm"}); err != nil {
		return "", err
	}
	return path, nil
}

func writeAggregateReport(cmd *cobra.Command, cfg *config.Config, st *store.Store, f *os.File) error {
	rows, err := st.StatsWithGrowth(cfg.Stats.WeekLookbackDays, cfg.Stats.MonthLookbackDays)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	sparks, err := sparklines(st, cfg.Stats.SparklineWidth)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	data := report.Data{Generated: time.Now().UTC()}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Latest.PackageName)
		data.Summaries = append(data.Summaries, report.PackageSummary{
			Name:      row.Latest.PackageName,
			Total:     row.Latest.Total,
			LastMonth: row.Latest.LastMonth,
			LastWeek:  row.Latest.LastWeek,
			LastDay:   row.Latest.LastDay,
			Week:      row.Week,
			Month:     row.Month,
			Sparkline: sparks[row.Latest.PackageName],
		})
	}

	data.History, err = historySeries(st, names)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if reportWithEnv && len(names) > 0 {
		p := printer()
		p.Info("Fetching environment breakdowns for %d package(s)...", len(names))
		breakdowns, failures := pypi.NewClient(cfg.Fetch).FetchAllEnv(cmd.Context(), names, cfg.Fetch.Workers)
		for name, ferr := range failures {
			p.Warning("%s: %v", name, ferr)
		}
		data.Env = &report.EnvData{
			Python: pypi.AggregatePython(breakdowns),
			System: pypi.AggregateSystem(breakdowns),
		}
	}

	return report.Generate(f, data, chartConfig(cfg))
}

func writePackageReport(cmd *cobra.Command, cfg *config.Config, st *store.Store, name string, f *os.File) error {
	ok, err := st.HasPackage(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotTracked, name)
	}

	recs, err := st.PackageHistory(name, 0)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	data := report.PackageData{Name: name, Generated: time.Now().UTC()}
	if len(recs) > 0 {
		latest := recs[len(recs)-1]
		data.FetchDate = latest.FetchDate
		data.Total = latest.Total
		data.LastMonth = latest.LastMonth
		data.LastWeek = latest.LastWeek
		data.LastDay = latest.LastDay
		data.History, err = recordSeries(name, recs)
		if err != nil {
			return err
		}
	}

	p := printer()
	client := pypi.NewClient(cfg.Fetch)
	if pyRows, ferr := client.FetchPythonVersions(cmd.Context(), name); ferr != nil {
		p.Warning("python versions: %v", ferr)
	} else {
		data.Python = stats.AggregateEnv(stats.DimensionPython, []map[string]int64{pypi.PythonBreakdown(pyRows)})
	}
	if osRows, ferr := client.FetchSystems(cmd.Context(), name); ferr != nil {
		p.Warning("operating systems: %v", ferr)
	} else {
		data.System = stats.AggregateEnv(stats.DimensionSystem, []map[string]int64{pypi.SystemBreakdown(osRows)})
	}

	return report.GeneratePackage(f, data, chartConfig(cfg))
}

// historySeries builds one total-downloads series per package, in the
// given order so chart colors are stable across runs.
func historySeries(st *store.Store, names []string) ([]chart.Series, error) {
	recs, err := st.AllHistory(0)
	if err != nil {
		return nil, err
	}
	byName := make(map[string][]store.HistoryRecord)
	for _, rec := range recs {
		byName[rec.PackageName] = append(byName[rec.PackageName], rec)
	}
	var out []chart.Series
	for _, name := range names {
		if len(byName[name]) == 0 {
			continue
		}
		series, err := recordSeries(name, byName[name])
		if err != nil {
			return nil, err
		}
		out = append(out, series)
	}
	return out, nil
}

func recordSeries(name string, recs []store.HistoryRecord) (chart.Series, error) {
	series := chart.Series{Name: name}
	for _, rec := range recs {
		date, err := time.Parse("2006-01-02", rec.FetchDate)
		if err != nil {
			return chart.Series{}, fmt.Errorf("parse fetch date %q: %w", rec.FetchDate, err)
		}
		series.Points = append(series.Points, chart.Point{Date: date, Value: rec.Total})
	}
	return series, nil
}
