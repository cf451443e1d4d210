package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/output"
	"github.com/hargabyte/pkgdb/internal/stats"
	"github.com/hargabyte/pkgdb/internal/store"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show latest statistics for tracked packages",
	Long: `Show the most recent download statistics for all tracked packages,
ranked by total downloads, with week-over-week and month-over-month
growth and a sparkline of recent totals.

Growth shows '-' when no snapshot old enough for the comparison window
exists yet.

Examples:
  pkgdb show`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rows, err := st.StatsWithGrowth(cfg.Stats.WeekLookbackDays, cfg.Stats.MonthLookbackDays)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	p := printer()
	if len(rows) == 0 {
		p.Info("No statistics recorded. Run 'pkgdb fetch' first.")
		return nil
	}

	sparks, err := sparklines(st, cfg.Stats.SparklineWidth)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	table := output.NewTable([]string{"Rank", "Package", "Total", "Month", "Week", "Day", "Week Δ", "Month Δ", "Trend"})
	for i, row := range rows {
		table.AddRow([]string{
			strconv.Itoa(i + 1),
			row.Latest.PackageName,
			output.FormatCount(row.Latest.Total),
			output.FormatCount(row.Latest.LastMonth),
			output.FormatCount(row.Latest.LastWeek),
			output.FormatCount(row.Latest.LastDay),
			p.GrowthBadge(row.Week),
			p.GrowthBadge(row.Month),
			sparks[row.Latest.PackageName],
		})
	}
	table.Render()
	p.Print("")
	p.Print("As of %s", rows[0].Latest.FetchDate)
	return nil
}

// sparklines returns a per-package sparkline of the most recent totals.
func sparklines(st *store.Store, width int) (map[string]string, error) {
	recs, err := st.AllHistory(width)
	if err != nil {
		return nil, err
	}
	totals := make(map[string][]int64)
	for _, rec := range recs {
		totals[rec.PackageName] = append(totals[rec.PackageName], rec.Total)
	}
	out := make(map[string]string, len(totals))
	for name, vals := range totals {
		out[name] = stats.Sparkline(vals, width)
	}
	return out, nil
}
