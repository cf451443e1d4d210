package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/output"
	"github.com/hargabyte/pkgdb/internal/store"
)

var (
	historyLimit int
	historySince string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <package>",
	Short: "Show recorded snapshots for a package",
	Long: `Show the history of daily download snapshots recorded for a
package, oldest first.

The --since filter accepts an absolute date (2026-08-01) or a relative
offset: 30d, 6w, or 3m ago.

Examples:
  pkgdb history requests
  pkgdb history requests -n 90
  pkgdb history requests --since 2w`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 30, "maximum snapshots to show (0 for all)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only show snapshots on or after this date")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ok, err := st.HasPackage(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotTracked, name)
	}

	recs, err := st.PackageHistory(name, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if historySince != "" {
		cutoff, err := parseDateArg(historySince)
		if err != nil {
			return err
		}
		filtered := recs[:0]
		for _, rec := range recs {
			if rec.FetchDate >= cutoff {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}

	p := printer()
	if len(recs) == 0 {
		p.Info("No snapshots recorded for %s. Run 'pkgdb fetch' first.", name)
		return nil
	}

	p.Header(fmt.Sprintf("History for %s", name))
	table := output.NewTable([]string{"Date", "Total", "Month", "Week", "Day"})
	for _, rec := range recs {
		table.AddRow([]string{
			rec.FetchDate,
			output.FormatCount(rec.Total),
			output.FormatCount(rec.LastMonth),
			output.FormatCount(rec.LastWeek),
			output.FormatCount(rec.LastDay),
		})
	}
	table.Render()
	p.Print("")
	p.Print("%d snapshot(s)", len(recs))
	return nil
}
