package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/output"
	"github.com/hargabyte/pkgdb/internal/pypi"
	"github.com/hargabyte/pkgdb/internal/store"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [package]...",
	Short: "Fetch download statistics from pypistats.org",
	Long: `Fetch current download statistics for tracked packages and record
them in the history store. One snapshot is kept per package per day;
fetching again on the same day replaces that day's snapshot.

Without arguments all tracked packages are fetched. Packages that fail
to fetch are reported and skipped.

Examples:
  pkgdb fetch
  pkgdb fetch requests flask`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	names, err := resolvePackages(st, args)
	if err != nil {
		return err
	}
	p := printer()
	if len(names) == 0 {
		p.Info("No packages tracked. Use 'pkgdb add <package>' to start.")
		return nil
	}

	p.Info("Fetching statistics for %d package(s)...", len(names))
	client := pypi.NewClient(cfg.Fetch)
	results, failures := client.FetchAll(cmd.Context(), names, cfg.Fetch.Workers)

	today := time.Now().UTC().Format("2006-01-02")
	recs := make([]store.HistoryRecord, 0, len(results))
	for name, ps := range results {
		recs = append(recs, store.HistoryRecord{
			PackageName: name,
			FetchDate:   today,
			LastDay:     ps.LastDay,
			LastWeek:    ps.LastWeek,
			LastMonth:   ps.LastMonth,
			Total:       ps.Total,
		})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].PackageName < recs[j].PackageName })

	if verbose {
		for _, rec := range recs {
			p.Print("  %s: %s total", rec.PackageName, output.FormatCount(rec.Total))
		}
	}

	if err := st.UpsertStatsBulk(recs); err != nil {
		return fmt.Errorf("record stats: %w", err)
	}

	for _, name := range names {
		if err, ok := failures[name]; ok {
			p.Warning("%s: %v", name, err)
		}
	}
	p.Success("Recorded %d snapshot(s) for %s", len(recs), today)
	if len(failures) > 0 {
		p.Warning("%d package(s) failed", len(failures))
	}
	return nil
}

// resolvePackages returns the tracked package names to operate on. With
// explicit args each must be tracked; otherwise all tracked packages.
func resolvePackages(st *store.Store, args []string) ([]string, error) {
	if len(args) > 0 {
		for _, name := range args {
			ok, err := st.HasPackage(name)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%w: %s", store.ErrNotTracked, name)
			}
		}
		return args, nil
	}
	packages, err := st.ListPackages()
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	names := make([]string, 0, len(packages))
	for _, pkg := range packages {
		names = append(names, pkg.Name)
	}
	return names, nil
}
