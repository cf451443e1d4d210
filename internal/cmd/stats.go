package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/output"
	"github.com/hargabyte/pkgdb/internal/pypi"
	"github.com/hargabyte/pkgdb/internal/stats"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <package>",
	Short: "Show environment breakdown for a package",
	Long: `Fetch and show the Python version and operating system distribution
of recent downloads for a package.

The breakdown is fetched live from pypistats.org; the package does not
need to be tracked.

Examples:
  pkgdb stats requests`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := validatePackageName(name); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := pypi.NewClient(cfg.Fetch)

	pyRows, err := client.FetchPythonVersions(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("fetch python versions: %w", err)
	}
	osRows, err := client.FetchSystems(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("fetch operating systems: %w", err)
	}

	p := printer()
	python := stats.AggregateEnv(stats.DimensionPython, []map[string]int64{pypi.PythonBreakdown(pyRows)})
	system := stats.AggregateEnv(stats.DimensionSystem, []map[string]int64{pypi.SystemBreakdown(osRows)})

	p.Header(fmt.Sprintf("Environment breakdown for %s", name))
	printEnvSummary(p, "Python Versions", python)
	p.Print("")
	printEnvSummary(p, "Operating Systems", system)
	return nil
}

func printEnvSummary(p *output.Printer, title string, summary stats.EnvSummary) {
	p.Print("%s", p.Bold(title))
	if summary.Total == 0 {
		p.Print("  no data")
		return
	}
	for _, cat := range summary.Categories {
		pct := float64(cat.Count) / float64(summary.Total) * 100
		p.Print("  %-12s %s %5.1f%%  %s",
			cat.Label, output.PercentBar(pct, 20), pct, output.FormatCount(cat.Count))
	}
}
