package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupDays int

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove orphaned and old history",
	Long: `Delete history rows belonging to packages that are no longer
tracked. With --days, also delete snapshots older than the given number
of days for all packages.

Examples:
  pkgdb cleanup
  pkgdb cleanup --days 365`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "also prune snapshots older than this many days")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	p := printer()
	removed, err := st.CleanupOrphans()
	if err != nil {
		return fmt.Errorf("cleanup orphans: %w", err)
	}
	p.Success("Removed %d orphaned history row(s)", removed)

	if cleanupDays > 0 {
		pruned, err := st.Prune(cleanupDays)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		p.Success("Pruned %d snapshot(s) older than %d days", pruned, cleanupDays)
	}
	return nil
}
