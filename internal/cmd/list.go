package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/output"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked packages",
	Long: `List all packages currently being tracked, with the date each
was added.

Examples:
  pkgdb list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	packages, err := st.ListPackages()
	if err != nil {
		return fmt.Errorf("list packages: %w", err)
	}

	p := printer()
	if len(packages) == 0 {
		p.Info("No packages tracked. Use 'pkgdb add <package>' to start.")
		return nil
	}

	table := output.NewTable([]string{"Package", "Added"})
	for _, pkg := range packages {
		table.AddRow([]string{pkg.Name, pkg.AddedDate})
	}
	table.Render()
	p.Print("")
	p.Print("%d package(s) tracked", len(packages))
	return nil
}
