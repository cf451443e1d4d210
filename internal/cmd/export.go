package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export latest statistics to CSV, JSON, or Markdown",
	Long: `Export the most recent snapshot for every tracked package, ranked
by total downloads.

Formats: csv (default), json, markdown (alias: md). Output goes to
stdout unless -o is given.

Examples:
  pkgdb export > stats.csv
  pkgdb export -f json -o stats.json
  pkgdb export -f md -o stats.md`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv, json, markdown)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	recs, err := st.LatestStats()
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	if exportOutput == "" {
		return export.Export(os.Stdout, format, recs, time.Now().UTC())
	}

	if err := validateOutputPath(exportOutput, format.Extensions()); err != nil {
		return err
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := export.Export(f, format, recs, time.Now().UTC()); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	printer().Success("Exported %d package(s) to %s", len(recs), exportOutput)
	return nil
}
