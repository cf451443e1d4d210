package cmd

import (
	"github.com/spf13/cobra"
)

var updateOutput string

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch statistics and regenerate the report",
	Long: `Fetch current statistics for all tracked packages, then generate
the aggregate HTML report. Equivalent to 'pkgdb fetch' followed by
'pkgdb report'.

Examples:
  pkgdb update
  pkgdb update -o weekly.html`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateOutput, "output", "o", "", "report output file (default report.html in the pkgdb directory)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := runFetch(cmd, nil); err != nil {
		return err
	}
	reportOutput = updateOutput
	return runReport(cmd, nil)
}
