package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/store"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove <package>...",
	Aliases: []string{"rm"},
	Short:   "Remove packages from tracking",
	Long: `Remove one or more packages from the tracking list.

Historical download data is kept until 'pkgdb cleanup' is run, so a
package can be re-added without losing its history.

Examples:
  pkgdb remove requests
  pkgdb rm requests flask`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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
	for _, name := range args {
		if err := st.RemovePackage(name); err != nil {
			if errors.Is(err, store.ErrNotTracked) {
				p.Warning("%s is not tracked", name)
				continue
			}
			return err
		}
		p.Success("Removed %s", name)
	}
	return nil
}
