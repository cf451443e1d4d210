package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/store"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <package>...",
	Short: "Add packages to tracking",
	Long: `Add one or more PyPI packages to the tracking list.

Package names must follow PyPI naming conventions: alphanumeric at both
ends, with hyphens, underscores, or periods inside, at most 100 characters.

Examples:
  pkgdb add requests
  pkgdb add requests flask numpy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
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
	added := 0
	for _, name := range args {
		if err := validatePackageName(name); err != nil {
			p.Error("%v", err)
			continue
		}
		if err := st.AddPackage(name); err != nil {
			if errors.Is(err, store.ErrAlreadyTracked) {
				p.Warning("%s is already tracked", name)
				continue
			}
			return err
		}
		p.Success("Added %s", name)
		added++
	}

	if added > 0 {
		p.Info("Run 'pkgdb fetch' to fetch download statistics")
	}
	return nil
}
