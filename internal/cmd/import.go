package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hargabyte/pkgdb/internal/config"
	"github.com/hargabyte/pkgdb/internal/store"
)

var importFile string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import packages from a file",
	Long: `Import package names from a file and add them to tracking.

The file may be a JSON array, a YAML list, a JSON/YAML document with a
"packages" key, or plain text with one package name per line. Lines
starting with '#' are ignored in plain-text files.

Without an argument, packages.json in the pkgdb directory is used.

Examples:
  pkgdb import
  pkgdb import mypackages.txt
  pkgdb import -f exported.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "file to import from")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := importFile
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("resolve pkgdb directory: %w", err)
		}
		path = filepath.Join(dir, "packages.json")
	}

	names, err := readPackageList(path)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no package names found in %s", path)
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

	p := printer()
	added := 0
	for _, name := range names {
		if err := validatePackageName(name); err != nil {
			p.Warning("skipping %s: %v", name, err)
			continue
		}
		if err := st.AddPackage(name); err != nil {
			if errors.Is(err, store.ErrAlreadyTracked) {
				continue
			}
			return err
		}
		added++
	}
	p.Success("Imported %d package(s) from %s", added, path)
	return nil
}

// readPackageList parses a package list file in any supported format.
func readPackageList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package list: %w", err)
	}

	var names []string
	if err := yaml.Unmarshal(data, &names); err == nil {
		return trimNames(names), nil
	}

	var doc struct {
		Packages []string `yaml:"packages" json:"packages"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Packages) > 0 {
		return trimNames(doc.Packages), nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
