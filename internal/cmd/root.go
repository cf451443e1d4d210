// Package cmd contains all CLI commands for pkgdb.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hargabyte/pkgdb/internal/chart"
	"github.com/hargabyte/pkgdb/internal/config"
	"github.com/hargabyte/pkgdb/internal/output"
	"github.com/hargabyte/pkgdb/internal/store"
)

var (
	// Version is the current version of pkgdb
	Version = "1.0.0"

	// Global flags
	quiet      bool
	verbose    bool
	configPath string
	dbPath     string
	dbBackend  string
	forAgents  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pkgdb",
	Short: "Track PyPI package download statistics",
	Long: `pkgdb tracks download statistics for PyPI packages over time.

It fetches counters from pypistats.org, stores daily snapshots in a local
database, and renders them as terminal tables and self-contained HTML
reports with inline SVG charts.

Typical workflow:
  pkgdb add requests flask       # Track some packages
  pkgdb fetch                    # Fetch today's download counters
  pkgdb show                     # Terminal table with growth and trends
  pkgdb report -o report.html    # Self-contained HTML report

Configuration lives in ~/.pkgdb/config.yaml (override the directory with
PKGDB_HOME). The database defaults to sqlite; a dolt backend can be
selected for versioned history.

See 'pkgdb <command> --help' for command-specific options.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.pkgdb/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "Database location (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbBackend, "backend", "", "Storage backend: sqlite|dolt (overrides config)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(map[string]any{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	})
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}

// loadConfig loads configuration honoring the --config flag and applies the
// --database and --backend overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if dbBackend != "" {
		cfg.Storage.Backend = dbBackend
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the history database per configuration, creating the
// pkgdb directory when the location is defaulted.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.Storage.Path
	if path == "" {
		dir, err := config.EnsureDir()
		if err != nil {
			return nil, err
		}
		if cfg.Storage.Backend == store.BackendDolt {
			path = filepath.Join(dir, "pkgdb")
		} else {
			path = filepath.Join(dir, "pkg.db")
		}
	}
	return store.Open(cfg.Storage.Backend, path)
}

// printer creates the terminal printer honoring the global quiet flag.
func printer() *output.Printer {
	return output.NewPrinter(quiet)
}

// chartConfig maps chart configuration to the renderer's value type.
func chartConfig(cfg *config.Config) chart.Config {
	return chart.Config{
		Width:         cfg.Chart.Width,
		Height:        cfg.Chart.Height,
		Palette:       cfg.Chart.Palette,
		MaxCategories: cfg.Chart.MaxCategories,
		MaxSeries:     cfg.Chart.MaxSeries,
	}
}
