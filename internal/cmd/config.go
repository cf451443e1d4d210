package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hargabyte/pkgdb/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Print the effective configuration after merging the config file
with defaults and command-line overrides.

Examples:
  pkgdb config
  pkgdb config init`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Create the pkgdb directory and write a default config.yaml to it,
unless one already exists.

Examples:
  pkgdb config init`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.SaveDefault()
	if err != nil {
		return err
	}
	printer().Success("Wrote default config to %s", path)
	return nil
}
