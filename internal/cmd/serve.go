package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hargabyte/pkgdb/internal/mcp"
)

var (
	serveTools   string
	serveTimeout string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio. This lets AI
agents query tracked packages, statistics, history, and growth through
MCP tools instead of spawning CLI commands.

Available Tools:
  pkgdb_packages   List tracked packages
  pkgdb_stats      Latest download statistics
  pkgdb_history    Snapshots for one package
  pkgdb_growth     Statistics with growth rates

Examples:
  pkgdb serve
  pkgdb serve --tools packages,stats
  pkgdb serve --timeout 30m
  pkgdb serve --list-tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveListTools bool

func init() {
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "0", "inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "list available tools")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListTools {
		for _, schema := range mcp.GetToolSchemas(mcp.AllTools) {
			fmt.Printf("  %-16s %s\n", schema.Name, schema.Description)
		}
		return nil
	}

	timeout, err := time.ParseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", serveTimeout, err)
	}

	var tools []string
	if serveTools != "" {
		for _, name := range strings.Split(serveTools, ",") {
			name = strings.TrimSpace(name)
			if !strings.HasPrefix(name, "pkgdb_") {
				name = "pkgdb_" + name
			}
			tools = append(tools, name)
		}
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

	srv, err := mcp.New(st, cfg, mcp.Options{Tools: tools, Timeout: timeout})
	if err != nil {
		return err
	}
	return srv.ServeStdio()
}
