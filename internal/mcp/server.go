// Package mcp provides an MCP (Model Context Protocol) server for pkgdb.
// This allows AI agents to query tracked package statistics through MCP
// tools instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hargabyte/pkgdb/internal/config"
	"github.com/hargabyte/pkgdb/internal/store"
)

// Server wraps the MCP server with pkgdb-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	store        *store.Store
	cfg          *config.Config
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Options holds server configuration
type Options struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
}

// AllTools lists all available tools
var AllTools = []string{"pkgdb_packages", "pkgdb_stats", "pkgdb_history", "pkgdb_growth"}

// New creates a new MCP server backed by the given store
func New(st *store.Store, cfg *config.Config, opts Options) (*Server, error) {
	mcpServer := server.NewMCPServer(
		"pkgdb",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		store:        st,
		cfg:          cfg,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      opts.Timeout,
	}

	toolsToRegister := opts.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "pkgdb_packages":
		s.registerPackagesTool()
	case "pkgdb_stats":
		s.registerStatsTool()
	case "pkgdb_history":
		s.registerHistoryTool()
	case "pkgdb_growth":
		s.registerGrowthTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
	return nil
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}
	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "pkgdb serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"pkgdb_packages": {
		Name:        "pkgdb_packages",
		Description: "List tracked PyPI packages with the date each was added.",
		Parameters:  []ParameterSchema{},
	},
	"pkgdb_stats": {
		Name:        "pkgdb_stats",
		Description: "Latest recorded download statistics, ranked by total downloads.",
		Parameters: []ParameterSchema{
			{Name: "package", Type: "string", Description: "Limit to a single package"},
		},
	},
	"pkgdb_history": {
		Name:        "pkgdb_history",
		Description: "Daily download snapshots recorded for one package, oldest first.",
		Parameters: []ParameterSchema{
			{Name: "package", Type: "string", Description: "Package name to look up", Required: true},
			{Name: "limit", Type: "number", Description: "Maximum snapshots to return (default: 30)"},
		},
	},
	"pkgdb_growth": {
		Name:        "pkgdb_growth",
		Description: "Latest statistics with week-over-week and month-over-month growth per package.",
		Parameters: []ParameterSchema{
			{Name: "week_days", Type: "number", Description: "Week comparison window in days (default from config)"},
			{Name: "month_days", Type: "number", Description: "Month comparison window in days (default from config)"},
		},
	},
}

// GetToolSchemas returns the schema for each named tool, skipping unknowns.
func GetToolSchemas(names []string) []ToolSchema {
	out := make([]ToolSchema, 0, len(names))
	for _, name := range names {
		if schema, ok := toolSchemaRegistry[name]; ok {
			out = append(out, schema)
		}
	}
	return out
}

// Tool registration

func (s *Server) registerPackagesTool() {
	tool := mcp.NewTool("pkgdb_packages",
		mcp.WithDescription("List tracked PyPI packages with the date each was added."),
	)
	s.mcpServer.AddTool(tool, s.handlePackages)
}

func (s *Server) registerStatsTool() {
	tool := mcp.NewTool("pkgdb_stats",
		mcp.WithDescription("Latest recorded download statistics, ranked by total downloads."),
		mcp.WithString("package",
			mcp.Description("Limit to a single package"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleStats)
}

func (s *Server) registerHistoryTool() {
	tool := mcp.NewTool("pkgdb_history",
		mcp.WithDescription("Daily download snapshots recorded for one package, oldest first."),
		mcp.WithString("package",
			mcp.Required(),
			mcp.Description("Package name to look up"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum snapshots to return (default: 30)"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleHistory)
}

func (s *Server) registerGrowthTool() {
	tool := mcp.NewTool("pkgdb_growth",
		mcp.WithDescription("Latest statistics with week-over-week and month-over-month growth per package."),
		mcp.WithNumber("week_days",
			mcp.Description("Week comparison window in days (default from config)"),
		),
		mcp.WithNumber("month_days",
			mcp.Description("Month comparison window in days (default from config)"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleGrowth)
}

// Tool handlers

func (s *Server) handlePackages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	packages, err := s.store.ListPackages()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"count":    len(packages),
		"packages": packages,
	})
}

func (s *Server) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	pkg, _ := args["package"].(string)

	recs, err := s.store.LatestStats()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pkg != "" {
		filtered := recs[:0]
		for _, rec := range recs {
			if rec.PackageName == pkg {
				filtered = append(filtered, rec)
			}
		}
		if len(filtered) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf("no statistics recorded for %s", pkg)), nil
		}
		recs = filtered
	}
	return jsonResult(map[string]any{"stats": recs})
}

func (s *Server) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	pkg, ok := args["package"].(string)
	if !ok || pkg == "" {
		return mcp.NewToolResultError("package parameter is required"), nil
	}

	limit := 30
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	recs, err := s.store.PackageHistory(pkg, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"package": pkg,
		"history": recs,
	})
}

func (s *Server) handleGrowth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	weekDays := s.cfg.Stats.WeekLookbackDays
	if w, ok := args["week_days"].(float64); ok {
		weekDays = int(w)
	}
	monthDays := s.cfg.Stats.MonthLookbackDays
	if m, ok := args["month_days"].(float64); ok {
		monthDays = int(m)
	}

	rows, err := s.store.StatsWithGrowth(weekDays, monthDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"growth": rows})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
