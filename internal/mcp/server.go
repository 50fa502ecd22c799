// Package mcp provides an MCP (Model Context Protocol) server for cwrap.
// Agents call the cwrap_extract and cwrap_macros tools instead of running
// the CLI.
package mcp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cwrap/cwrap/internal/output"
	"github.com/cwrap/cwrap/internal/render"
)

// Server wraps the MCP server with the cwrap tools.
type Server struct {
	mcpServer    *server.MCPServer
	renderer     *render.Renderer
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	callTimeout  time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools       []string      // Which tools to expose (empty = all)
	Timeout     time.Duration // Inactivity timeout (0 = no timeout)
	CallTimeout time.Duration // Deadline for one tool call (0 = none)
}

// AllTools lists all available tools
var AllTools = []string{"cwrap_extract", "cwrap_macros"}

// New creates a new MCP server rendering headers through r.
func New(r *render.Renderer, cfg Config) (*Server, error) {
	mcpServer := server.NewMCPServer(
		"cwrap",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		renderer:     r,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
		callTimeout:  cfg.CallTimeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}
	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "cwrap_extract":
		tool := mcp.NewTool("cwrap_extract",
			mcp.WithDescription(toolSchemaRegistry[name].Description),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path of the C or C++ header to convert"),
			),
			mcp.WithString("density",
				mcp.Description("Detail level: sparse, medium, dense (default: medium)"),
			),
			mcp.WithString("format",
				mcp.Description("Output format: yaml, json (default: json)"),
			),
			mcp.WithString("language",
				mcp.Description("Force the language: c or cpp (default: by extension)"),
			),
		)
		s.mcpServer.AddTool(tool, s.handle(name))
	case "cwrap_macros":
		tool := mcp.NewTool("cwrap_macros",
			mcp.WithDescription(toolSchemaRegistry[name].Description),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path of the C or C++ header to read macros from"),
			),
			mcp.WithString("format",
				mcp.Description("Output format: yaml, json (default: json)"),
			),
		)
		s.mcpServer.AddTool(tool, s.handle(name))
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
	tick := 30 * time.Second
	if s.timeout < tick {
		tick = s.timeout
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "cwrap serve: timeout after %v of inactivity\n", s.timeout)
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

// ListTools returns the registered tools in name order.
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
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
// These mirror the mcp.NewTool() definitions in registerTool().
var toolSchemaRegistry = map[string]ToolSchema{
	"cwrap_extract": {
		Name:        "cwrap_extract",
		Description: "Convert a C or C++ header into a typed declaration document: records, enums, functions, typedefs, variables, aliases and macros, with references as node ids.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Path of the C or C++ header to convert", Required: true},
			{Name: "density", Type: "string", Description: "Detail level: sparse, medium, dense (default: medium)"},
			{Name: "format", Type: "string", Description: "Output format: yaml, json (default: json)"},
			{Name: "language", Type: "string", Description: "Force the language: c or cpp (default: by extension)"},
		},
	},
	"cwrap_macros": {
		Name:        "cwrap_macros",
		Description: "List the object-like and function-like macros of a header, with aliases resolved against its declarations.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Path of the C or C++ header to read macros from", Required: true},
			{Name: "format", Type: "string", Description: "Output format: yaml, json (default: json)"},
		},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(s.tools))
	for _, name := range s.ListTools() {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the formatted document or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'cwrap serve --list' to see available tools)", name)
	}

	req, err := requestFor(name, args)
	if err != nil {
		return "", err
	}
	out, err := s.renderer.Render(ctx, req)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()
		if s.callTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
		}

		result, err := s.CallTool(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// requestFor converts tool arguments into a render request. Tool output
// defaults to JSON.
func requestFor(name string, args map[string]interface{}) (render.Request, error) {
	req := render.Request{Format: output.FormatJSON, Density: output.DefaultDensity}

	path, _ := args["path"].(string)
	if path == "" {
		return req, fmt.Errorf("path parameter is required")
	}
	req.Path = path

	if f, _ := args["format"].(string); f != "" {
		format, err := output.ParseFormat(f)
		if err != nil {
			return req, err
		}
		req.Format = format
	}

	switch name {
	case "cwrap_extract":
		if d, _ := args["density"].(string); d != "" {
			density, err := output.ParseDensity(d)
			if err != nil {
				return req, err
			}
			req.Density = density
		}
		req.Language, _ = args["language"].(string)
	case "cwrap_macros":
		req.MacrosOnly = true
	}
	return req, nil
}
