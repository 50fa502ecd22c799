package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwrap/cwrap/internal/config"
	"github.com/cwrap/cwrap/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio. Agents call the same
conversions the CLI offers as tools, sharing one configuration and cache.

Available Tools:
  cwrap_extract   Declarations of a header
  cwrap_macros    Macros and aliases of a header

The tool set and per-call timeout default to serve.tools and serve.timeout
in .cwrap/config.yaml.`,
	Example: `  cwrap serve --mcp                    # Start with configured tools
  cwrap serve --mcp --tools macros     # Expose cwrap_macros only
  cwrap serve --mcp --idle 30m         # Exit after 30 minutes without calls
  cwrap serve --status                 # Check if server is running
  cwrap serve --stop                   # Stop running server
  cwrap serve --list-tools             # Show available tools`,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveIdle      string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: serve.tools)")
	serveCmd.Flags().StringVar(&serveIdle, "idle", "0", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListTools {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available MCP tools:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  cwrap_extract   Declarations of a header")
		fmt.Fprintln(out, "  cwrap_macros    Macros and aliases of a header")
		return nil
	}
	if serveStatus {
		return checkServerStatus(cmd)
	}
	if serveStop {
		return stopServer(cmd)
	}
	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	idle, err := parseDuration(serveIdle)
	if err != nil {
		return fmt.Errorf("invalid idle timeout: %w", err)
	}

	r, cfg, closeFn, err := newRenderer()
	if err != nil {
		return err
	}
	defer closeFn()

	callTimeout, err := cfg.Serve.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("invalid serve.timeout: %w", err)
	}
	tools := cfg.Serve.Tools
	if serveTools != "" {
		tools = parseToolList(serveTools)
	}

	server, err := mcp.New(r, mcp.Config{
		Tools:       tools,
		Timeout:     idle,
		CallTimeout: callTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := writePIDFile(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write PID file: %v\n", err)
	}
	defer removePIDFile()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\ncwrap serve: shutting down\n")
		closeFn()
		removePIDFile()
		os.Exit(0)
	}()

	// stdout carries the MCP protocol
	fmt.Fprintf(os.Stderr, "cwrap serve: starting MCP server\n")
	fmt.Fprintf(os.Stderr, "cwrap serve: tools: %v\n", server.ListTools())
	if idle > 0 {
		fmt.Fprintf(os.Stderr, "cwrap serve: idle timeout: %v\n", idle)
	}

	return server.ServeStdio()
}

// parseToolList splits a comma-separated tool list, accepting short names
// (macros -> cwrap_macros).
func parseToolList(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "cwrap_") {
			t = "cwrap_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	configDir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

// readPID returns the pid of a running server, or 0.
func readPID() int {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return 0
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return 0
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile()
		return 0
	}
	// On Unix FindProcess always succeeds; signal 0 checks the process
	if err := process.Signal(syscall.Signal(0)); err != nil {
		removePIDFile()
		return 0
	}
	return pid
}

func checkServerStatus(cmd *cobra.Command) error {
	if pid := readPID(); pid != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Status: running (PID %d)\n", pid)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Status: not running")
	return nil
}

func stopServer(cmd *cobra.Command) error {
	pid := readPID()
	if pid == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No server running")
		return nil
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		removePIDFile()
		fmt.Fprintln(cmd.OutOrStdout(), "Server already stopped")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped server (PID %d)\n", pid)
	return nil
}
