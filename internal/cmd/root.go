// Package cmd contains all CLI commands for cwrap.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwrap/cwrap/internal/cache"
	"github.com/cwrap/cwrap/internal/config"
	"github.com/cwrap/cwrap/internal/output"
	"github.com/cwrap/cwrap/internal/render"
)

var (
	// Version is the current version of cwrap
	Version = "0.1.0"

	// Global flags
	verbose       bool
	configPath    string
	forAgents     bool
	outputFormat  string
	outputDensity string
	noCache       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cwrap",
	Short: "Convert C and C++ headers into a typed declaration tree",
	Long: `cwrap parses C and C++ headers and converts them into a self-contained,
typed AST for binding generators: files, namespaces, records, enumerations,
functions, typedefs and variables, with every type reference resolved to a
node id, plus a table of the header's macros and aliases.

Output Format:
  All commands output YAML by default.
  Use --format to switch to JSON.
  Use --density to control detail level (sparse|medium|dense).

Main capabilities:
  - Extract the declarations of a header
  - List object-like and function-like macros
  - Cache documents of unchanged headers
  - Serve the same conversions to agents over MCP

Examples:
  cwrap extract include/point.h              # Declarations as YAML
  cwrap extract --density dense api.hpp      # With layout and unresolved reports
  cwrap macros --format json config.h        # Macros and aliases only
  cwrap init                                 # Write .cwrap/config.yaml

See 'cwrap <command> --help' for command-specific options.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
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
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .cwrap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (yaml|json); default from config")
	rootCmd.PersistentFlags().StringVar(&outputDensity, "density", "medium", "Output density (sparse|medium|dense)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the document cache")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Intercept help for --for-agents
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd.OutOrStdout(), cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// setupLogging installs the stderr logger: warnings by default, debug
// tracing with --verbose.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads --config or the nearest .cwrap/config.yaml. configDir
// is empty when neither exists.
func loadConfig() (cfg *config.Config, configDir string, err error) {
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
		return cfg, filepath.Dir(configPath), err
	}
	configDir, err = config.FindConfigDir(".")
	if err != nil {
		return config.DefaultConfig(), "", nil
	}
	cfg, err = config.LoadFromPath(filepath.Join(configDir, config.ConfigFileName))
	return cfg, configDir, err
}

// openCache opens the document cache when the config enables it and a
// config directory exists. A nil cache disables caching.
func openCache(cfg *config.Config, configDir string) (*cache.Cache, error) {
	if noCache || !cfg.Cache.Enabled || configDir == "" {
		return nil, nil
	}
	c, err := cache.Open(cfg.CachePath(configDir))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return c, nil
}

// newRenderer builds the renderer shared by extract, macros and serve.
// The returned close function releases the cache.
func newRenderer() (*render.Renderer, *config.Config, func(), error) {
	cfg, configDir, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := openCache(cfg, configDir)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if c != nil {
			c.Close()
		}
	}
	return render.New(cfg.ParseOptions(), cfg.Extract.MaxTypeDepth, c, slog.Default()), cfg, closeFn, nil
}

// outputSettings resolves --format and --density against the config.
func outputSettings(cfg *config.Config) (output.Format, output.Density, error) {
	f := outputFormat
	if f == "" {
		f = cfg.Output.Format
	}
	format, err := output.ParseFormat(f)
	if err != nil {
		return "", "", err
	}
	density, err := output.ParseDensity(outputDensity)
	if err != nil {
		return "", "", err
	}
	return format, density, nil
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

// outputAgentHelp writes machine-readable JSON describing all commands
func outputAgentHelp(w io.Writer, cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	info := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(info)
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
