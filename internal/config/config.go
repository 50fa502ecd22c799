package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwrap/cwrap/internal/cursor"
)

// ConfigFileName is the name of the cwrap configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the cwrap configuration directory
const ConfigDirName = ".cwrap"

// Config holds all cwrap configuration
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Extract ExtractConfig `yaml:"extract"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Serve   ServeConfig   `yaml:"serve"`
}

// ParseConfig holds the options handed to the parser frontend
type ParseConfig struct {
	// Language forces "c" or "cpp"; empty picks by file extension.
	Language              string `yaml:"language"`
	TolerateIncomplete    bool   `yaml:"tolerate_incomplete"`
	DetailedPreprocessing bool   `yaml:"detailed_preprocessing"`
}

// ExtractConfig holds configuration for building the AST
type ExtractConfig struct {
	MaxTypeDepth int `yaml:"max_type_depth"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
}

// CacheConfig holds configuration for the extraction cache
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is relative to the config directory unless absolute.
	Path string `yaml:"path"`
}

// ServeConfig holds configuration for the MCP server
type ServeConfig struct {
	Tools   []string `yaml:"tools"`
	Timeout string   `yaml:"timeout"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .cwrap/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path.
// Keys missing from the file keep their default values; the result is
// validated.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := DefaultConfig()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .cwrap directory by walking up from startDir.
// Returns the path to the .cwrap directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .cwrap directory if it doesn't exist.
// Returns the path to the .cwrap directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !IsValidLanguage(cfg.Parse.Language) {
		return fmt.Errorf("%w: parse.language must be one of %v or empty, got %q",
			ErrInvalidConfig, ValidLanguages, cfg.Parse.Language)
	}

	if cfg.Extract.MaxTypeDepth <= 0 {
		return fmt.Errorf("%w: max_type_depth must be positive, got %d",
			ErrInvalidConfig, cfg.Extract.MaxTypeDepth)
	}

	if !IsValidFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	for _, tool := range cfg.Serve.Tools {
		if !IsKnownTool(tool) {
			return fmt.Errorf("%w: serve.tools must be drawn from %v, got %q",
				ErrInvalidConfig, KnownTools, tool)
		}
	}

	if _, err := cfg.Serve.TimeoutDuration(); err != nil {
		return fmt.Errorf("%w: serve.timeout: %v", ErrInvalidConfig, err)
	}

	return nil
}

// ParseOptions converts the parse section into frontend options. Function
// bodies are always skipped.
func (c *Config) ParseOptions() cursor.ParseOptions {
	return cursor.ParseOptions{
		Language:              c.Parse.Language,
		Incomplete:            c.Parse.TolerateIncomplete,
		DetailedPreprocessing: c.Parse.DetailedPreprocessing,
		SkipFunctionBodies:    true,
	}
}

// CachePath returns the cache database location for a config directory.
func (c *Config) CachePath(configDir string) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(configDir, c.Cache.Path)
}

// TimeoutDuration parses the tool call timeout.
func (s ServeConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s.Timeout)
	}
	return d, nil
}

// SaveDefault writes the default configuration to .cwrap/config.yaml in workDir.
// Creates the .cwrap directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# cwrap configuration\n# Keys left out fall back to their defaults.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
