package config

import "strings"

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			TolerateIncomplete:    true,
			DetailedPreprocessing: true,
		},
		Extract: ExtractConfig{
			MaxTypeDepth: 64,
		},
		Output: OutputConfig{
			Format: "yaml",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "cache.db",
		},
		Serve: ServeConfig{
			Tools:   append([]string(nil), KnownTools...),
			Timeout: "30s",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults; zero strings,
// numbers and lists fall back. Booleans are taken from loaded as is.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Parse:   mergeParseConfig(loaded.Parse, defaults.Parse),
		Extract: mergeExtractConfig(loaded.Extract, defaults.Extract),
		Output:  mergeOutputConfig(loaded.Output, defaults.Output),
		Cache:   mergeCacheConfig(loaded.Cache, defaults.Cache),
		Serve:   mergeServeConfig(loaded.Serve, defaults.Serve),
	}
}

func mergeParseConfig(loaded, defaults ParseConfig) ParseConfig {
	result := loaded
	if loaded.Language == "" {
		result.Language = defaults.Language
	}
	return result
}

func mergeExtractConfig(loaded, defaults ExtractConfig) ExtractConfig {
	result := ExtractConfig{}

	if loaded.MaxTypeDepth != 0 {
		result.MaxTypeDepth = loaded.MaxTypeDepth
	} else {
		result.MaxTypeDepth = defaults.MaxTypeDepth
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	if loaded.Format != "" {
		result.Format = strings.ToLower(loaded.Format)
	} else {
		result.Format = defaults.Format
	}

	return result
}

func mergeCacheConfig(loaded, defaults CacheConfig) CacheConfig {
	result := CacheConfig{Enabled: loaded.Enabled}

	if loaded.Path != "" {
		result.Path = loaded.Path
	} else {
		result.Path = defaults.Path
	}

	return result
}

func mergeServeConfig(loaded, defaults ServeConfig) ServeConfig {
	result := ServeConfig{}

	if len(loaded.Tools) > 0 {
		result.Tools = loaded.Tools
	} else {
		result.Tools = defaults.Tools
	}

	if loaded.Timeout != "" {
		result.Timeout = loaded.Timeout
	} else {
		result.Timeout = defaults.Timeout
	}

	return result
}

// ValidLanguages lists the values accepted for parse.language
var ValidLanguages = []string{"c", "cpp", "c++"}

// ValidFormats lists the valid values for output.format
var ValidFormats = []string{"yaml", "json"}

// KnownTools lists the MCP tools the server can expose
var KnownTools = []string{"cwrap_extract", "cwrap_macros"}

// IsValidLanguage checks if the given language value is valid; empty means
// detect from the file extension.
func IsValidLanguage(lang string) bool {
	return lang == "" || contains(ValidLanguages, strings.ToLower(lang))
}

// IsValidFormat checks if the given output format is valid
func IsValidFormat(format string) bool {
	return contains(ValidFormats, format)
}

// IsKnownTool checks if the given MCP tool name exists
func IsKnownTool(name string) bool {
	return contains(KnownTools, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
