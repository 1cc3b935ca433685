package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "COLORSEASON_"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.colorseason.yaml",               // Project-specific config (highest priority)
	"~/.config/colorseason/config.yaml", // User config
	"/etc/colorseason/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format, args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.colorseason.yaml
// 4. ~/.config/colorseason/config.yaml
// 5. /etc/colorseason/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file over config. Keys absent from the file
// keep their current value, so booleans that default to true survive a file
// that does not mention them. A file that fails to parse leaves config
// unchanged.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return decodeOnto(config, data)
}

// Parse decodes YAML over the built-in defaults without validating.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := decodeOnto(config, data); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeOnto(config *Config, data []byte) error {
	merged := *config
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	// legacy name used by earlier deployments; COLORSEASON_SERVICE_BASE_URL wins
	if v := os.Getenv(EnvPrefix + "API_BASE_URL"); v != "" {
		config.Service.BaseURL = v
	}

	envMappings := map[string]func(string) error{
		// Service Config
		"SERVICE_BASE_URL":            func(v string) error { config.Service.BaseURL = v; return nil },
		"SERVICE_TIMEOUT":             func(v string) error { return parseDuration(v, &config.Service.Timeout) },
		"SERVICE_INCLUDE_DESCRIPTION": func(v string) error { return parseBool(v, &config.Service.IncludeDescription) },

		// Capture Config
		"CAPTURE_COUNTDOWN_SECONDS":  func(v string) error { return parseInt(v, &config.Capture.CountdownSeconds) },
		"CAPTURE_COUNTDOWN_INTERVAL": func(v string) error { return parseDuration(v, &config.Capture.CountdownInterval) },
		"CAPTURE_CROP_RATIO":         func(v string) error { return parseFloat(v, &config.Capture.CropRatio) },
		"CAPTURE_MIRROR":             func(v string) error { return parseBool(v, &config.Capture.Mirror) },

		// Camera Config
		"CAMERA_DEVICE":  func(v string) error { config.Camera.Device = v; return nil },
		"CAMERA_COMMAND": func(v string) error { config.Camera.Command = strings.Fields(v); return nil },

		// Upload Config
		"UPLOAD_MAX_FILE_SIZE": func(v string) error { return parseInt64(v, &config.Upload.MaxFileSize) },

		// Outfits Config
		"OUTFITS_PAGE_SIZE":      func(v string) error { return parseInt(v, &config.Outfits.PageSize) },
		"OUTFITS_DEFAULT_GENDER": func(v string) error { config.Outfits.DefaultGender = strings.ToLower(v); return nil },

		// Output Config
		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },
	}

	for name, setter := range envMappings {
		envVar := EnvPrefix + name
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated list
	if types := os.Getenv(EnvPrefix + "UPLOAD_ALLOWED_TYPES"); types != "" {
		config.Upload.AllowedTypes = strings.Split(types, ",")
		for i, t := range config.Upload.AllowedTypes {
			config.Upload.AllowedTypes[i] = strings.TrimSpace(t)
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
