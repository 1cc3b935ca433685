package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Service ServiceConfig `yaml:"service" json:"service"`
	Capture CaptureConfig `yaml:"capture" json:"capture"`
	Camera  CameraConfig  `yaml:"camera" json:"camera"`
	Upload  UploadConfig  `yaml:"upload" json:"upload"`
	Outfits OutfitsConfig `yaml:"outfits" json:"outfits"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// ServiceConfig configures the classification and outfit service
type ServiceConfig struct {
	BaseURL            string        `yaml:"base_url" json:"base_url"`                       // service endpoint URL
	Timeout            time.Duration `yaml:"timeout" json:"timeout"`                         // request timeout, 0 = transport default
	IncludeDescription bool          `yaml:"include_description" json:"include_description"` // request season descriptions
}

// CaptureConfig configures the countdown and crop
type CaptureConfig struct {
	CountdownSeconds  int           `yaml:"countdown_seconds" json:"countdown_seconds"`
	CountdownInterval time.Duration `yaml:"countdown_interval" json:"countdown_interval"`
	CropRatio         float64       `yaml:"crop_ratio" json:"crop_ratio"`
	Mirror            bool          `yaml:"mirror" json:"mirror"`
}

// CameraConfig configures frame acquisition
type CameraConfig struct {
	Device  string   `yaml:"device" json:"device"`   // device checked before capture
	Command []string `yaml:"command" json:"command"` // command writing one encoded frame to stdout
}

// UploadConfig configures file selection checks
type UploadConfig struct {
	MaxFileSize  int64    `yaml:"max_file_size" json:"max_file_size"` // bytes
	AllowedTypes []string `yaml:"allowed_types" json:"allowed_types"` // MIME types
}

// OutfitsConfig configures outfit recommendations
type OutfitsConfig struct {
	PageSize      int    `yaml:"page_size" json:"page_size"`
	DefaultGender string `yaml:"default_gender" json:"default_gender"` // all|male|female, headless commands only
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	LogFile       string `yaml:"log_file" json:"log_file"`             // interactive mode log destination
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:            "http://localhost:8000",
			Timeout:            0,
			IncludeDescription: true,
		},
		Capture: CaptureConfig{
			CountdownSeconds:  3,
			CountdownInterval: time.Second,
			CropRatio:         0.9,
			Mirror:            true,
		},
		Camera: CameraConfig{
			Device: "/dev/video0",
			Command: []string{
				"ffmpeg", "-loglevel", "error",
				"-f", "v4l2", "-i", "/dev/video0",
				"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-",
			},
		},
		Upload: UploadConfig{
			MaxFileSize:  5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png"},
		},
		Outfits: OutfitsConfig{
			PageSize:      12,
			DefaultGender: "all",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Theme:         "default",
			LogFile:       "",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServiceConfig(); err != nil {
		return err
	}
	if err := c.validateCaptureConfig(); err != nil {
		return err
	}
	if err := c.validateUploadConfig(); err != nil {
		return err
	}
	if err := c.validateOutfitsConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateServiceConfig validates service-related configuration
func (c *Config) validateServiceConfig() error {
	if strings.TrimSpace(c.Service.BaseURL) == "" {
		return fmt.Errorf("service base_url is required")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid service base_url: %s", c.Service.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid service base_url scheme: %s (must be one of: http, https)", u.Scheme)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("service timeout must be non-negative")
	}
	return nil
}

// validateCaptureConfig validates countdown and crop configuration
func (c *Config) validateCaptureConfig() error {
	if c.Capture.CountdownSeconds < 0 {
		return fmt.Errorf("countdown_seconds must be non-negative")
	}
	if c.Capture.CountdownInterval <= 0 {
		return fmt.Errorf("countdown_interval must be greater than 0")
	}
	if c.Capture.CropRatio <= 0 || c.Capture.CropRatio > 1 {
		return fmt.Errorf("crop_ratio must be in (0, 1], got %v", c.Capture.CropRatio)
	}
	return nil
}

// validateUploadConfig validates upload limits
func (c *Config) validateUploadConfig() error {
	if c.Upload.MaxFileSize < 1 {
		return fmt.Errorf("max_file_size must be greater than 0")
	}
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
	for _, t := range c.Upload.AllowedTypes {
		if !validTypes[strings.ToLower(t)] {
			return fmt.Errorf("invalid upload type: %s (must be one of: image/jpeg, image/jpg, image/png)", t)
		}
	}
	return nil
}

// validateOutfitsConfig validates outfit configuration
func (c *Config) validateOutfitsConfig() error {
	if c.Outfits.PageSize < 1 {
		return fmt.Errorf("page_size must be greater than 0")
	}
	if c.Outfits.DefaultGender != "" {
		validGenders := map[string]bool{
			"all":    true,
			"male":   true,
			"female": true,
		}
		if !validGenders[c.Outfits.DefaultGender] {
			return fmt.Errorf("invalid default gender: %s (must be one of: all, male, female)", c.Outfits.DefaultGender)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}
