package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Service.BaseURL)
	}
	if !cfg.Service.IncludeDescription {
		t.Error("Expected descriptions to be requested by default")
	}
	if cfg.Capture.CountdownSeconds != 3 {
		t.Errorf("Expected 3 countdown seconds, got %d", cfg.Capture.CountdownSeconds)
	}
	if cfg.Capture.CropRatio != 0.9 {
		t.Errorf("Expected crop ratio 0.9, got %v", cfg.Capture.CropRatio)
	}
	if !cfg.Capture.Mirror {
		t.Error("Expected mirror enabled by default")
	}
	if cfg.Upload.MaxFileSize != 5*1024*1024 {
		t.Errorf("Expected 5MB upload limit, got %d", cfg.Upload.MaxFileSize)
	}
	if cfg.Outfits.PageSize != 12 {
		t.Errorf("Expected page size 12, got %d", cfg.Outfits.PageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.Service.BaseURL = " " },
			wantErr: true,
			errMsg:  "service base_url is required",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.Service.BaseURL = "ftp://example.com" },
			wantErr: true,
			errMsg:  "invalid service base_url scheme: ftp (must be one of: http, https)",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Service.Timeout = -time.Second },
			wantErr: true,
			errMsg:  "service timeout must be non-negative",
		},
		{
			name:    "zero countdown is allowed",
			mutate:  func(c *Config) { c.Capture.CountdownSeconds = 0 },
			wantErr: false,
		},
		{
			name:    "negative countdown",
			mutate:  func(c *Config) { c.Capture.CountdownSeconds = -1 },
			wantErr: true,
			errMsg:  "countdown_seconds must be non-negative",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Capture.CountdownInterval = 0 },
			wantErr: true,
			errMsg:  "countdown_interval must be greater than 0",
		},
		{
			name:    "crop ratio above one",
			mutate:  func(c *Config) { c.Capture.CropRatio = 1.5 },
			wantErr: true,
			errMsg:  "crop_ratio must be in (0, 1], got 1.5",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Upload.MaxFileSize = 0 },
			wantErr: true,
			errMsg:  "max_file_size must be greater than 0",
		},
		{
			name:    "unsupported upload type",
			mutate:  func(c *Config) { c.Upload.AllowedTypes = []string{"image/gif"} },
			wantErr: true,
			errMsg:  "invalid upload type: image/gif (must be one of: image/jpeg, image/jpg, image/png)",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Outfits.PageSize = 0 },
			wantErr: true,
			errMsg:  "page_size must be greater than 0",
		},
		{
			name:    "invalid gender",
			mutate:  func(c *Config) { c.Outfits.DefaultGender = "kids" },
			wantErr: true,
			errMsg:  "invalid default gender: kids (must be one of: all, male, female)",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "html" },
			wantErr: true,
			errMsg:  "invalid output format: html (must be one of: json, text, markdown, csv)",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "sometimes" },
			wantErr: true,
			errMsg:  "invalid color mode: sometimes (must be one of: auto, always, never)",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.Output.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme: neon (must be one of: default, high-contrast, minimal)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("Expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestSampleConfigs(t *testing.T) {
	for name, sample := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			if !strings.Contains(sample, "base_url:") {
				t.Error("Expected sample to document base_url")
			}
			cfg, err := Parse([]byte(sample))
			if err != nil {
				t.Fatalf("Expected sample to parse, got %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Expected sample to validate, got %v", err)
			}
		})
	}
}
