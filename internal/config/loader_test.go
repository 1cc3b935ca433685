package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoader()
	loader.configPaths = []string{filepath.Join(t.TempDir(), "missing.yaml")}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Service.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "test-config.yaml", `version: "1.0"
service:
  base_url: "https://colors.example.com"
  timeout: 20s
capture:
  countdown_seconds: 5
upload:
  allowed_types: ["image/png"]
output:
  default_format: "json"
  verbose: true
`)

	loader := NewLoader()
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Service.BaseURL != "https://colors.example.com" {
		t.Errorf("Expected base URL from file, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 20*time.Second {
		t.Errorf("Expected timeout 20s, got %v", cfg.Service.Timeout)
	}
	if cfg.Capture.CountdownSeconds != 5 {
		t.Errorf("Expected 5 countdown seconds, got %d", cfg.Capture.CountdownSeconds)
	}
	if len(cfg.Upload.AllowedTypes) != 1 || cfg.Upload.AllowedTypes[0] != "image/png" {
		t.Errorf("Expected allowed types replaced, got %v", cfg.Upload.AllowedTypes)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}

	// keys the file leaves out keep their defaults
	if !cfg.Capture.Mirror {
		t.Error("Expected mirror default to survive")
	}
	if !cfg.Service.IncludeDescription {
		t.Error("Expected include_description default to survive")
	}
	if cfg.Capture.CropRatio != 0.9 {
		t.Errorf("Expected default crop ratio, got %v", cfg.Capture.CropRatio)
	}
}

func TestLoadConfigExplicitFalse(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", `capture:
  mirror: false
`)

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Capture.Mirror {
		t.Error("Expected mirror disabled by file")
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	project := writeConfig(t, dir, "project.yaml", `outfits:
  page_size: 6
`)
	user := writeConfig(t, dir, "user.yaml", `outfits:
  page_size: 24
  default_gender: "female"
`)

	loader := NewLoader()
	loader.configPaths = []string{project, user}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Outfits.PageSize != 6 {
		t.Errorf("Expected project page size to win, got %d", cfg.Outfits.PageSize)
	}
	if cfg.Outfits.DefaultGender != "female" {
		t.Errorf("Expected user gender to apply, got %s", cfg.Outfits.DefaultGender)
	}
}

func TestLoadConfigBrokenSearchFileWarns(t *testing.T) {
	dir := t.TempDir()
	broken := writeConfig(t, dir, "broken.yaml", "service: [unclosed\n")

	var warnings []string
	loader := NewLoader()
	loader.configPaths = []string{broken}
	loader.warn = func(format string, args ...interface{}) {
		warnings = append(warnings, format)
	}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Expected broken search file to be skipped, got %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %d", len(warnings))
	}
	if cfg.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected defaults after broken file, got %s", cfg.Service.BaseURL)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "invalid-config.yaml", `version: "1.0"
output:
  default_format: "json
  verbose: true
`)

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", `capture:
  crop_ratio: 2
`)

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("COLORSEASON_SERVICE_BASE_URL", "https://env.example.com")
	t.Setenv("COLORSEASON_CAPTURE_CROP_RATIO", "0.75")
	t.Setenv("COLORSEASON_CAPTURE_MIRROR", "false")
	t.Setenv("COLORSEASON_UPLOAD_MAX_FILE_SIZE", "1048576")
	t.Setenv("COLORSEASON_UPLOAD_ALLOWED_TYPES", "image/png, image/jpeg")
	t.Setenv("COLORSEASON_OUTFITS_DEFAULT_GENDER", "MALE")
	t.Setenv("COLORSEASON_CAMERA_COMMAND", "cat frame.png")

	loader := NewLoader()
	cfg := DefaultConfig()

	if err := loader.applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Service.BaseURL != "https://env.example.com" {
		t.Errorf("Expected base URL from env, got %s", cfg.Service.BaseURL)
	}
	if cfg.Capture.CropRatio != 0.75 {
		t.Errorf("Expected crop ratio 0.75, got %v", cfg.Capture.CropRatio)
	}
	if cfg.Capture.Mirror {
		t.Error("Expected mirror disabled")
	}
	if cfg.Upload.MaxFileSize != 1048576 {
		t.Errorf("Expected 1MB limit, got %d", cfg.Upload.MaxFileSize)
	}
	expectedTypes := []string{"image/png", "image/jpeg"}
	for i, expected := range expectedTypes {
		if i >= len(cfg.Upload.AllowedTypes) || cfg.Upload.AllowedTypes[i] != expected {
			t.Errorf("Expected allowed types %v, got %v", expectedTypes, cfg.Upload.AllowedTypes)
			break
		}
	}
	if cfg.Outfits.DefaultGender != "male" {
		t.Errorf("Expected gender male, got %s", cfg.Outfits.DefaultGender)
	}
	if len(cfg.Camera.Command) != 2 || cfg.Camera.Command[0] != "cat" {
		t.Errorf("Expected split command, got %v", cfg.Camera.Command)
	}
}

func TestApplyEnvOverridesLegacyBaseURL(t *testing.T) {
	t.Setenv("COLORSEASON_API_BASE_URL", "http://legacy:9000")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}
	if cfg.Service.BaseURL != "http://legacy:9000" {
		t.Errorf("Expected legacy base URL, got %s", cfg.Service.BaseURL)
	}

	t.Setenv("COLORSEASON_SERVICE_BASE_URL", "http://current:9000")
	cfg = DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}
	if cfg.Service.BaseURL != "http://current:9000" {
		t.Errorf("Expected current name to win, got %s", cfg.Service.BaseURL)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "COLORSEASON_CAPTURE_COUNTDOWN_SECONDS", "not-a-number"},
		{"invalid int64", "COLORSEASON_UPLOAD_MAX_FILE_SIZE", "5MB"},
		{"invalid float", "COLORSEASON_CAPTURE_CROP_RATIO", "most"},
		{"invalid bool", "COLORSEASON_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "COLORSEASON_SERVICE_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			} else if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var duration time.Duration
	if err := parseDuration("30s", &duration); err != nil || duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v (%v)", duration, err)
	}

	var i int
	if err := parseInt("42", &i); err != nil || i != 42 {
		t.Errorf("Expected 42, got %d (%v)", i, err)
	}

	var i64 int64
	if err := parseInt64("5242880", &i64); err != nil || i64 != 5242880 {
		t.Errorf("Expected 5242880, got %d (%v)", i64, err)
	}

	var f float64
	if err := parseFloat("0.5", &f); err != nil || f != 0.5 {
		t.Errorf("Expected 0.5, got %v (%v)", f, err)
	}

	var b bool
	if err := parseBool("true", &b); err != nil || !b {
		t.Errorf("Expected true, got %v (%v)", b, err)
	}
	if err := parseBool("nope", &b); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := writeConfig(t, t.TempDir(), "test-file", "test")
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x.yaml"); got != filepath.Join(home, "x.yaml") {
		t.Errorf("Expected expansion under home, got %s", got)
	}
	if got := ExpandPath("/abs/x.yaml"); got != "/abs/x.yaml" {
		t.Errorf("Expected absolute path unchanged, got %s", got)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "system file access", path: "/etc/passwd.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
