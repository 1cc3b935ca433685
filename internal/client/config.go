// Package client talks to the remote color classification and outfit
// matching services.
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/ColorSeason/internal/logger"
)

const (
	// DefaultBaseURL is where the service runs in local development
	DefaultBaseURL = "http://localhost:8000"

	analyzePath = "/analyze-color"
	outfitsPath = "/get-matching-clothes"
	healthPath  = "/health"

	// UploadFilename is the multipart filename sent with every image
	UploadFilename = "captured-image.png"
)

// Config holds the service connection settings
type Config struct {
	// BaseURL is the service endpoint, shared by analysis and outfit matching
	BaseURL string `json:"base_url"`

	// Timeout for HTTP requests; zero leaves the transport default
	Timeout time.Duration `json:"timeout"`

	// IncludeDescription asks the classifier for the season description payload
	IncludeDescription bool `json:"include_description"`
}

// DefaultConfig returns the local development configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		IncludeDescription: true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme: %s (must be http or https)", u.Scheme)
	}
	return nil
}

// base holds what both clients share
type base struct {
	config  *Config
	http    *http.Client
	baseURL *url.URL
	log     *logger.Logger
}

func newBase(config *Config, log *logger.Logger) (*base, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}

	return &base{
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
		log:     log,
	}, nil
}

// BaseURL returns the configured service URL
func (b *base) BaseURL() string {
	return b.config.BaseURL
}
