// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Neon contains Neon console API settings
	Neon NeonConfig `json:"neon"`

	// GitHub contains GitHub billing API settings
	GitHub GitHubConfig `json:"github"`

	// Datadog contains Custom Costs upload settings
	Datadog DatadogConfig `json:"datadog"`

	// Pricing contains pricing table configuration
	Pricing PricingConfig `json:"pricing"`

	// HTTP contains transport settings shared by all API clients
	HTTP HTTPConfig `json:"http"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// NeonConfig contains Neon-specific settings
type NeonConfig struct {
	// APIKey authenticates against the Neon console API
	APIKey string `json:"api_key,omitempty"`

	// OrgID is the Neon organization to bill against
	OrgID string `json:"org_id,omitempty"`

	// BaseURL is the console API root
	BaseURL string `json:"base_url"`

	// APIVersion selects the consumption payload generation (v1, v2)
	APIVersion string `json:"api_version"`
}

// GitHubConfig contains GitHub-specific settings
type GitHubConfig struct {
	// Token is a PAT with the billing:read scope
	Token string `json:"token,omitempty"`

	// Org is the GitHub organization name
	Org string `json:"org,omitempty"`

	// BaseURL is the REST API root
	BaseURL string `json:"base_url"`
}

// DatadogConfig contains Datadog Custom Costs settings
type DatadogConfig struct {
	// APIKey is the Datadog API key
	APIKey string `json:"api_key,omitempty"`

	// AppKey is the Datadog application key
	AppKey string `json:"app_key,omitempty"`

	// BaseURL is the Datadog API root
	BaseURL string `json:"base_url"`
}

// PricingConfig contains pricing table settings
type PricingConfig struct {
	// File is an optional HCL era file; empty means the built-in table
	File string `json:"file,omitempty"`
}

// HTTPConfig contains transport settings
type HTTPConfig struct {
	// TimeoutSeconds bounds every API call
	TimeoutSeconds int `json:"timeout_seconds"`

	// RateLimit is the client-side request rate per second
	RateLimit float64 `json:"rate_limit"`

	// RateBurst is the limiter burst size
	RateBurst int `json:"rate_burst"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Neon: NeonConfig{
			BaseURL:    "https://console.neon.tech/api/v2",
			APIVersion: "v2",
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
		},
		Datadog: DatadogConfig{
			BaseURL: "https://api.datadoghq.com",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			RateLimit:      5,
			RateBurst:      10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file and overlays credential environment
// variables. A missing file is not an error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Wrapf(errors.TypeConfig, err, "parsing config file %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overlays credentials from the environment. Environment values win
// over file values so secrets never need to live in the config file.
func (c *Config) applyEnv() {
	setenv := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setenv(&c.Neon.APIKey, "NEON_API_KEY")
	setenv(&c.Neon.OrgID, "NEON_ORG_ID")
	setenv(&c.GitHub.Token, "GITHUB_TOKEN")
	setenv(&c.GitHub.Org, "GITHUB_ORG")
	setenv(&c.Datadog.APIKey, "DD_API_KEY")
	setenv(&c.Datadog.AppKey, "DD_APP_KEY")
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks Neon credentials before any network call
func (c NeonConfig) Validate() error {
	if c.APIKey == "" {
		return errors.Config("Neon API key required. Set NEON_API_KEY environment variable.")
	}
	if c.OrgID == "" {
		return errors.Config("Neon organization ID required. Set NEON_ORG_ID environment variable.")
	}
	return nil
}

// Validate checks GitHub credentials before any network call
func (c GitHubConfig) Validate() error {
	if c.Token == "" {
		return errors.Config("GitHub token required. Set GITHUB_TOKEN environment variable.")
	}
	if c.Org == "" {
		return errors.Config("GitHub organization required. Set GITHUB_ORG environment variable.")
	}
	return nil
}

// Validate checks Datadog credentials before constructing the uploader
func (c DatadogConfig) Validate() error {
	if c.APIKey == "" || c.AppKey == "" {
		return errors.Config("Datadog credentials not configured. Set DD_API_KEY and DD_APP_KEY environment variables.")
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
