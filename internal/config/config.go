// ABOUTME: Configuration loading and parsing for the support-channel console.
// ABOUTME: Supports YAML files with environment variable expansion.

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete console configuration
type Config struct {
	Services ServicesConfig `yaml:"services"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServicesConfig holds the base URLs of the two backend services
type ServicesConfig struct {
	// ChannelURL is the channel-admin/chat service base URL
	ChannelURL string `yaml:"channel_url"`
	// KbURL is the knowledge-base service base URL
	KbURL string `yaml:"kb_url"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// TokenFile overrides the default token file location
	// (~/.config/support-admin/token). The SUPPORT_ADMIN_TOKEN
	// environment variable takes precedence over either.
	TokenFile string `yaml:"token_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Services.ChannelURL == "" {
		return fmt.Errorf("services.channel_url is required")
	}
	if c.Services.KbURL == "" {
		return fmt.Errorf("services.kb_url is required")
	}
	return nil
}
