// ABOUTME: Configuration loading and parsing for chatvault
// ABOUTME: Supports YAML files with environment variable expansion and validation

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete chatvault configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Provider ProviderConfig `yaml:"provider"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds the token gate configuration.
// StaticSecret grants access on byte-exact match. Tokens carrying
// TokenPrefix are resolved at the identity provider and checked against
// AllowedIdentities.
type AuthConfig struct {
	StaticSecret      string   `yaml:"static_secret"`
	TokenPrefix       string   `yaml:"token_prefix"`
	AllowedIdentities []string `yaml:"allowed_identities"`
}

// ProviderConfig holds identity provider endpoints and client credentials.
// ClientID/ClientSecret are only needed for the browser login flow; the
// userinfo endpoint is what token validation calls.
type ProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AuthURL      string `yaml:"auth_url"`
	TokenURL     string `yaml:"token_url"`
	UserinfoURL  string `yaml:"userinfo_url"`
	RedirectURL  string `yaml:"redirect_url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults for the GitHub-shaped identity provider.
const (
	DefaultTokenPrefix = "gho_"
	DefaultAuthURL     = "https://github.com/login/oauth/authorize"
	DefaultTokenURL    = "https://github.com/login/oauth/access_token"
	DefaultUserinfoURL = "https://api.github.com/user"
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse parses raw YAML configuration bytes, expands environment
// variables, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in provider endpoints and the token prefix when the
// config leaves them out.
func (c *Config) applyDefaults() {
	if c.Auth.TokenPrefix == "" {
		c.Auth.TokenPrefix = DefaultTokenPrefix
	}
	if c.Provider.AuthURL == "" {
		c.Provider.AuthURL = DefaultAuthURL
	}
	if c.Provider.TokenURL == "" {
		c.Provider.TokenURL = DefaultTokenURL
	}
	if c.Provider.UserinfoURL == "" {
		c.Provider.UserinfoURL = DefaultUserinfoURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
// Absence of a required value is fatal at startup, never a per-request error.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Auth.StaticSecret == "" {
		return fmt.Errorf("auth.static_secret is required")
	}

	// The login flow needs both halves of the client credential.
	if (c.Provider.ClientID == "") != (c.Provider.ClientSecret == "") {
		return fmt.Errorf("provider.client_id and provider.client_secret must be set together")
	}

	return nil
}

// LoginEnabled reports whether the OAuth login flow can be served.
func (c *Config) LoginEnabled() bool {
	return c.Provider.ClientID != "" && c.Provider.ClientSecret != ""
}
