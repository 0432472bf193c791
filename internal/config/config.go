// Package config loads the paramcheckd configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration.
type Config struct {
	Addr         string     `yaml:"addr"`
	LogLevel     string     `yaml:"log_level"`
	MaxBodyBytes int64      `yaml:"max_body_bytes"`
	Docs         DocsConfig `yaml:"docs"`
}

// DocsConfig describes the generated API document.
type DocsConfig struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
	Path        string   `yaml:"path"`
	Servers     []string `yaml:"servers"`
	// Security lists the accepted schemes: "basic" and "apikey".
	Security []string `yaml:"security"`
	// APIKeyHeader is the header carrying the API key.
	APIKeyHeader string `yaml:"api_key_header"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path. Missing settings take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse reads a YAML configuration. Missing settings take their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.Docs.Title == "" {
		c.Docs.Title = "paramcheckd"
	}
	if c.Docs.Version == "" {
		c.Docs.Version = "1.0.0"
	}
	if c.Docs.Path == "" {
		c.Docs.Path = "/docs"
	}
	c.Docs.Path = "/" + strings.Trim(c.Docs.Path, "/")
	if c.Docs.Security == nil {
		c.Docs.Security = []string{"basic", "apikey"}
	}
	if c.Docs.APIKeyHeader == "" {
		c.Docs.APIKeyHeader = "identify"
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	for _, s := range c.Docs.Security {
		switch strings.ToLower(s) {
		case "basic", "apikey":
		default:
			return fmt.Errorf("config: unknown security scheme %q", s)
		}
	}
	return nil
}
