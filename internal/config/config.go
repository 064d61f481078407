// Package config provides configuration management for bibweb.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/bibweb/pkg/tex"
)

// OutputFormats are the values accepted in output_format.
var OutputFormats = []string{"html", "markdown"}

// Config holds the bibweb configuration.
type Config struct {
	Author             string            `yaml:"author,omitempty"`
	Stylesheet         string            `yaml:"stylesheet,omitempty"`
	OutputFormat       string            `yaml:"output_format,omitempty"`
	MaxDepth           int               `yaml:"max_depth,omitempty"`
	MaxExpansions      int               `yaml:"max_expansions,omitempty"`
	SentenceCaseTitles bool              `yaml:"sentence_case_titles,omitempty"`
	Macros             map[string]string `yaml:"macros,omitempty"`
}

// Validate checks that all fields hold usable values. Zero limits and an
// empty output format select the defaults.
func (c *Config) Validate() error {
	if c.OutputFormat != "" {
		ok := false
		for _, f := range OutputFormats {
			if c.OutputFormat == f {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("output_format must be one of %s", strings.Join(OutputFormats, ", "))
		}
	}
	if c.MaxDepth < 0 {
		return errors.New("max_depth must be positive")
	}
	if c.MaxExpansions < 0 {
		return errors.New("max_expansions must be positive")
	}
	for name := range c.Macros {
		if name == "" || strings.ContainsAny(name, " \t\r\n{}") {
			return fmt.Errorf("invalid macro name %q", name)
		}
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// A BIBWEB_MAX_DEPTH that is not a number is ignored.
func (c *Config) LoadFromEnv() {
	if author := os.Getenv("BIBWEB_AUTHOR"); author != "" {
		c.Author = author
	}
	if sheet := os.Getenv("BIBWEB_STYLESHEET"); sheet != "" {
		c.Stylesheet = sheet
	}
	if format := os.Getenv("BIBWEB_OUTPUT_FORMAT"); format != "" {
		c.OutputFormat = format
	}
	if depth := os.Getenv("BIBWEB_MAX_DEPTH"); depth != "" {
		if n, err := strconv.Atoi(depth); err == nil {
			c.MaxDepth = n
		}
	}
}

// SeedMacros returns the macro definitions the configuration adds to every
// run: the macros map plus author and stylesheet when set.
func (c *Config) SeedMacros() map[string]string {
	seeds := make(map[string]string, len(c.Macros)+2)
	for name, defn := range c.Macros {
		seeds[name] = defn
	}
	if c.Author != "" {
		seeds["author"] = c.Author
	}
	if c.Stylesheet != "" {
		seeds["stylesheet"] = c.Stylesheet
	}
	return seeds
}

// NewConverter returns a converter using the configured limits, with the
// seed macros defined in its bottom scope.
func (c *Config) NewConverter() *tex.Converter {
	conv := tex.NewConverter(tex.Options{
		MaxDepth:      c.MaxDepth,
		MaxExpansions: c.MaxExpansions,
	})
	for name, defn := range c.SeedMacros() {
		conv.AddMacro(name, defn)
	}
	return conv
}

// Resolve loads the configuration at path, or at DefaultConfigPath when
// path is empty, applies environment overrides and validates the result.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bibweb", "config.yml")
	}

	// Fall back to ~/.config/bibweb/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".bibweb", "config.yml")
	}

	return filepath.Join(home, ".config", "bibweb", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
// A missing file yields an empty configuration; a malformed one is an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
