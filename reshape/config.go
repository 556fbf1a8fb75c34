package reshape

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tree-reshaper/cast"
	"tree-reshaper/internal/schema"
)

// Config holds the settings of an Engine.
type Config struct {
	// Delimiters of the path language. Empty tokens fall back to the defaults.
	Delimiters schema.Delimiters `yaml:"delimiters"`

	// IgnoreNonExistingElements makes missing keys non-fatal for every entry
	// that does not ask for "required" itself.
	IgnoreNonExistingElements bool `yaml:"ignore_non_existing_elements"`

	// PreservePartlyExistingElements substitutes an empty container for a
	// missing, ignored key instead of null.
	PreservePartlyExistingElements bool `yaml:"preserve_partly_existing_elements"`

	// Caster converts values for "|type" suffixes. Defaults to cast.NewRegistry().
	Caster cast.Caster `yaml:"-"`

	// Logger defaults to a no-op logger.
	Logger *zap.Logger `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Delimiters: schema.DefaultDelimiters(),
		Caster:     cast.NewRegistry(),
		Logger:     zap.NewNop(),
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Delimiters = cfg.Delimiters.WithDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Delimiters.WithDefaults().Validate(); err != nil {
		return fmt.Errorf("invalid delimiters: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v, ok := envBool("TREE_RESHAPER_IGNORE_MISSING"); ok {
		c.IgnoreNonExistingElements = v
	}

	if v, ok := envBool("TREE_RESHAPER_PRESERVE_PARTIAL"); ok {
		c.PreservePartlyExistingElements = v
	}
}

func envBool(name string) (bool, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}

	return v, true
}
