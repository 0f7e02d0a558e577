// Package config loads the user's deck configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents the user's deck configuration file.
type GlobalConfig struct {
	GatewayURL string `yaml:"gateway_url"`

	// HiddenStages are stage keys never offered to the user.
	HiddenStages []string `yaml:"hidden_stages"`

	// FiatEnabled turns on service account access checks.
	FiatEnabled bool `yaml:"fiat_enabled"`

	Catalogs       []CatalogConfig `yaml:"catalogs"`
	DefaultCatalog string          `yaml:"default_catalog"`
	CacheDir       string          `yaml:"cache_dir"`
}

// CatalogConfig identifies a named stage catalog source.
type CatalogConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Ref  string `yaml:"ref"`
}

// DefaultConfigDir returns the default configuration directory, respecting XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "deck")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "deck")
	}

	return filepath.Join(home, ".config", "deck")
}

// DefaultConfigPath returns the config.yaml path inside DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LoadGlobalConfig reads the global config from the given path and validates it.
// If the file doesn't exist, it returns a zero-value config (no error).
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}

		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := ValidateGlobalConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return &cfg, nil
}

// FindCatalog looks up a catalog by name. If name is empty, it returns the
// default catalog. Returns an error if the catalog is not found.
func (c *GlobalConfig) FindCatalog(name string) (*CatalogConfig, error) {
	if name == "" {
		name = c.DefaultCatalog
	}

	if name == "" && len(c.Catalogs) > 0 {
		return &c.Catalogs[0], nil
	}

	for i := range c.Catalogs {
		if c.Catalogs[i].Name == name {
			return &c.Catalogs[i], nil
		}
	}

	if name == "" {
		return nil, fmt.Errorf("no catalogs configured")
	}

	return nil, fmt.Errorf("catalog %q not found in config", name)
}
