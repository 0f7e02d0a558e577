package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateGlobalConfig checks a GlobalConfig for required fields and valid values.
func ValidateGlobalConfig(cfg *GlobalConfig) error {
	if cfg.GatewayURL != "" {
		if err := validateGatewayURL(cfg.GatewayURL); err != nil {
			return err
		}
	}

	for i, key := range cfg.HiddenStages {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("hidden_stages[%d]: stage key is required", i)
		}
	}

	seen := map[string]bool{}

	for i, c := range cfg.Catalogs {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("catalogs[%d]: name is required", i)
		}
		if strings.TrimSpace(c.URL) == "" {
			return fmt.Errorf("catalogs[%d] (%s): url is required", i, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("catalogs[%d] (%s): duplicate catalog name", i, c.Name)
		}

		seen[c.Name] = true
	}

	if cfg.DefaultCatalog != "" && !seen[cfg.DefaultCatalog] {
		return fmt.Errorf("default_catalog %q does not match any configured catalog", cfg.DefaultCatalog)
	}

	return nil
}

func validateGatewayURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid gateway_url %q: %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid gateway_url %q: scheme must be http or https", raw)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid gateway_url %q: host is required", raw)
	}

	return nil
}
