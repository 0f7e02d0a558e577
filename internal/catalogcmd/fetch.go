package catalogcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/donaldgifford/deck/internal/catalog"
	"github.com/donaldgifford/deck/internal/config"
)

// FetchOpts configures the catalog fetch operation.
type FetchOpts struct {
	Fetcher *catalog.Fetcher
	Config  *config.GlobalConfig
	// Input is a configured catalog name or any reference catalog.Resolve accepts.
	Input string
	// Refresh discards the cached copy before fetching.
	Refresh bool
}

// FetchResult describes a fetched catalog.
type FetchResult struct {
	Catalog *catalog.Catalog
	Source  *catalog.Source
	Dir     string
}

// Fetch resolves the input against the configured catalogs and downloads it.
func Fetch(ctx context.Context, opts *FetchOpts) (*FetchResult, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = &config.GlobalConfig{}
	}

	src, err := resolve(cfg, opts.Input)
	if err != nil {
		return nil, err
	}

	if opts.Refresh {
		if err := opts.Fetcher.Refresh(src); err != nil {
			return nil, err
		}
	}

	cat, dir, err := opts.Fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog %s: %w", src.GetterURL(), err)
	}

	return &FetchResult{Catalog: cat, Source: src, Dir: dir}, nil
}

// resolve treats input as a configured catalog name first, then as a
// reference relative to the default catalog.
func resolve(cfg *config.GlobalConfig, input string) (*catalog.Source, error) {
	for i := range cfg.Catalogs {
		if cfg.Catalogs[i].Name == input {
			return catalog.FromConfig(&cfg.Catalogs[i])
		}
	}

	var defaultURL string
	if len(cfg.Catalogs) > 0 {
		def, err := cfg.FindCatalog("")
		if err != nil {
			return nil, err
		}

		defaultURL = def.URL
	}

	return catalog.Resolve(input, defaultURL)
}
