package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/donaldgifford/deck/internal/config"
	"github.com/donaldgifford/deck/internal/getter"
	"github.com/donaldgifford/deck/internal/registry"
)

// Fetcher resolves catalog sources to local directories, downloading remote
// ones through the cache.
type Fetcher struct {
	cache  *Cache
	getter *getter.Getter
	logger *slog.Logger
}

// NewFetcher creates a Fetcher caching under cacheDir. An empty cacheDir
// means DefaultCacheDir().
func NewFetcher(cacheDir string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}

	return &Fetcher{
		cache:  NewCache(cacheDir, logger),
		getter: getter.New(logger),
		logger: logger,
	}
}

// Fetch returns the catalog at src along with the directory it was read from.
func (f *Fetcher) Fetch(ctx context.Context, src *Source) (*Catalog, string, error) {
	if src.Local {
		cat, err := Load(src.URL)
		if err != nil {
			return nil, "", err
		}

		return cat, src.URL, nil
	}

	dir, err := f.cache.GetOrFetch(src.cacheKey(), src.Ref, func(dest string) error {
		opts := getter.FetchOpts{Ref: src.Ref}
		if src.Path == "" && isYAML(src.URL) {
			return f.getter.FetchFile(ctx, src.URL, filepath.Join(dest, FileName), opts)
		}

		// go-getter treats an existing git destination as a checkout to update.
		if err := os.Remove(dest); err != nil {
			return err
		}

		return f.getter.Fetch(ctx, src.cacheKey(), dest, opts)
	})
	if err != nil {
		return nil, "", err
	}

	cat, err := Load(dir)
	if err != nil {
		return nil, "", err
	}

	f.logger.Debug("catalog loaded", "name", cat.Name, "source", src.GetterURL(), "dir", dir)

	return cat, dir, nil
}

// Refresh drops any cached copy of src so the next Fetch downloads it again.
func (f *Fetcher) Refresh(src *Source) error {
	if src.Local {
		return nil
	}

	return f.cache.Invalidate(src.cacheKey())
}

// ApplyConfigured fetches every configured catalog and registers its entries
// with reg, in configuration order. A catalog that fails to load is skipped
// and its error reported once all catalogs have been tried.
func (f *Fetcher) ApplyConfigured(ctx context.Context, reg *registry.Registry, catalogs []config.CatalogConfig) error {
	var errs []error

	for i := range catalogs {
		c := &catalogs[i]

		src, err := FromConfig(c)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		cat, _, err := f.Fetch(ctx, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("catalog %s: %w", c.Name, err))

			continue
		}

		n := Apply(reg, cat)
		f.logger.Debug("applied catalog", "catalog", c.Name, "registrations", n)
	}

	return errors.Join(errs...)
}
