package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	cacheMetaFile = ".deck-cache-meta"
	catalogsDir   = "catalogs"
)

type cacheMeta struct {
	URL string `yaml:"url"`
	Ref string `yaml:"ref"`
}

// Cache keeps fetched catalogs on disk, one directory per source URL.
type Cache struct {
	baseDir string
	logger  *slog.Logger
}

// NewCache creates a Cache rooted at baseDir, typically DefaultCacheDir().
func NewCache(baseDir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		baseDir: baseDir,
		logger:  logger,
	}
}

// DefaultCacheDir returns the default cache directory, respecting XDG_CACHE_HOME.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "deck")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "deck")
	}

	return filepath.Join(home, ".cache", "deck")
}

// GetOrFetch returns the cached directory for url. When nothing is cached or
// the cached ref differs from ref, the directory is emptied and fetchFn
// populates it.
func (c *Cache) GetOrFetch(url, ref string, fetchFn func(dest string) error) (string, error) {
	dir := c.dir(url)
	metaPath := filepath.Join(dir, cacheMetaFile)

	if meta, err := readCacheMeta(metaPath); err == nil {
		if meta.Ref == ref {
			c.logger.Debug("catalog cache hit", "url", url, "ref", ref)

			return dir, nil
		}

		c.logger.Debug("catalog cache stale", "url", url, "cached_ref", meta.Ref, "requested_ref", ref)
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("removing stale cache %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	c.logger.Debug("fetching catalog", "url", url, "ref", ref, "dest", dir)

	if err := fetchFn(dir); err != nil {
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			c.logger.Warn("failed to clean up cache on fetch failure", "err", removeErr)
		}

		return "", fmt.Errorf("fetching catalog %s: %w", url, err)
	}

	if err := writeCacheMeta(metaPath, &cacheMeta{URL: url, Ref: ref}); err != nil {
		return "", fmt.Errorf("writing cache metadata: %w", err)
	}

	return dir, nil
}

// Invalidate removes the cached content for url.
func (c *Cache) Invalidate(url string) error {
	dir := c.dir(url)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("invalidating cache for %s: %w", url, err)
	}

	c.logger.Debug("catalog cache invalidated", "url", url)

	return nil
}

// Clean removes every cached catalog and returns the number of bytes freed.
func (c *Cache) Clean() (int64, error) {
	dir := filepath.Join(c.baseDir, catalogsDir)

	size, err := dirSize(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, err
	}

	c.logger.Debug("removing catalog cache", "dir", dir, "size", size)

	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("removing %s: %w", dir, err)
	}

	return size, nil
}

func dirSize(path string) (int64, error) {
	var size int64

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}

			size += info.Size()
		}

		return nil
	})

	return size, err
}

func (c *Cache) dir(url string) string {
	sum := sha256.Sum256([]byte(url))

	return filepath.Join(c.baseDir, catalogsDir, hex.EncodeToString(sum[:8]))
}

func readCacheMeta(path string) (*cacheMeta, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var meta cacheMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func writeCacheMeta(path string, meta *cacheMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
