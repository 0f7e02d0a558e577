// Package getter wraps hashicorp/go-getter for fetching remote stage catalogs.
package getter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	getter "github.com/hashicorp/go-getter/v2"
)

// Getter fetches catalog sources from git, HTTP, S3 and the other protocols
// go-getter understands.
type Getter struct {
	client *getter.Client
	logger *slog.Logger
}

// New creates a Getter with symlinks disabled.
func New(logger *slog.Logger) *Getter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Getter{
		client: &getter.Client{
			DisableSymlinks: true,
		},
		logger: logger,
	}
}

// FetchOpts configures a fetch operation.
type FetchOpts struct {
	// Ref is appended as ?ref= for git sources.
	Ref string
}

// Fetch downloads a catalog directory to dest. src uses go-getter URL syntax
// including // for subpath extraction.
func (g *Getter) Fetch(ctx context.Context, src, dest string, opts FetchOpts) error {
	return g.get(ctx, src, dest, opts, getter.ModeDir)
}

// FetchFile downloads a single catalog file from src to dest.
func (g *Getter) FetchFile(ctx context.Context, src, dest string, opts FetchOpts) error {
	return g.get(ctx, src, dest, opts, getter.ModeFile)
}

func (g *Getter) get(ctx context.Context, src, dest string, opts FetchOpts, mode getter.Mode) error {
	fullSrc := WithRef(src, opts.Ref)
	g.logger.Debug("fetching catalog source", "src", fullSrc, "dest", dest, "mode", mode)

	req := &getter.Request{
		Src:             fullSrc,
		Dst:             dest,
		GetMode:         mode,
		DisableSymlinks: true,
	}

	if _, err := g.client.Get(ctx, req); err != nil {
		return fmt.Errorf("fetching %s: %w", src, err)
	}

	return nil
}

// WithRef adds a ref query parameter to a go-getter source URL.
func WithRef(src, ref string) string {
	if ref == "" {
		return src
	}

	if strings.Contains(src, "?") {
		return src + "&ref=" + ref
	}

	return src + "?ref=" + ref
}
