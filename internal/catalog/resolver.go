package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/donaldgifford/deck/internal/config"
	"github.com/donaldgifford/deck/internal/getter"
)

// Source is the resolved location of a catalog.
type Source struct {
	// URL is the repository or archive URL (e.g., "github.com/acme/deck-stages"),
	// or the directory of a local catalog.
	URL string

	// Path is the subpath of the catalog inside URL (e.g., "aws").
	Path string

	// Ref is the git ref to fetch. Empty means the default branch.
	Ref string

	// Local marks a catalog read straight from disk.
	Local bool
}

// Resolve parses a user-provided catalog reference.
//
// Supported input formats:
//   - "./stages", "../stages", "/abs/stages": local directory or catalog file
//   - "aws" or "aws@v1.2.0": subpath of the default source, optionally pinned
//   - "github.com/acme/deck-stages//aws?ref=v1.2.0": go-getter URL with subpath
//   - "git@github.com:acme/deck-stages.git", "https://host/stages.git": whole repository
func Resolve(input, defaultURL string) (*Source, error) {
	if input == "" {
		return nil, errors.New("catalog reference cannot be empty")
	}

	if isLocal(input) {
		return &Source{URL: filepath.Clean(input), Local: true}, nil
	}

	if strings.HasPrefix(input, "git@") || strings.HasSuffix(input, ".git") {
		return &Source{URL: input}, nil
	}

	if base, rest, ok := cutSubpath(input); ok {
		path, ref := splitQueryRef(rest)
		if path == "" {
			return nil, fmt.Errorf("invalid catalog URL %q: empty path after //", input)
		}

		return &Source{URL: base, Path: path, Ref: ref}, nil
	}

	if strings.Contains(input, "://") || strings.Contains(input, "::") {
		url, ref := splitQueryRef(input)

		return &Source{URL: url, Ref: ref}, nil
	}

	if defaultURL == "" {
		return nil, errors.New("no default catalog configured; use a full URL or configure default_catalog")
	}

	path, ref := splitAtRef(input)
	if path == "" {
		return nil, fmt.Errorf("invalid catalog reference %q: empty path", input)
	}

	if base, sub, ok := cutSubpath(defaultURL); ok {
		sub, _ = splitQueryRef(sub)
		defaultURL = base
		path = strings.TrimSuffix(sub, "/") + "/" + path
	}

	return &Source{URL: defaultURL, Path: path, Ref: ref}, nil
}

// FromConfig resolves a configured catalog. Its url is used whole unless it
// is local or carries a "//" subpath; a configured ref wins over one in the url.
func FromConfig(c *config.CatalogConfig) (*Source, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("catalog %q has no url", c.Name)
	}

	var src *Source

	switch base, rest, ok := cutSubpath(c.URL); {
	case isLocal(c.URL):
		src = &Source{URL: filepath.Clean(c.URL), Local: true}
	case ok:
		path, ref := splitQueryRef(rest)
		src = &Source{URL: base, Path: path, Ref: ref}
	default:
		url, ref := splitQueryRef(c.URL)
		src = &Source{URL: url, Ref: ref}
	}

	if c.Ref != "" {
		src.Ref = c.Ref
	}

	return src, nil
}

func isLocal(input string) bool {
	return filepath.IsAbs(input) ||
		input == "." ||
		strings.HasPrefix(input, "./") ||
		strings.HasPrefix(input, "../")
}

// cutSubpath splits input at the go-getter "//" subpath separator, ignoring
// the one following a URL scheme.
func cutSubpath(input string) (base, rest string, found bool) {
	offset := 0
	if i := strings.Index(input, "://"); i >= 0 {
		offset = i + len("://")
	}

	idx := strings.Index(input[offset:], "//")
	if idx < 0 {
		return input, "", false
	}

	idx += offset

	return input[:idx], input[idx+2:], true
}

// splitAtRef splits "aws@v1.2.0" into ("aws", "v1.2.0").
func splitAtRef(input string) (name, ref string) {
	idx := strings.LastIndex(input, "@")
	if idx < 0 {
		return input, ""
	}

	return input[:idx], input[idx+1:]
}

// splitQueryRef extracts the ref query parameter, dropping the query.
func splitQueryRef(s string) (path, ref string) {
	path, query, hasQuery := strings.Cut(s, "?")
	if !hasQuery {
		return path, ""
	}

	for param := range strings.SplitSeq(query, "&") {
		if v, found := strings.CutPrefix(param, "ref="); found {
			ref = v

			break
		}
	}

	return path, ref
}

// GetterURL returns the go-getter URL for the source, including its ref.
func (s *Source) GetterURL() string {
	if s.Local {
		return s.URL
	}

	return getter.CatalogURL(s.URL, s.Path, s.Ref)
}

// cacheKey identifies the source independently of its ref.
func (s *Source) cacheKey() string {
	return getter.CatalogURL(s.URL, s.Path, "")
}
