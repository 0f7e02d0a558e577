package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/catalog"
	"github.com/donaldgifford/deck/internal/config"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		defaultURL string
		want       catalog.Source
		getterURL  string
	}{
		{
			name:       "short name",
			input:      "aws",
			defaultURL: "github.com/acme/deck-stages",
			want:       catalog.Source{URL: "github.com/acme/deck-stages", Path: "aws"},
			getterURL:  "github.com/acme/deck-stages//aws",
		},
		{
			name:       "short name with ref",
			input:      "aws@v1.2.0",
			defaultURL: "github.com/acme/deck-stages",
			want:       catalog.Source{URL: "github.com/acme/deck-stages", Path: "aws", Ref: "v1.2.0"},
			getterURL:  "github.com/acme/deck-stages//aws?ref=v1.2.0",
		},
		{
			name:       "short name below default subpath",
			input:      "titus",
			defaultURL: "github.com/acme/deck-stages//providers?ref=main",
			want:       catalog.Source{URL: "github.com/acme/deck-stages", Path: "providers/titus"},
			getterURL:  "github.com/acme/deck-stages//providers/titus",
		},
		{
			name:      "full go-getter URL",
			input:     "github.com/acme/deck-stages//aws",
			want:      catalog.Source{URL: "github.com/acme/deck-stages", Path: "aws"},
			getterURL: "github.com/acme/deck-stages//aws",
		},
		{
			name:      "full go-getter URL with ref",
			input:     "github.com/acme/deck-stages//aws?ref=v2.1.0",
			want:      catalog.Source{URL: "github.com/acme/deck-stages", Path: "aws", Ref: "v2.1.0"},
			getterURL: "github.com/acme/deck-stages//aws?ref=v2.1.0",
		},
		{
			name:      "scheme URL with subpath",
			input:     "https://example.com/stages.zip//aws",
			want:      catalog.Source{URL: "https://example.com/stages.zip", Path: "aws"},
			getterURL: "https://example.com/stages.zip//aws",
		},
		{
			name:      "scheme URL to a catalog file",
			input:     "https://example.com/catalog.yaml",
			want:      catalog.Source{URL: "https://example.com/catalog.yaml"},
			getterURL: "https://example.com/catalog.yaml",
		},
		{
			name:      "ssh repository",
			input:     "git@github.com:acme/deck-stages.git",
			want:      catalog.Source{URL: "git@github.com:acme/deck-stages.git"},
			getterURL: "git@github.com:acme/deck-stages.git",
		},
		{
			name:      "https repository",
			input:     "https://github.com/acme/deck-stages.git",
			want:      catalog.Source{URL: "https://github.com/acme/deck-stages.git"},
			getterURL: "https://github.com/acme/deck-stages.git",
		},
		{
			name:      "relative local directory",
			input:     "./stages/",
			want:      catalog.Source{URL: "stages", Local: true},
			getterURL: "stages",
		},
		{
			name:      "absolute local directory",
			input:     "/etc/deck/stages",
			want:      catalog.Source{URL: "/etc/deck/stages", Local: true},
			getterURL: "/etc/deck/stages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := catalog.Resolve(tt.input, tt.defaultURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *src)
			assert.Equal(t, tt.getterURL, src.GetterURL())
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		defaultURL string
		wantErr    string
	}{
		{name: "empty", input: "", wantErr: "cannot be empty"},
		{name: "no default", input: "aws", wantErr: "no default catalog configured"},
		{name: "empty path after separator", input: "github.com/acme/deck-stages//", wantErr: "empty path after //"},
		{name: "empty short name", input: "@v1", defaultURL: "github.com/acme/deck-stages", wantErr: "empty path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := catalog.Resolve(tt.input, tt.defaultURL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.CatalogConfig
		want catalog.Source
	}{
		{
			name: "whole repository",
			cfg:  config.CatalogConfig{Name: "acme", URL: "github.com/acme/deck-stages", Ref: "main"},
			want: catalog.Source{URL: "github.com/acme/deck-stages", Ref: "main"},
		},
		{
			name: "subpath",
			cfg:  config.CatalogConfig{Name: "acme", URL: "github.com/acme/deck-stages//aws?ref=v1"},
			want: catalog.Source{URL: "github.com/acme/deck-stages", Path: "aws", Ref: "v1"},
		},
		{
			name: "configured ref wins",
			cfg:  config.CatalogConfig{Name: "acme", URL: "github.com/acme/deck-stages//aws?ref=v1", Ref: "v2"},
			want: catalog.Source{URL: "github.com/acme/deck-stages", Path: "aws", Ref: "v2"},
		},
		{
			name: "local",
			cfg:  config.CatalogConfig{Name: "local", URL: "./testdata"},
			want: catalog.Source{URL: "testdata", Local: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := catalog.FromConfig(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *src)
		})
	}
}

func TestFromConfig_NoURL(t *testing.T) {
	t.Parallel()

	_, err := catalog.FromConfig(&config.CatalogConfig{Name: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `catalog "empty" has no url`)
}
