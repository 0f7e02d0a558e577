package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/deck/internal/catalog"
	"github.com/donaldgifford/deck/internal/config"
	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

func TestFetcher_FetchLocal(t *testing.T) {
	t.Parallel()

	f := catalog.NewFetcher(t.TempDir(), nil)

	src, err := catalog.Resolve("./testdata", "")
	require.NoError(t, err)

	cat, dir, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "acme-stages", cat.Name)
	assert.Equal(t, "testdata", dir)

	require.NoError(t, f.Refresh(src))
}

func TestFetcher_ApplyConfigured(t *testing.T) {
	t.Parallel()

	f := catalog.NewFetcher(t.TempDir(), nil)
	reg := registry.New(nil)

	err := f.ApplyConfigured(context.Background(), reg, []config.CatalogConfig{
		{Name: "base", URL: "./testdata"},
		{Name: "aws", URL: "./testdata/aws"},
	})
	require.NoError(t, err)

	cfg := reg.StageConfig(pipeline.Stage{"type": "canary", "cloudProvider": "aws"})
	require.NotNil(t, cfg)
	assert.Equal(t, "aws", cfg.CloudProvider)
}

func TestFetcher_ApplyConfiguredReportsFailures(t *testing.T) {
	t.Parallel()

	f := catalog.NewFetcher(t.TempDir(), nil)
	reg := registry.New(nil)

	err := f.ApplyConfigured(context.Background(), reg, []config.CatalogConfig{
		{Name: "missing", URL: "./testdata/missing"},
		{Name: "base", URL: "./testdata"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog missing")

	assert.NotNil(t, reg.StageConfig(pipeline.Stage{"type": "canary"}))
}
