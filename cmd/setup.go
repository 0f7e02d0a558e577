package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/donaldgifford/deck/internal/catalog"
	"github.com/donaldgifford/deck/internal/config"
	"github.com/donaldgifford/deck/internal/gateway"
	"github.com/donaldgifford/deck/internal/registry"
	"github.com/donaldgifford/deck/internal/stages"
	"github.com/donaldgifford/deck/internal/ui"
)

func loadConfig() (*config.GlobalConfig, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		return nil, err
	}

	if gatewayURL != "" {
		cfg.GatewayURL = gatewayURL
	}

	return cfg, nil
}

// newGateway returns nil without error when no gateway is configured.
func newGateway(cfg *config.GlobalConfig) (*gateway.Client, error) {
	if cfg.GatewayURL == "" {
		return nil, nil
	}

	return gateway.New(cfg.GatewayURL, gateway.Options{Logger: slog.Default()})
}

func requireGateway(cfg *config.GlobalConfig) (*gateway.Client, error) {
	gw, err := newGateway(cfg)
	if err != nil {
		return nil, err
	}

	if gw == nil {
		return nil, errors.New("no gateway configured; set gateway_url in the config file or pass --gateway")
	}

	return gw, nil
}

// buildRegistry registers the built-in types, the configured catalogs and,
// when a gateway is available, its preconfigured jobs. Catalog and gateway
// failures are reported as warnings so the built-in types stay usable.
func buildRegistry(ctx context.Context, cfg *config.GlobalConfig, gw *gateway.Client, w *ui.Writer) *registry.Registry {
	logger := slog.Default()

	reg := registry.New(logger, cfg.HiddenStages...)
	stages.RegisterAll(reg)

	fetcher := catalog.NewFetcher(cfg.CacheDir, logger)
	if err := fetcher.ApplyConfigured(ctx, reg, cfg.Catalogs); err != nil {
		w.Warningf("some catalogs were not loaded: %v", err)
	}

	if gw == nil {
		return reg
	}

	if err := reg.RegisterPreconfiguredJobStages(ctx, gw); err != nil {
		w.Warningf("preconfigured jobs not loaded: %v", err)
	}

	return reg
}
